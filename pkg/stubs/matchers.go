package stubs

// Convenience constructors for the matcher shapes WireMock accepts in
// headers, queryParameters and bodyPatterns. Each returns a one-key
// mapping, e.g. EqualTo("London") -> {"equalTo": "London"}.

// EqualTo matches a value exactly.
func EqualTo(value string) map[string]any {
	return map[string]any{"equalTo": value}
}

// Contains matches when the value contains the given substring.
func Contains(value string) map[string]any {
	return map[string]any{"contains": value}
}

// Matches matches the value against a regular expression.
func Matches(pattern string) map[string]any {
	return map[string]any{"matches": pattern}
}

// DoesNotMatch is the negation of Matches.
func DoesNotMatch(pattern string) map[string]any {
	return map[string]any{"doesNotMatch": pattern}
}

// EqualToJSON compares the value as JSON, ignoring formatting.
func EqualToJSON(document string) map[string]any {
	return map[string]any{"equalToJson": document}
}

// MatchesJSONPath matches when the JSONPath expression yields a result.
func MatchesJSONPath(expression string) map[string]any {
	return map[string]any{"matchesJsonPath": expression}
}

// Absent matches when the header or parameter is not present at all.
func Absent() map[string]any {
	return map[string]any{"absent": true}
}
