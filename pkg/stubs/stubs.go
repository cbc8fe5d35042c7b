// Package stubs assembles the JSON shapes the WireMock admin API expects:
// stub mappings (request matcher + response definition) and request
// patterns for verification queries. Everything here is a pure function
// over generic mappings; no network access.
package stubs

import (
	"strings"

	"github.com/google/uuid"
)

// The four mutually exclusive URL matcher keys WireMock understands.
var urlKeys = []string{"url", "urlPath", "urlPattern", "urlPathPattern"}

// DetermineURLKey picks the default URL matcher key for a pattern built
// from a plain URL string.
//
// When the matchers already carry one of the URL keys the caller has made
// an explicit choice and the default is irrelevant; "url" is returned.
// When query-parameter matchers are present, an exact-URL match would
// embed the query string and conflict with them, so path-only matching
// ("urlPath") is the only sound default. Otherwise exact "url" matching
// applies.
func DetermineURLKey(matchers map[string]any) string {
	if HasURLKey(matchers) {
		return "url"
	}
	if _, ok := matchers["queryParameters"]; ok {
		return "urlPath"
	}
	return "url"
}

// HasURLKey reports whether the matchers carry an explicit URL matcher key.
func HasURLKey(matchers map[string]any) bool {
	for _, key := range urlKeys {
		if _, ok := matchers[key]; ok {
			return true
		}
	}
	return false
}

// RequestPattern builds a request pattern from a method, a URL and extra
// matchers. The method is uppercased; the URL lands under the key chosen
// by DetermineURLKey unless the extra matchers carry their own URL key, in
// which case the caller's choice is preserved and the url argument is
// dropped. Extra matchers win over the derived fields on merge.
func RequestPattern(method, url string, extra map[string]any) map[string]any {
	pattern := map[string]any{
		"method": strings.ToUpper(method),
	}
	if !HasURLKey(extra) {
		pattern[DetermineURLKey(extra)] = url
	}
	for key, value := range extra {
		pattern[key] = value
	}
	return pattern
}

// Response builds a response definition. A string body is sent verbatim
// under "body" (omitted entirely when empty, so the server answers with
// an empty body). Any other non-nil value becomes "jsonBody", and a
// Content-Type: application/json header is injected when the caller did
// not set one. At most one of the two body fields is ever present.
func Response(status int, body any, headers map[string]string) map[string]any {
	hdrs := make(map[string]string, len(headers))
	for name, value := range headers {
		hdrs[name] = value
	}

	resp := map[string]any{
		"status":  status,
		"headers": hdrs,
	}

	switch b := body.(type) {
	case nil:
	case string:
		if b != "" {
			resp["body"] = b
		}
	default:
		resp["jsonBody"] = b
		if _, ok := hdrs["Content-Type"]; !ok {
			hdrs["Content-Type"] = "application/json"
		}
	}
	return resp
}

// Mapping combines a request pattern and a response definition into a
// stub mapping ready for POST mappings.
func Mapping(request, response map[string]any) map[string]any {
	return map[string]any{
		"request":  request,
		"response": response,
	}
}

// NewID returns a fresh identifier suitable for client-assigned stub
// mapping IDs.
func NewID() string {
	return uuid.NewString()
}
