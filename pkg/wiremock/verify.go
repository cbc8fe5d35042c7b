package wiremock

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/wiremate/wiremate/pkg/stubs"
)

// maxNearMisses caps how many near misses are included in a failure
// message.
const maxNearMisses = 3

// VerificationError reports an assertion-style expectation that was not
// met: a request present when it should be absent, absent when expected,
// or counted differently. It is the one error kind expected as part of
// normal control flow in a test.
type VerificationError struct {
	Message string
}

func (e *VerificationError) Error() string { return e.Message }

// NearMiss is a recorded request the server considered close to a
// pattern, with the server's match distance when reported.
type NearMiss struct {
	Request     RequestRecord
	MatchResult map[string]any
}

// Distance returns the match distance and whether the server reported one.
func (n NearMiss) Distance() (float64, bool) {
	d, ok := n.MatchResult["distance"].(float64)
	return d, ok
}

// NearMissResult is the outcome of a near-miss lookup. Available is false
// when the lookup itself failed, which is distinct from an empty Misses
// slice: both omit diagnostics, but only the latter means the server
// found nothing close.
type NearMissResult struct {
	Available bool
	Misses    []NearMiss
}

// SeeRequestCount asserts that exactly expected requests matching the
// pattern were recorded.
func (m *Module) SeeRequestCount(ctx context.Context, expected int, pattern map[string]any) error {
	count, err := m.GrabRequestCount(ctx, pattern)
	if err != nil {
		return err
	}
	if count != expected {
		return &VerificationError{
			Message: fmt.Sprintf("Expected %d requests matching pattern, found %d", expected, count),
		}
	}
	return nil
}

// SeeRequest asserts that at least one request matching method, url and
// the extra matchers was recorded. On failure the message carries up to
// three near misses reported by the server, when that lookup succeeds.
func (m *Module) SeeRequest(ctx context.Context, method, url string, extra map[string]any) error {
	pattern := stubs.RequestPattern(method, url, extra)
	count, err := m.GrabRequestCount(ctx, pattern)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "Expected to see request: %s %s, but none was recorded", strings.ToUpper(method), url)

	nm := m.fetchNearMisses(ctx, pattern)
	if nm.Available && len(nm.Misses) > 0 {
		msg.WriteString("\nNear misses:")
		for i, miss := range nm.Misses {
			if i == maxNearMisses {
				break
			}
			fmt.Fprintf(&msg, "\n%d. %s %s", i+1, miss.Request.Method(), miss.Request.URL())
			if d, ok := miss.Distance(); ok {
				fmt.Fprintf(&msg, "\n   Distance: %v", d)
			}
		}
	}
	return &VerificationError{Message: msg.String()}
}

// DontSeeRequest asserts that no request matching method, url and the
// extra matchers was recorded.
func (m *Module) DontSeeRequest(ctx context.Context, method, url string, extra map[string]any) error {
	pattern := stubs.RequestPattern(method, url, extra)
	count, err := m.GrabRequestCount(ctx, pattern)
	if err != nil {
		return err
	}
	if count > 0 {
		return &VerificationError{
			Message: fmt.Sprintf("Expected no requests matching %s %s, found %d", strings.ToUpper(method), url, count),
		}
	}
	return nil
}

// fetchNearMisses asks the server for requests close to the pattern. The
// lookup is best-effort diagnostics: any failure yields an unavailable
// result rather than an error, so it can never mask the verification
// failure being composed.
func (m *Module) fetchNearMisses(ctx context.Context, pattern map[string]any) NearMissResult {
	result, err := m.client.Call(ctx, http.MethodPost, "near-misses/request", pattern)
	if err != nil {
		m.log.Debug("near-miss lookup failed", "error", err)
		return NearMissResult{Available: false}
	}

	raw, _ := result["nearMisses"].([]any)
	misses := make([]NearMiss, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		miss := NearMiss{}
		if req, ok := entry["request"].(map[string]any); ok {
			miss.Request = RequestRecord(req)
		}
		if mr, ok := entry["matchResult"].(map[string]any); ok {
			miss.MatchResult = mr
		}
		misses = append(misses, miss)
	}
	return NearMissResult{Available: true, Misses: misses}
}
