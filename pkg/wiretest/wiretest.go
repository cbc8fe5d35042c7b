// Package wiretest binds the wiremock module to the standard testing
// package. A Helper connects to a running WireMock server, applies the
// configured cleanup policy through the test lifecycle and turns
// verification failures into test failures with their diagnostic
// messages intact.
package wiretest

import (
	"context"
	"errors"
	"testing"

	"github.com/wiremate/wiremate/pkg/wiremock"
)

// Helper drives a WireMock server on behalf of a test. Verification
// failures are reported via tb.Error; transport and protocol failures
// end the test via tb.Fatal.
type Helper struct {
	tb testing.TB
	m  *wiremock.Module
}

// New connects to the WireMock server described by cfg and runs the
// before-test cleanup hook. An unreachable server fails the test
// immediately.
func New(tb testing.TB, cfg wiremock.Config) *Helper {
	tb.Helper()

	m, err := wiremock.New(context.Background(), cfg)
	if err != nil {
		tb.Fatalf("wiretest: %v", err)
	}
	h := &Helper{tb: tb, m: m}
	if err := m.BeforeTest(context.Background()); err != nil {
		tb.Fatalf("wiretest: cleanup failed: %v", err)
	}
	return h
}

// Module exposes the underlying wiremock module for operations the
// helper does not wrap.
func (h *Helper) Module() *wiremock.Module {
	return h.m
}

// StubFor registers a stub mapping and returns its ID. Failure to
// create the stub ends the test.
func (h *Helper) StubFor(method, url string, opts ...wiremock.StubOption) string {
	h.tb.Helper()
	id, err := h.m.CreateStub(context.Background(), method, url, opts...)
	if err != nil {
		h.tb.Fatalf("wiretest: create stub %s %s: %v", method, url, err)
	}
	return id
}

// SeeRequest asserts that a matching request was recorded.
func (h *Helper) SeeRequest(method, url string, extra map[string]any) {
	h.tb.Helper()
	h.report(h.m.SeeRequest(context.Background(), method, url, extra))
}

// DontSeeRequest asserts that no matching request was recorded.
func (h *Helper) DontSeeRequest(method, url string, extra map[string]any) {
	h.tb.Helper()
	h.report(h.m.DontSeeRequest(context.Background(), method, url, extra))
}

// SeeRequestCount asserts the exact number of matching recorded requests.
func (h *Helper) SeeRequestCount(expected int, pattern map[string]any) {
	h.tb.Helper()
	h.report(h.m.SeeRequestCount(context.Background(), expected, pattern))
}

// RequestCount returns the number of matching recorded requests.
func (h *Helper) RequestCount(pattern map[string]any) int {
	h.tb.Helper()
	count, err := h.m.GrabRequestCount(context.Background(), pattern)
	if err != nil {
		h.tb.Fatalf("wiretest: count requests: %v", err)
	}
	return count
}

// AllRequests returns the server's recorded-request journal.
func (h *Helper) AllRequests() []wiremock.RequestRecord {
	h.tb.Helper()
	records, err := h.m.GrabAllRequests(context.Background())
	if err != nil {
		h.tb.Fatalf("wiretest: list requests: %v", err)
	}
	return records
}

// UnmatchedRequests returns recorded requests that matched no stub.
func (h *Helper) UnmatchedRequests() []wiremock.RequestRecord {
	h.tb.Helper()
	records, err := h.m.GrabUnmatchedRequests(context.Background())
	if err != nil {
		h.tb.Fatalf("wiretest: list unmatched requests: %v", err)
	}
	return records
}

// ClearRequests clears the recorded-request journal.
func (h *Helper) ClearRequests() {
	h.tb.Helper()
	if err := h.m.ClearRequests(context.Background()); err != nil {
		h.tb.Fatalf("wiretest: clear requests: %v", err)
	}
}

// report surfaces verification failures as test errors and everything
// else as fatal.
func (h *Helper) report(err error) {
	h.tb.Helper()
	if err == nil {
		return
	}
	var ve *wiremock.VerificationError
	if errors.As(err, &ve) {
		h.tb.Error(ve.Message)
		return
	}
	h.tb.Fatalf("wiretest: %v", err)
}
