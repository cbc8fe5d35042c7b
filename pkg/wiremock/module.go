package wiremock

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/wiremate/wiremate/pkg/admin"
	"github.com/wiremate/wiremate/pkg/logging"
	"github.com/wiremate/wiremate/pkg/stubs"
)

// RequestRecord is a recorded request as returned by the server. The
// shape is server-owned; only method and url are ever extracted here,
// for diagnostic messages.
type RequestRecord map[string]any

// Method returns the record's method field, when present.
func (r RequestRecord) Method() string {
	s, _ := r["method"].(string)
	return s
}

// URL returns the record's url field, when present.
func (r RequestRecord) URL() string {
	s, _ := r["url"].(string)
	return s
}

// Module drives a WireMock server through its admin API: stub creation,
// request verification and state cleanup between tests. It holds no
// mutable state beyond the connection configuration fixed at startup;
// every operation is one synchronous admin call.
type Module struct {
	cfg    Config
	client *admin.Client
	log    *slog.Logger
}

// New validates the configuration, builds the admin client and verifies
// connectivity with a health check. A server that cannot be reached or
// answers unhealthily yields a *admin.ConnectivityError and no Module.
func New(ctx context.Context, cfg Config) (*Module, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}

	opts := []admin.Option{admin.WithTimeout(time.Duration(cfg.Timeout) * time.Second)}
	if cfg.HTTPClient != nil {
		opts = append(opts, admin.WithHTTPClient(cfg.HTTPClient))
	}
	client := admin.New(cfg.AdminBaseURL(), opts...)

	if err := client.Health(ctx); err != nil {
		return nil, &admin.ConnectivityError{URL: cfg.AdminBaseURL(), Err: err}
	}

	m := &Module{cfg: cfg, client: client, log: cfg.Logger}
	m.log.Debug("connected to WireMock", "url", cfg.AdminBaseURL())
	return m, nil
}

// Client exposes the underlying admin client for callers needing raw
// access to endpoints this module does not wrap.
func (m *Module) Client() *admin.Client {
	return m.client
}

// StubOption configures a stub created by CreateStub.
type StubOption func(*stubParams)

type stubParams struct {
	status   int
	body     any
	headers  map[string]string
	matchers map[string]any
	id       string
}

// WithStatus sets the response status. Default 200.
func WithStatus(status int) StubOption {
	return func(p *stubParams) { p.status = status }
}

// WithBody sets a verbatim string response body.
func WithBody(body string) StubOption {
	return func(p *stubParams) { p.body = body }
}

// WithJSONBody sets a structured response body, serialized by the server
// and answered with Content-Type: application/json unless overridden.
func WithJSONBody(body any) StubOption {
	return func(p *stubParams) { p.body = body }
}

// WithHeaders sets response headers.
func WithHeaders(headers map[string]string) StubOption {
	return func(p *stubParams) { p.headers = headers }
}

// WithMatchers adds request matchers (headers, queryParameters,
// bodyPatterns, explicit urlPath, ...) merged over the derived
// method/url fields.
func WithMatchers(matchers map[string]any) StubOption {
	return func(p *stubParams) { p.matchers = matchers }
}

// WithStubID assigns a client-chosen mapping ID instead of letting the
// server generate one. stubs.NewID is a convenient source.
func WithStubID(id string) StubOption {
	return func(p *stubParams) { p.id = id }
}

// CreateStub registers a stub mapping and returns the mapping ID assigned
// by the server (or chosen via WithStubID).
func (m *Module) CreateStub(ctx context.Context, method, url string, opts ...StubOption) (string, error) {
	p := stubParams{status: 200, body: ""}
	for _, opt := range opts {
		opt(&p)
	}

	mapping := stubs.Mapping(
		stubs.RequestPattern(method, url, p.matchers),
		stubs.Response(p.status, p.body, p.headers),
	)
	if p.id != "" {
		mapping["id"] = p.id
	}

	result, err := m.client.Call(ctx, http.MethodPost, "mappings", mapping)
	if err != nil {
		return "", err
	}

	id, ok := result["id"].(string)
	if !ok || id == "" {
		return "", &admin.ProtocolError{Op: "create stub", Message: "no ID returned by server"}
	}
	m.log.Debug("stub created", "id", id, "method", strings.ToUpper(method), "url", url)
	return id, nil
}

// GrabRequestCount returns how many recorded requests match the pattern.
// A response without a usable count field counts as zero.
func (m *Module) GrabRequestCount(ctx context.Context, pattern map[string]any) (int, error) {
	result, err := m.client.Call(ctx, http.MethodPost, "requests/count", pattern)
	if err != nil {
		return 0, err
	}
	return intField(result, "count"), nil
}

// GrabAllRequests returns every request recorded in the server's journal.
func (m *Module) GrabAllRequests(ctx context.Context) ([]RequestRecord, error) {
	return m.grabRequests(ctx, "requests")
}

// GrabUnmatchedRequests returns recorded requests that matched no stub.
func (m *Module) GrabUnmatchedRequests(ctx context.Context) ([]RequestRecord, error) {
	return m.grabRequests(ctx, "requests/unmatched")
}

func (m *Module) grabRequests(ctx context.Context, path string) ([]RequestRecord, error) {
	result, err := m.client.Call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	raw, _ := result["requests"].([]any)
	records := make([]RequestRecord, 0, len(raw))
	for _, item := range raw {
		if record, ok := item.(map[string]any); ok {
			records = append(records, RequestRecord(record))
		}
	}
	return records, nil
}

// Reset restores file-based stub mappings and removes dynamically added
// stubs. Whether the request journal survives is server-defined.
func (m *Module) Reset(ctx context.Context) error {
	_, err := m.client.Call(ctx, http.MethodPost, "mappings/reset", nil)
	return err
}

// ResetAll performs a full server reset, clearing both stub mappings and
// the request journal.
func (m *Module) ResetAll(ctx context.Context) error {
	_, err := m.client.Call(ctx, http.MethodPost, "reset", nil)
	return err
}

// ClearRequests clears the recorded-request journal; stub mappings are
// untouched.
func (m *Module) ClearRequests(ctx context.Context) error {
	_, err := m.client.Call(ctx, http.MethodDelete, "requests", nil)
	return err
}

// BeforeSuite is the suite-start lifecycle hook. It cleans server state
// when the cleanup policy is "suite".
func (m *Module) BeforeSuite(ctx context.Context) error {
	if m.cfg.CleanupBefore != CleanupSuite {
		return nil
	}
	return m.cleanup(ctx)
}

// BeforeTest is the test-start lifecycle hook. It cleans server state
// when the cleanup policy is "test".
func (m *Module) BeforeTest(ctx context.Context) error {
	if m.cfg.CleanupBefore != CleanupTest {
		return nil
	}
	return m.cleanup(ctx)
}

func (m *Module) cleanup(ctx context.Context) error {
	if m.cfg.preserveFileMappings() {
		return m.Reset(ctx)
	}
	return m.ResetAll(ctx)
}

// intField reads an integer field from a decoded JSON mapping, tolerating
// the float64 that encoding/json produces. Missing or non-numeric fields
// read as zero.
func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
