// Package wiremock lets Go tests drive and verify a WireMock server
// through its admin REST API: create stub mappings, assert on the
// recorded-request journal and clear state between tests.
//
// The package is an adapter only. Request matching, stubbing and
// near-miss analysis all happen inside the external WireMock server;
// this module formats admin API calls and interprets their JSON
// responses.
//
//	cfg := wiremock.Config{Host: "localhost", Port: 8080}
//	m, err := wiremock.New(ctx, cfg)
//	if err != nil {
//		// server unreachable
//	}
//	id, err := m.CreateStub(ctx, "GET", "/api/test",
//		wiremock.WithBody("Hello World"))
//	...
//	err = m.SeeRequest(ctx, "GET", "/api/test", nil)
package wiremock
