// Package admin is a thin HTTP client for a WireMock server's admin REST
// API. Every operation is one synchronous round trip: build the JSON body,
// send, decode the JSON response into a generic string-keyed mapping.
//
// The package knows nothing about stub semantics; higher layers assemble
// request bodies and interpret response fields.
package admin
