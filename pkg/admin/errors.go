package admin

import "fmt"

// GatewayError reports an admin call that failed at the HTTP level:
// either the server answered with status >= 400 or the transport itself
// failed (connection refused, timeout, TLS).
type GatewayError struct {
	// StatusCode is the HTTP status when the server answered; zero for
	// transport-level failures.
	StatusCode int
	// Body is the raw response body text, when any was read.
	Body string
	// Err is the underlying transport error, when any.
	Err error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("admin call failed: %v", e.Err)
	}
	return fmt.Sprintf("admin call failed: status %d: %s", e.StatusCode, e.Body)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// SerializationError reports an outgoing payload that could not be
// encoded as JSON. No network call was attempted.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("cannot encode request body: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// ProtocolError reports a success response whose shape violated the
// operation's contract, e.g. stub creation that returned no identifier.
type ProtocolError struct {
	Op      string
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// ConnectivityError reports that the server could not be reached, or did
// not answer healthily, during initialization. It is fatal: a module is
// never handed out in a broken-connection state.
type ConnectivityError struct {
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot connect to WireMock admin API at %s: %v", e.URL, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }
