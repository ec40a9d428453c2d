package domain

import "fmt"

// GatewayKind classifies a failed gateway call. It is a closed set: every
// consumer is forced through a switch that handles all of them.
type GatewayKind int

const (
	// GatewayUnknown covers failures that fit no other kind (decode errors,
	// cancelled contexts, malformed responses).
	GatewayUnknown GatewayKind = iota
	// GatewayNetworkUnreachable means no response was received at all
	// (connection refused, DNS failure).
	GatewayNetworkUnreachable
	// GatewayTimeout means the client abandoned the call after the
	// configured wait bound.
	GatewayTimeout
	// GatewayServerMessage means a response arrived with a structured body
	// carrying an application-level message.
	GatewayServerMessage
	// GatewayPayloadTooLarge is HTTP 413 with no usable body.
	GatewayPayloadTooLarge
	// GatewayServerFault is HTTP >= 500 with no usable body.
	GatewayServerFault
)

func (k GatewayKind) String() string {
	switch k {
	case GatewayNetworkUnreachable:
		return "network_unreachable"
	case GatewayTimeout:
		return "timeout"
	case GatewayServerMessage:
		return "server_message"
	case GatewayPayloadTooLarge:
		return "payload_too_large"
	case GatewayServerFault:
		return "server_fault"
	default:
		return "unknown"
	}
}

// GatewayError is the raw record of a failed gateway call. It captures what
// happened without deciding what the user should read; the normalizer owns
// that. It is never silently swallowed: every gateway operation either
// returns its typed response or one of these.
type GatewayError struct {
	Kind          GatewayKind
	StatusCode    int    // zero when no response was received
	ServerMessage string // verbatim message from a structured error body
	Err           error  // underlying transport or decode error
}

func (e *GatewayError) Error() string {
	switch {
	case e.ServerMessage != "":
		return e.ServerMessage
	case e.Err != nil:
		return e.Err.Error()
	case e.StatusCode != 0:
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	default:
		return "request failed"
	}
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
