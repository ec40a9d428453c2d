package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"kinovek-client/internal/domain"
)

// classifyTransport maps a failure where no response was received. Timeouts
// (client wait bound or context deadline) are distinguished from the rest;
// everything else without a response is treated as unreachable, except a
// deliberate cancellation, which no message policy applies to.
func classifyTransport(err error) *domain.GatewayError {
	if errors.Is(err, context.Canceled) {
		return &domain.GatewayError{Kind: domain.GatewayUnknown, Err: err}
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &domain.GatewayError{Kind: domain.GatewayTimeout, Err: err}
	}
	return &domain.GatewayError{Kind: domain.GatewayNetworkUnreachable, Err: err}
}

// errorBody is the structured shape error responses may carry: an explicit
// application-level message, or the generic server-framework field.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// classifyStatus maps a non-2xx response. A structured body message takes
// precedence over status-derived kinds so the most specific explanation
// survives classification.
func classifyStatus(status int, body []byte) *domain.GatewayError {
	ge := &domain.GatewayError{StatusCode: status}
	if msg := messageFromBody(body); msg != "" {
		ge.Kind = domain.GatewayServerMessage
		ge.ServerMessage = msg
		return ge
	}
	switch {
	case status == http.StatusRequestEntityTooLarge:
		ge.Kind = domain.GatewayPayloadTooLarge
	case status >= 500:
		ge.Kind = domain.GatewayServerFault
	default:
		ge.Kind = domain.GatewayUnknown
	}
	return ge
}

func messageFromBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(parsed.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(parsed.Error)
}
