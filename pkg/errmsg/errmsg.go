// Package errmsg turns a failed gateway call into the single sentence shown
// to the user. Internal codes and stack traces never leak through it.
package errmsg

import (
	"errors"
	"net/http"
	"strings"

	"kinovek-client/internal/domain"
)

// User-facing messages for failures the server did not explain itself.
const (
	MsgServerUnreachable = "Unable to connect to the server. Please check if the backend is running."
	MsgTimeout           = "The request timed out. Please try again with a smaller file."
	MsgPayloadTooLarge   = "File is too large. Maximum upload size is 10MB."
	MsgServerFault       = "Something went wrong on the server. Please try again."
)

// Normalize classifies err into one human-readable sentence. The priority is
// fixed: transport signals that mean no usable response exists, then the
// structured application message (the most trustworthy source when present),
// then status-specific fallbacks, then the error's own text, then the
// caller-supplied fallback. Several conditions can hold at once: a 500 with
// a body message returns the body message, a 413 with one returns that
// message instead of the generic size hint.
func Normalize(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var ge *domain.GatewayError
	if errors.As(err, &ge) {
		switch {
		case ge.Kind == domain.GatewayNetworkUnreachable:
			return MsgServerUnreachable
		case ge.Kind == domain.GatewayTimeout:
			return MsgTimeout
		case ge.ServerMessage != "":
			return ge.ServerMessage
		case ge.StatusCode == http.StatusRequestEntityTooLarge:
			return MsgPayloadTooLarge
		case ge.StatusCode >= 500:
			return MsgServerFault
		case ge.Err != nil:
			return ge.Err.Error()
		default:
			return fallback
		}
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}
