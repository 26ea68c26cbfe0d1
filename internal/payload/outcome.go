package payload

import (
	"fmt"
	"net/http"
)

// Kind tags the result of one delivery attempt.
type Kind string

// Outcome kinds.
const (
	KindSuccess      Kind = "success"
	KindAuthFailure  Kind = "auth_failure"
	KindServerError  Kind = "server_error"
	KindClientError  Kind = "client_error"
	KindNetworkError Kind = "network_error"
)

// Outcome is the classified result of one attempt.
type Outcome struct {
	Err        error  `json:"-"`
	Kind       Kind   `json:"kind"`
	Body       string `json:"body,omitempty"`
	Error      string `json:"error,omitempty"`
	Attempt    int    `json:"attempt"`
	StatusCode int    `json:"status,omitempty"`
}

// Retryable reports whether another attempt may change the result.
func (o Outcome) Retryable() bool {
	return o.Kind == KindServerError || o.Kind == KindNetworkError
}

// Succeeded reports whether the endpoint accepted the payload.
func (o Outcome) Succeeded() bool {
	return o.Kind == KindSuccess
}

func (o Outcome) String() string {
	switch o.Kind {
	case KindNetworkError:
		return fmt.Sprintf("attempt %d: %s: %v", o.Attempt, o.Kind, o.Err)
	default:
		return fmt.Sprintf("attempt %d: %s (HTTP %d)", o.Attempt, o.Kind, o.StatusCode)
	}
}

// Classify maps an HTTP status to an outcome kind.
func Classify(status int) Kind {
	switch {
	case status >= 200 && status < 300:
		return KindSuccess
	case status == http.StatusUnauthorized:
		return KindAuthFailure
	case status >= 500:
		return KindServerError
	default:
		return KindClientError
	}
}
