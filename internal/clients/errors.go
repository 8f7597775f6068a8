package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the commerce API.
type APIError struct {
	Service string
	Status  int
	// Message is the server-provided message, empty if none was sent.
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Service, e.Status, msg)
}

// UserMessage is the text to show the user for this error.
func (e *APIError) UserMessage() string {
	return e.Message
}

func newAPIError(service string, status int, raw []byte) *APIError {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(raw, &body)

	msg := strings.TrimSpace(body.Message)
	if msg == "" {
		msg = strings.TrimSpace(body.Error)
	}
	return &APIError{Service: service, Status: status, Message: msg}
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// ErrMalformedResponse is returned when a 2xx body cannot be decoded.
var ErrMalformedResponse = errors.New("malformed response")
