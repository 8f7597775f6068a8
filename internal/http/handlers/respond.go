package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/favorites"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

const maxRequestBytes = 1 << 20

// errNotJSON rejects request bodies sent as anything but JSON, which keeps
// browsers from posting to the bridge without a CORS preflight.
var errNotJSON error = mediaTypeError{}

type mediaTypeError struct{}

func (mediaTypeError) Error() string       { return "request body must be application/json" }
func (mediaTypeError) UserMessage() string { return "Content-Type must be application/json" }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{
		Error:         msg,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}

// writeServiceError maps a service error to a status and the message the user
// would have been shown.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	WriteError(w, r, errorStatus(err), notify.UserMessage(err, fallback))
}

func errorStatus(err error) int {
	var verr *clients.ValidationError
	var apiErr *clients.APIError
	switch {
	case errors.Is(err, errNotJSON):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &verr), errors.Is(err, favorites.ErrMissingProductID):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, catalog.ErrAdminRequired):
		return http.StatusForbidden
	case errors.Is(err, cart.ErrQuantityBelowOne):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

// decodeBody reads a JSON request body into v and validates it.
func decodeBody(r *http.Request, v any) error {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != "application/json" {
		return errNotJSON
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := dec.Decode(v); err != nil {
		return &clients.ValidationError{Fields: []string{fmt.Sprintf("body (%v)", err)}}
	}
	return clients.Validate(v)
}
