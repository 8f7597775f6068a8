package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic",
						zap.Any("recovered", rec),
						zap.String("path", r.URL.Path),
						zap.String("correlation_id", GetCorrelationID(r.Context())),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(model.ErrorResponse{
						Error:         "internal server error",
						CorrelationID: GetCorrelationID(r.Context()),
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
