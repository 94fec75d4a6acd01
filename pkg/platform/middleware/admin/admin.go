// Package admin guards reviewer and operator routes with a shared token.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"meridian/pkg/platform/httputil"
	"meridian/pkg/requestcontext"
)

const (
	headerToken   = "X-Admin-Token"
	headerActorID = "X-Admin-Actor-ID"
)

// RequireAdminToken rejects requests whose X-Admin-Token does not match using a
// constant-time comparison. An empty expected token locks the routes entirely.
// The reviewer identity from X-Admin-Actor-ID is attached to the context for
// history and audit attribution.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := r.Header.Get(headerToken)
			if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
				)
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
					Error:            "unauthorized",
					ErrorDescription: "admin token required",
				})
				return
			}

			if actorID := r.Header.Get(headerActorID); actorID != "" {
				ctx = requestcontext.WithActorID(ctx, actorID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
