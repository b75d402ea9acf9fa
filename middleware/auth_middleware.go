package appmiddleware

import (
	"net/http"

	"triviaapi/auth"
	"triviaapi/utils"

	"github.com/rs/zerolog/hlog"
)

// RequireAdmin rejects requests without a valid admin bearer token.
// It is a no-op when the manager is disabled.
func RequireAdmin(m *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := m.Authorize(r); err != nil {
				hlog.FromRequest(r).Warn().Err(err).Msg("admin authorization failed")
				utils.SendError(w, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
