package middleware

import (
	"net/http"
	"strings"

	"il2-rankmod/light/internal/auth"
	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/logging"
)

// AuthMiddleware requires a valid bearer token and stores its claims in the
// request context.
func AuthMiddleware(tokens *auth.AdminTokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Validate(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				logging.Warn("[AuthMiddleware] Rejected token", "error", err, "request_id", auth.GetRequestID(r.Context()))
				http.Error(w, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
