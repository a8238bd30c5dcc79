package middleware

import (
	"net/http"

	"il2-rankmod/light/internal/auth"
	"il2-rankmod/light/internal/constants"
)

func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				http.Error(w, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			if claims.Role() != constants.RoleAdmin.String() {
				http.Error(w, constants.MsgForbidden, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
