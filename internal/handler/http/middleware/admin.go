package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := PrincipalFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if !principal.IsAdmin {
			response.HandleError(w, auth.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
