package middleware

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
)

// PrincipalFromContext reads the verified token claims placed by jwtauth.Verifier.
func PrincipalFromContext(ctx context.Context) (auth.Principal, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return auth.Principal{}, auth.ErrInvalidToken
	}

	var p auth.Principal
	p.UserID, _ = claims["user_id"].(string)
	p.EmployeeID, _ = claims["employee_id"].(string)
	p.IsAdmin, _ = claims["is_admin"].(bool)

	if p.UserID == "" {
		return auth.Principal{}, auth.ErrInvalidToken
	}
	return p, nil
}

// EmployeeIDFromContext returns the caller's employee ID, failing for tokens that are
// not linked to an employee.
func EmployeeIDFromContext(ctx context.Context) (string, error) {
	p, err := PrincipalFromContext(ctx)
	if err != nil {
		return "", err
	}
	if p.EmployeeID == "" {
		return "", auth.ErrEmployeeClaimMissing
	}
	return p.EmployeeID, nil
}
