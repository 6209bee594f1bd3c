package auth

import "errors"

var (
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrEmployeeClaimMissing   = errors.New("token is not linked to an employee")
	ErrForbidden              = errors.New("not allowed to access another employee's data")
)
