package auth

// Principal is the caller identity carried by an access token.
type Principal struct {
	UserID     string
	EmployeeID string
	IsAdmin    bool
}

// CanAccessEmployee reports whether the caller may read employeeID's records.
func (p Principal) CanAccessEmployee(employeeID string) bool {
	return p.IsAdmin || (p.EmployeeID != "" && p.EmployeeID == employeeID)
}
