package user

import "github.com/riskibarqy/hr-admin/internal/domain/role"

// Principal is the caller identity resolved from an access token.
type Principal struct {
	UserID string
	Email  string
	Role   role.Role
}
