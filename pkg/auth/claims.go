package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// RoleOperator is granted to the configured operator on login.
const RoleOperator = "operator"

// Claims is the token payload issued to operators.
type Claims struct {
	jwt.RegisteredClaims
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether the claims include role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}
