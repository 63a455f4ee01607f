package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin = "admin"

	// gin context key holding the token subject
	ContextSubjectKey = "admin_subject"
)

// represents JWT claims; the operator name is the registered subject
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
