package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserName     string
	IsAdmin      bool
	IsSuperAdmin bool
	SessionID    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserName     string `json:"user_name"`
	IsAdmin      bool   `json:"is_admin"`
	IsSuperAdmin bool   `json:"is_super_admin,omitempty"`
	SessionID    string `json:"session_id"`
	jwt.RegisteredClaims
}
