package models

import "github.com/golang-jwt/jwt/v4"

// JwtClaims are the claims the marketplace backend signs into admin tokens.
// This service only verifies them; it never issues tokens.
type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
