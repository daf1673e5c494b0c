package model

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPayload is what a caller asks the token service to sign.
type TokenPayload struct {
	UserID int
	Role   Role
}

// AppClaims is the claim set of both access and refresh tokens. Subject holds
// the user id in decimal form; refresh tokens also set ID (jti) to the
// refresh token record id.
type AppClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *AppClaims) UserID() (int, error) {
	return strconv.Atoi(c.Subject)
}

func (c *AppClaims) RecordID() (int, error) {
	return strconv.Atoi(c.ID)
}
