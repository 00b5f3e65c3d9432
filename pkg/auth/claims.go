package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenClaims is the JWT claim set carried by API requests. Owner is
// the opaque user identifier every cart, favorite, and order row is keyed by.
type AccessTokenClaims struct {
	Owner string `json:"owner"`
	jwt.RegisteredClaims
}

// AccessTokenPayload holds the inputs for minting a token.
type AccessTokenPayload struct {
	Owner string
	JTI   string
}
