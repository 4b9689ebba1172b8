package jwttoken

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	dErrors "warden/pkg/domain-errors"
)

// Claims are the access-token claims accepted by the API. Tokens are issued
// by an external identity provider; this package only validates them.
type Claims struct {
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Actor is the reviewer identity recorded in case history.
func (c *Claims) Actor() string {
	if n := strings.TrimSpace(c.Name); n != "" {
		return n
	}
	return c.Subject
}

// Validator checks HMAC-signed access tokens.
type Validator struct {
	signingKey []byte
	issuer     string
}

// NewValidator builds a validator. An empty issuer accepts any issuer.
func NewValidator(signingKey, issuer string) *Validator {
	return &Validator{signingKey: []byte(signingKey), issuer: issuer}
}

func (v *Validator) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return v.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Actor() == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has no subject")
	}
	return claims, nil
}
