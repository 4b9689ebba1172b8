package jwttoken

import (
	authmw "warden/pkg/platform/middleware/auth"
)

func ToMiddlewareClaims(claims *Claims) *authmw.JWTClaims {
	return &authmw.JWTClaims{
		Actor: claims.Actor(),
		Roles: claims.Roles,
		JTI:   claims.ID,
	}
}

// ValidatorAdapter exposes Validator through the middleware's interface.
type ValidatorAdapter struct {
	validator *Validator
}

func NewValidatorAdapter(v *Validator) *ValidatorAdapter {
	return &ValidatorAdapter{validator: v}
}

func (a *ValidatorAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.validator.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
