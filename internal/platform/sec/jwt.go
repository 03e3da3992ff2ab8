// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing, random
// token generation) from the domain logic. It acts as an Infrastructure
// service injected into the Application layer via small interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims represents the payload embedded inside a signed identity token.
//
// # Why custom claims?
//
// By embedding the email and role next to the standard subject (user ID),
// the authorization boundary can reconstruct the caller's identity WITHOUT
// querying the database on every single API request. The trade-off: these
// tokens stay valid until natural expiry — logout only revokes the separate
// store-backed session token.
type IdentityClaims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserID returns the subject claim, which carries the user's ID.
func (c *IdentityClaims) UserID() string { return c.Subject }

// TokenService issues and verifies HS256-signed identity tokens.
//
// The signing secret is provisioned outside the core (environment / secret
// store), loaded once at startup, and immutable thereafter.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService from the server-wide secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: token signing secret must not be empty")
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// Issue creates a signed identity token asserting the subject's id, email,
// and role. Issuance never fails for valid claims; an error here means the
// signing machinery itself is broken.
func (service *TokenService) Issue(userID, email, role string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Email: email,
		Role:  role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and expiry of an identity token string.
//
// It deliberately does NOT consult the session store: identity tokens are
// stateless and verified by signature + expiry alone.
func (service *TokenService) Verify(tokenString string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, errors.New("sec: invalid token claims")
	}

	return claims, nil
}
