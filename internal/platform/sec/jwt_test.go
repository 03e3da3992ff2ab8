// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdano/marketplace-api/internal/platform/sec"
)

const testIssuer = "verdano.test"

/*
TestTokenService_IssueAndVerify checks the sign/verify round trip and claims.
*/
func TestTokenService_IssueAndVerify(t *testing.T) {
	service, err := sec.NewTokenService("super-secret-key", testIssuer)
	require.NoError(t, err)

	token, err := service.Issue("user-123", "seller@verdano.app", "seller", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, "seller@verdano.app", claims.Email)
	assert.Equal(t, "seller", claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
}

/*
TestTokenService_RejectsExpired ensures a token past its TTL fails verification.
*/
func TestTokenService_RejectsExpired(t *testing.T) {
	service, err := sec.NewTokenService("super-secret-key", testIssuer)
	require.NoError(t, err)

	token, err := service.Issue("user-123", "seller@verdano.app", "seller", -time.Minute)
	require.NoError(t, err)

	_, err = service.Verify(token)
	assert.Error(t, err)
}

/*
TestTokenService_RejectsWrongSecret ensures tokens cannot cross deployments.
*/
func TestTokenService_RejectsWrongSecret(t *testing.T) {
	issuerService, err := sec.NewTokenService("secret-a", testIssuer)
	require.NoError(t, err)
	verifierService, err := sec.NewTokenService("secret-b", testIssuer)
	require.NoError(t, err)

	token, err := issuerService.Issue("user-123", "x@verdano.app", "buyer", time.Hour)
	require.NoError(t, err)

	_, err = verifierService.Verify(token)
	assert.Error(t, err)
}

/*
TestTokenService_RejectsGarbage ensures non-JWT strings fail cleanly.
*/
func TestTokenService_RejectsGarbage(t *testing.T) {
	service, err := sec.NewTokenService("super-secret-key", testIssuer)
	require.NoError(t, err)

	_, err = service.Verify("definitely.not.a-jwt")
	assert.Error(t, err)
}

/*
TestNewTokenService_EmptySecret ensures the service refuses to start unsigned.
*/
func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", testIssuer)
	assert.Error(t, err)
}
