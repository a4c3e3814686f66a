package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminToken = "super-secret-admin-token"

func TestAuthService_DisabledWithoutToken(t *testing.T) {
	service := NewAuthService("", 24)

	_, _, err := service.Login("anything")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = service.ValidateCredential("anything")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Even the empty string must not authenticate.
	_, err = service.ValidateCredential("")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_StaticToken(t *testing.T) {
	service := NewAuthService(testAdminToken, 24)

	actor, err := service.ValidateCredential(testAdminToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", actor)

	_, err = service.ValidateCredential("wrong-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Prefix of the real token is not enough.
	_, err = service.ValidateCredential(testAdminToken[:len(testAdminToken)-1])
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_LoginIssuesSessionToken(t *testing.T) {
	service := NewAuthService(testAdminToken, 1)

	sessionToken, expiresAt, err := service.Login(testAdminToken)
	require.NoError(t, err)
	assert.NotEmpty(t, sessionToken)
	assert.NotEqual(t, testAdminToken, sessionToken)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), expiresAt, time.Minute)

	actor, err := service.ValidateCredential(sessionToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", actor)
}

func TestAuthService_LoginRejectsWrongToken(t *testing.T) {
	service := NewAuthService(testAdminToken, 1)

	_, _, err := service.Login("wrong-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_RejectsForeignJWT(t *testing.T) {
	issuer := NewAuthService("some-other-secret", 1)
	sessionToken, _, err := issuer.Login("some-other-secret")
	require.NoError(t, err)

	service := NewAuthService(testAdminToken, 1)
	_, err = service.ValidateCredential(sessionToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
