package services

import (
	"crypto/subtle"
	"time"

	"notebin-app/notebin/utils/token"
)

type AuthServiceInterface interface {
	Login(providedToken string) (string, time.Time, error)
	ValidateCredential(credential string) (string, error)
}

// AuthService guards the admin surface. The configured admin token is the
// root credential; Login exchanges it for an expiring session JWT so clients
// do not have to hold the long-lived secret.
type AuthService struct {
	adminToken    string
	jwtExpiration time.Duration
}

var AuthServiceInstance AuthServiceInterface

func NewAuthService(adminToken string, jwtExpirationHours int) *AuthService {
	return &AuthService{
		adminToken:    adminToken,
		jwtExpiration: time.Duration(jwtExpirationHours) * time.Hour,
	}
}

// verifyStaticToken compares the provided credential against the configured
// admin token in full, in constant time. An unset admin token disables the
// whole admin surface.
func (s *AuthService) verifyStaticToken(provided string) bool {
	if s.adminToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.adminToken), []byte(provided)) == 1
}

func (s *AuthService) Login(providedToken string) (string, time.Time, error) {
	if !s.verifyStaticToken(providedToken) {
		return "", time.Time{}, ErrUnauthorized
	}

	expiresAt := time.Now().UTC().Add(s.jwtExpiration)
	sessionToken, err := token.GenerateToken("admin", []byte(s.adminToken), s.jwtExpiration)
	if err != nil {
		return "", time.Time{}, err
	}

	return sessionToken, expiresAt, nil
}

// ValidateCredential accepts either the static admin token or a session JWT
// signed with it, and returns the acting identity.
func (s *AuthService) ValidateCredential(credential string) (string, error) {
	if s.adminToken == "" {
		return "", ErrUnauthorized
	}

	if s.verifyStaticToken(credential) {
		return "admin", nil
	}

	claims, err := token.ValidateToken(credential, []byte(s.adminToken))
	if err != nil {
		return "", ErrUnauthorized
	}
	if claims.Actor == "" {
		return "admin", nil
	}
	return claims.Actor, nil
}
