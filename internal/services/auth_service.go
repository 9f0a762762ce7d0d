package services

import (
	"crypto/subtle"
	"fmt"
	"log"
	"time"

	"grocer/pkg/settings"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates the administrator configured in the settings file
// and issues JWT tokens for the admin-only routes.
type AuthService struct {
	settings   *settings.Manager
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(settingsMgr *settings.Manager, jwtSecret string) *AuthService {
	return &AuthService{
		settings:   settingsMgr,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// LoginAdmin checks the given credentials against the current settings
// snapshot and returns a signed JWT on success. When the settings carry a
// bcrypt hash it is preferred; a plaintext password is compared in constant
// time.
func (s *AuthService) LoginAdmin(username, password string) (string, error) {
	sec := s.settings.Current().Security

	if subtle.ConstantTimeCompare([]byte(username), []byte(sec.AdminUsername)) != 1 {
		return "", fmt.Errorf("invalid credentials")
	}
	if sec.AdminPasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(sec.AdminPasswordHash), []byte(password)); err != nil {
			return "", fmt.Errorf("invalid credentials")
		}
	} else if subtle.ConstantTimeCompare([]byte(password), []byte(sec.AdminPassword)) != 1 {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": sec.AdminUsername,
		"role":     "admin",
		"exp":      time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":      time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
