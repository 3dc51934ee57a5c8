// Package security provides JWT token utilities
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken is returned for tokens that fail signature or claim checks.
var ErrInvalidToken = errors.New("invalid token")

const clientIDClaim = "cid"

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// GenerateClientToken creates a signed token identifying a browser.
func GenerateClientToken(clientID, jwtSecret string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		clientIDClaim: clientID,
		"iat":         now.Unix(),
		"exp":         now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign client token: %w", err)
	}
	return signed, nil
}

// ClientIDFromToken validates a client token and returns the browser's client ID.
func ClientIDFromToken(tokenString, jwtSecret string) (string, error) {
	claims, err := ValidateJWT(tokenString, jwtSecret)
	if err != nil {
		return "", err
	}
	clientID, ok := claims[clientIDClaim].(string)
	if !ok || !IsULID(clientID) {
		return "", ErrInvalidToken
	}
	return clientID, nil
}
