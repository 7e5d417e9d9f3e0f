package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt"

	"appointly/config"
	"appointly/models"
)

// devSecret signs tokens outside production when no secret is configured.
const devSecret = "appointly-dev-secret"

func secretKey() ([]byte, error) {
	if config.AppConfig.JWTSecret != "" {
		return []byte(config.AppConfig.JWTSecret), nil
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret), nil
	}
	if config.IsProduction() {
		return nil, config.ErrMissingJWTSecret
	}
	return []byte(devSecret), nil
}

// GenerateToken creates a signed JWT token for an actor id and role.
// Issuance belongs to the identity service; this exists for tooling and tests.
func GenerateToken(subject string, role models.Role, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": string(role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	key, err := secretKey()
	if err != nil {
		return "", err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey()
	})
}

// ExtractActor validates tokenString and returns the actor it names.
func ExtractActor(tokenString string) (models.Actor, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return models.Actor{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Actor{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.Actor{}, errors.New("token does not contain a valid 'sub' claim")
	}
	role, _ := claims["role"].(string)
	if !models.Role(role).Valid() {
		return models.Actor{}, errors.New("token does not contain a valid 'role' claim")
	}
	return models.Actor{ID: sub, Role: models.Role(role)}, nil
}
