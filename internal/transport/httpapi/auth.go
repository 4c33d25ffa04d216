package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// UserIDHeader identifies the caller when no JWT secret is configured.
	UserIDHeader = "X-User-ID"

	userIDLocal = "user_id"
	tokenIssuer = "contentstudio"
)

// Authenticate resolves the caller identity. With a secret, a HS256 bearer
// token's subject is the user id; without one, the X-User-ID header is trusted.
func Authenticate(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var userID string
		if secret != "" {
			tokenString, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
			if !ok || strings.TrimSpace(tokenString) == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "missing bearer token",
				})
			}

			subject, err := ValidateToken(secret, strings.TrimSpace(tokenString))
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "invalid or expired token",
				})
			}
			userID = subject
		} else {
			userID = strings.TrimSpace(c.Get(UserIDHeader))
		}

		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing user identity",
			})
		}

		c.Locals(userIDLocal, userID)
		return c.Next()
	}
}

// GenerateToken signs a HS256 token whose subject is userID.
func GenerateToken(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken checks signature and expiry and returns the subject claim.
func ValidateToken(secret, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// GetUserID returns the identity stored by Authenticate.
func GetUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(userIDLocal).(string)
	return userID
}
