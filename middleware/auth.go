package middleware

import (
	"errors"
	"strings"
	"time"

	"rise-platform/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Locals keys set by Authenticate.
const (
	LocalUserID    = "user_id"
	LocalUserRoles = "user_roles"
)

// Claims is the token payload: the user id in sub plus the user's roles.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

var errMissingSubject = errors.New("token has no subject")

// Authenticate verifies an HS256 bearer token and attaches the user id and
// the recognised roles to the request.
func Authenticate(secret string) fiber.Handler {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		claims, err := parseClaims(parser, key, strings.TrimSpace(raw))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		// unknown role names never reach the role guard
		roles := make([]string, 0, len(claims.Roles))
		for _, r := range claims.Roles {
			if r = strings.TrimSpace(r); models.Role(r).Valid() {
				roles = append(roles, r)
			}
		}
		c.Locals(LocalUserID, claims.Subject)
		c.Locals(LocalUserRoles, roles)
		return c.Next()
	}
}

func parseClaims(parser *jwt.Parser, key []byte, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errMissingSubject
	}
	return claims, nil
}

// SignToken issues an HS256 token for userID. Tokens are normally minted by
// the identity service; this exists for tooling and tests.
func SignToken(secret, userID string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// UserID returns the authenticated user id, or "" on unauthenticated routes.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

func UserRoles(c *fiber.Ctx) []string {
	roles, _ := c.Locals(LocalUserRoles).([]string)
	return roles
}
