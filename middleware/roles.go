package middleware

import (
	"rise-platform/models"

	"github.com/gofiber/fiber/v2"
)

// HasAnyRole reports whether userRoles contains at least one of required.
// An empty required list allows everyone.
func HasAnyRole(userRoles []string, required []models.Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, have := range userRoles {
		for _, want := range required {
			if have == string(want) {
				return true
			}
		}
	}
	return false
}

// RequireRoles rejects requests whose user holds none of roles. It must run
// after Authenticate.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !HasAnyRole(UserRoles(c), roles) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient role",
			})
		}
		return c.Next()
	}
}
