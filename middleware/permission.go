package middleware

import "github.com/gofiber/fiber/v2"

// CheckRoleMiddleware rejects requests whose session token does not carry
// role. It must run after JWTMiddleware.
func CheckRoleMiddleware(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, ok := c.Locals("role").(string)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: role not found", nil)
		}
		if current != role {
			return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		}
		return c.Next()
	}
}

// AdminOnly guards the admin routes. Without an admin password there is
// no way to obtain an admin token, so the guard lets everything through.
func AdminOnly(adminPassword string) []fiber.Handler {
	if adminPassword == "" {
		return []fiber.Handler{func(c *fiber.Ctx) error { return c.Next() }}
	}
	return []fiber.Handler{JWTMiddleware, CheckRoleMiddleware(RoleAdmin)}
}
