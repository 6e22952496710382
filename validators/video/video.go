package videoValidator

import (
	"strings"

	"sankalp/middleware"
	"sankalp/models"
	"sankalp/validators"

	"github.com/gofiber/fiber/v2"
)

type TokenRequest struct {
	Email    string             `json:"email"`
	ModuleID uint               `json:"moduleId"`
	Reg      models.AccountKind `json:"reg"`
}

type MobileTokenRequest struct {
	UserID   uint `json:"userId"`
	ModuleID uint `json:"moduleId"`
}

func GenerateToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TokenRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if !validators.IsEmail(reqData.Email) {
			errors["email"] = "Invalid email!"
		}
		if reqData.ModuleID == 0 {
			errors["moduleId"] = "Module id is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVideoToken", reqData)
		return c.Next()
	}
}

func GenerateTokenMobile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(MobileTokenRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.UserID == 0 {
			errors["userId"] = "User id is required!"
		}
		if reqData.ModuleID == 0 {
			errors["moduleId"] = "Module id is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVideoTokenMobile", reqData)
		return c.Next()
	}
}

// SecureVideo requires the token query parameter. The module id is
// checked by courseValidator.IDParam.
func SecureVideo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Query("token"))
		if token == "" {
			return c.Status(fiber.StatusForbidden).SendString("Access denied: No token provided")
		}
		c.Locals("videoToken", token)
		return c.Next()
	}
}
