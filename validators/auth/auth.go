package authValidator

import (
	"strings"

	"sankalp/middleware"
	"sankalp/models"
	"sankalp/validators"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type VerifyRegistrationRequest struct {
	Email string             `json:"email"`
	OTP   string             `json:"otp"`
	Reg   models.AccountKind `json:"reg"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string             `json:"email"`
	Reg   models.AccountKind `json:"reg"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type ResetPasswordRequest struct {
	Email    string             `json:"email"`
	OTP      string             `json:"otp"`
	Password string             `json:"password"`
	Reg      models.AccountKind `json:"reg"`
}

type UpdateProfileRequest struct {
	Reg           models.AccountKind `json:"reg"`
	OriginalEmail string             `json:"originalEmail"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Phone         string             `json:"phone"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func invalidBody(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
}

func checkEmail(errors map[string]string, field, email string) {
	if !validators.IsEmail(email) {
		errors[field] = "Invalid email!"
	}
}

// Register validator middleware, shared by student and employee sign up
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterRequest)
		if err := c.BodyParser(reqData); err != nil {
			return invalidBody(c)
		}

		errors := make(map[string]string)
		if validators.Blank(reqData.Name) {
			errors["name"] = "Name is required!"
		}
		checkEmail(errors, "email", reqData.Email)
		if len(strings.TrimSpace(reqData.Password)) < 6 {
			errors["password"] = "Password must be at least 6 characters long!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRegister", reqData)
		return c.Next()
	}
}

func VerifyRegistration() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(VerifyRegistrationRequest)
		if err := c.BodyParser(reqData); err != nil {
			return invalidBody(c)
		}

		errors := make(map[string]string)
		checkEmail(errors, "email", reqData.Email)
		if !validators.IsOTP(reqData.OTP) {
			errors["otp"] = "OTP must be 6 digits!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVerifyRegistration", reqData)
		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return invalidBody(c)
		}

		errors := make(map[string]string)
		if validators.Blank(reqData.Email) {
			errors["email"] = "Email is required!"
		}
		if reqData.Password == "" {
			errors["password"] = "Password is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

func ForgotPassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ForgotPasswordRequest)
		if err := c.BodyParser(reqData); err != nil {
			return invalidBody(c)
		}

		errors := make(map[string]string)
		checkEmail(errors, "email", reqData.Email)
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedForgotPassword", reqData)
		return c.Next()
	}
}

func VerifyOTP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(VerifyOTPRequest)
		if err := c.BodyParser(reqData); err != nil {
			return invalidBody(c)
		}

		errors := make(map[string]string)
		checkEmail(errors, "email", reqData.Email)
		if !validators.IsOTP(reqData.OTP) {
			errors["otp"] = "OTP must be 6 digits!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVerifyOTP", reqData)
		return c.Next()
	}
}

func ResetPassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ResetPasswordRequest)
		if err := c.BodyParser(reqData); err != nil {
			return invalidBody(c)
		}

		errors := make(map[string]string)
		checkEmail(errors, "email", reqData.Email)
		if !validators.IsOTP(reqData.OTP) {
			errors["otp"] = "OTP must be 6 digits!"
		}
		if len(strings.TrimSpace(reqData.Password)) < 6 {
			errors["password"] = "Password must be at least 6 characters long!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedResetPassword", reqData)
		return c.Next()
	}
}

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProfileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return invalidBody(c)
		}

		errors := make(map[string]string)
		checkEmail(errors, "originalEmail", reqData.OriginalEmail)
		checkEmail(errors, "email", reqData.Email)
		if validators.Blank(reqData.Name) {
			errors["name"] = "Name is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateProfile", reqData)
		return c.Next()
	}
}

func Contact() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ContactRequest)
		if err := c.BodyParser(reqData); err != nil {
			return invalidBody(c)
		}

		errors := make(map[string]string)
		if validators.Blank(reqData.Name) {
			errors["name"] = "Name is required!"
		}
		checkEmail(errors, "email", reqData.Email)
		if validators.Blank(reqData.Message) {
			errors["message"] = "Message is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedContact", reqData)
		return c.Next()
	}
}

// AdminLogin validator middleware
func AdminLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return invalidBody(c)
		}

		errors := make(map[string]string)
		checkEmail(errors, "email", reqData.Email)
		if reqData.Password == "" {
			errors["password"] = "Password is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdminLogin", reqData)
		return c.Next()
	}
}
