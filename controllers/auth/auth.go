package authController

import (
	"crypto/subtle"
	"strings"

	"sankalp/middleware"
	"sankalp/models"
	"sankalp/services/account"
	authValidator "sankalp/validators/auth"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	accounts      *account.Service
	adminEmail    string
	adminPassword string
}

func NewHandler(accounts *account.Service, adminEmail, adminPassword string) *Handler {
	return &Handler{accounts: accounts, adminEmail: adminEmail, adminPassword: adminPassword}
}

func roleFor(kind models.AccountKind) string {
	if kind == models.KindEmployee {
		return middleware.RoleEmployee
	}
	return middleware.RoleStudent
}

// Register starts sign up for kind and mails the verification OTP
func (h *Handler) Register(kind models.AccountKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedRegister").(*authValidator.RegisterRequest)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
		}

		err := h.accounts.StartRegistration(c.UserContext(), account.SignUp{
			Kind:     kind,
			Name:     reqData.Name,
			Email:    reqData.Email,
			Phone:    reqData.Phone,
			Password: reqData.Password,
		})
		if err != nil {
			return middleware.ErrorResponse(c, err, "Registration failed")
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent to your email", fiber.Map{
			"email": strings.ToLower(strings.TrimSpace(reqData.Email)),
		})
	}
}

func (h *Handler) VerifyRegistration(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVerifyRegistration").(*authValidator.VerifyRegistrationRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	acc, err := h.accounts.VerifyRegistration(c.UserContext(), reqData.Email, reqData.OTP)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Verification failed")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Registration successful", acc.Summary())
}

// Login signs in an account of kind and issues a session token
func (h *Handler) Login(kind models.AccountKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
		}

		acc, err := h.accounts.Login(c.UserContext(), kind, reqData.Email, reqData.Password)
		if err != nil {
			return middleware.ErrorResponse(c, err, "Login failed")
		}

		token, err := middleware.GenerateJWT(acc.ID, acc.Name, roleFor(kind), acc.Email)
		if err != nil {
			return middleware.ErrorResponse(c, err, "Login failed")
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful", fiber.Map{
			"user":  acc.Summary(),
			"token": token,
		})
	}
}

// Logout is stateless; clients drop their token
func (h *Handler) Logout(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logout successful", nil)
}

// ForgotPassword mails a reset OTP. fallback is the kind used when the
// body does not name one.
func (h *Handler) ForgotPassword(fallback models.AccountKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedForgotPassword").(*authValidator.ForgotPasswordRequest)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
		}

		kind := reqData.Reg
		if kind == "" {
			kind = fallback
		}
		if err := h.accounts.ForgotPassword(c.UserContext(), kind, reqData.Email); err != nil {
			return middleware.ErrorResponse(c, err, "Failed to process request")
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent to your email", nil)
	}
}

func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVerifyOTP").(*authValidator.VerifyOTPRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := h.accounts.CheckResetCode(c.UserContext(), reqData.Email, reqData.OTP); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to verify OTP")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP verified successfully", nil)
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedResetPassword").(*authValidator.ResetPasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	err := h.accounts.ResetPassword(c.UserContext(), reqData.Reg.OrStudent(), reqData.Email, reqData.OTP, reqData.Password)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to reset password")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset successful", nil)
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUpdateProfile").(*authValidator.UpdateProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	acc, err := h.accounts.UpdateProfile(c.UserContext(), account.ProfileUpdate{
		Kind:          reqData.Reg.OrStudent(),
		OriginalEmail: reqData.OriginalEmail,
		Name:          reqData.Name,
		Email:         reqData.Email,
		Phone:         reqData.Phone,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to update profile")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully", acc.Summary())
}

func (h *Handler) Contact(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedContact").(*authValidator.ContactRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := h.accounts.Contact(c.UserContext(), reqData.Name, reqData.Email, reqData.Phone, reqData.Message); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to send message")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message sent successfully", nil)
}

// AdminLogin exchanges the configured admin credentials for an admin token
func (h *Handler) AdminLogin(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAdminLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	if h.adminPassword == "" {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Admin login is not configured", nil)
	}

	emailOK := strings.EqualFold(strings.TrimSpace(reqData.Email), h.adminEmail)
	passOK := subtle.ConstantTimeCompare([]byte(reqData.Password), []byte(h.adminPassword)) == 1
	if !emailOK || !passOK {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password", nil)
	}

	token, err := middleware.GenerateJWT(0, "Admin", middleware.RoleAdmin, h.adminEmail)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Login failed")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful", fiber.Map{"token": token})
}
