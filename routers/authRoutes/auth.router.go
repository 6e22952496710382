package authRoutes

import (
	authController "sankalp/controllers/auth"
	"sankalp/models"
	authValidator "sankalp/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes mounts sign up, sign in and password reset. otpLimit
// throttles the routes that send email.
func SetupAuthRoutes(api fiber.Router, h *authController.Handler, otpLimit fiber.Handler) {
	api.Post("/register", otpLimit, authValidator.Register(), h.Register(models.KindStudent))
	api.Post("/employee_register", otpLimit, authValidator.Register(), h.Register(models.KindEmployee))
	api.Post("/verify-registration", authValidator.VerifyRegistration(), h.VerifyRegistration)

	api.Post("/login", authValidator.Login(), h.Login(models.KindStudent))
	api.Post("/employee_login", authValidator.Login(), h.Login(models.KindEmployee))
	api.Post("/logout", h.Logout)

	api.Post("/forgot-password", otpLimit, authValidator.ForgotPassword(), h.ForgotPassword(models.KindStudent))
	api.Post("/forgot-password-mobile", otpLimit, authValidator.ForgotPassword(), h.ForgotPassword(models.KindStudent))
	api.Post("/verify-otp", authValidator.VerifyOTP(), h.VerifyOTP)
	api.Post("/reset-password", authValidator.ResetPassword(), h.ResetPassword)

	api.Post("/update-profile", authValidator.UpdateProfile(), h.UpdateProfile)
	api.Post("/contact", otpLimit, authValidator.Contact(), h.Contact)

	api.Post("/admin/login", authValidator.AdminLogin(), h.AdminLogin)
}
