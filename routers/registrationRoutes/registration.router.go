package registrationRoutes

import (
	registrationController "sankalp/controllers/registration"
	registrationValidator "sankalp/validators/registration"

	"github.com/gofiber/fiber/v2"
)

// SetupRegistrationRoutes mounts the enrollment flow. adminOnly guards
// the review endpoints.
func SetupRegistrationRoutes(api fiber.Router, h *registrationController.Handler, adminOnly []fiber.Handler) {
	api.Post("/pending", registrationValidator.Pending(), h.Pending)
	api.Post("/maintenance", registrationValidator.Maintenance(), h.Maintenance)
	api.Post("/pending-check", registrationValidator.Status(), h.PendingCheck)

	api.Get("/admin-check", append(adminOnly, h.AdminCheck)...)
	api.Post("/admin-approve", append(adminOnly, registrationValidator.Status(), h.AdminApprove)...)
}
