package registrationController

import (
	"sankalp/middleware"
	"sankalp/services/registration"
	registrationValidator "sankalp/validators/registration"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	registrations *registration.Service
}

func NewHandler(registrations *registration.Service) *Handler {
	return &Handler{registrations: registrations}
}

// Pending records a course payment claim
func (h *Handler) Pending(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPending").(*registrationValidator.PendingRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	d := reqData.Data
	row, err := h.registrations.Submit(c.UserContext(), registration.Submission{
		Name:          d.Name,
		Email:         d.Email,
		TransactionID: d.TransactionID,
		ReferralID:    d.ReferralID,
		CourseID:      d.CourseID,
		CourseName:    d.CourseName,
		Amount:        d.Amount,
		Kind:          reqData.Reg.OrStudent(),
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Registration failed")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Registration is under review", fiber.Map{
		"id":                 row.ID,
		"registrationStatus": registration.StatusOf(row),
	})
}

// Maintenance confirms the maintenance fee for a pending claim
func (h *Handler) Maintenance(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedMaintenance").(*registrationValidator.MaintenanceRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	err := h.registrations.ConfirmMaintenance(c.UserContext(), registration.MaintenancePayment{
		Email:         reqData.Data.Email,
		CourseName:    reqData.Data.CourseName,
		TransactionID: reqData.Data.TransactionID,
		Kind:          reqData.Reg.OrStudent(),
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to record maintenance payment")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Maintenance payment recorded", fiber.Map{
		"registrationStatus": registration.PendingReview,
	})
}

func (h *Handler) PendingCheck(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedStatus").(*registrationValidator.StatusRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	status, err := h.registrations.Status(c.UserContext(), reqData.Email, reqData.CourseID, reqData.Reg.OrStudent())
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to check registration status")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registration status found", fiber.Map{
		"registrationStatus": status,
	})
}

// AdminCheck lists claims waiting for approval
func (h *Handler) AdminCheck(c *fiber.Ctx) error {
	rows, err := h.registrations.AwaitingApproval(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch pending registrations")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending registrations fetched", rows)
}

func (h *Handler) AdminApprove(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedStatus").(*registrationValidator.StatusRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	approval, err := h.registrations.Approve(c.UserContext(), reqData.Email, reqData.CourseID, reqData.Reg)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to approve registration")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registration approved successfully", fiber.Map{
		"registration":     approval.Registration,
		"userId":           approval.AccountID,
		"referrerCredited": approval.ReferrerCredited,
	})
}
