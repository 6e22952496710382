package registrationValidator

import (
	"sankalp/middleware"
	"sankalp/models"
	"sankalp/validators"

	"github.com/gofiber/fiber/v2"
)

type PendingData struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	TransactionID string  `json:"transid"`
	ReferralID    string  `json:"refid"`
	CourseName    string  `json:"courseName"`
	Amount        float64 `json:"amt"`
	CourseID      uint    `json:"courseId"`
}

type PendingRequest struct {
	Data PendingData        `json:"pendingRegistrationData"`
	Reg  models.AccountKind `json:"reg"`
}

type MaintenanceData struct {
	Email         string `json:"email"`
	CourseName    string `json:"courseName"`
	TransactionID string `json:"transid"`
}

type MaintenanceRequest struct {
	Data MaintenanceData    `json:"registrationData"`
	Reg  models.AccountKind `json:"reg"`
}

// StatusRequest is shared by the status check and admin approval.
type StatusRequest struct {
	Email    string             `json:"email"`
	CourseID uint               `json:"courseId"`
	Reg      models.AccountKind `json:"reg"`
}

func invalidBody(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
}

// Pending validates a new registration claim
func Pending() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PendingRequest)
		if err := c.BodyParser(reqData); err != nil {
			return invalidBody(c)
		}

		d := reqData.Data
		errors := make(map[string]string)
		if validators.Blank(d.Name) {
			errors["name"] = "Name is required!"
		}
		if !validators.IsEmail(d.Email) {
			errors["email"] = "Invalid email!"
		}
		if validators.Blank(d.TransactionID) {
			errors["transid"] = "Transaction id is required!"
		}
		if validators.Blank(d.CourseName) {
			errors["courseName"] = "Course name is required!"
		}
		if d.Amount <= 0 {
			errors["amt"] = "Amount must be a positive number!"
		}
		if d.CourseID == 0 {
			errors["courseId"] = "Course id is required!"
		}
		if len(d.ReferralID) > 8 {
			errors["refid"] = "Referral code must be at most 8 characters!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPending", reqData)
		return c.Next()
	}
}

func Maintenance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(MaintenanceRequest)
		if err := c.BodyParser(reqData); err != nil {
			return invalidBody(c)
		}

		d := reqData.Data
		errors := make(map[string]string)
		if !validators.IsEmail(d.Email) {
			errors["email"] = "Invalid email!"
		}
		if validators.Blank(d.CourseName) {
			errors["courseName"] = "Course name is required!"
		}
		if validators.Blank(d.TransactionID) {
			errors["transid"] = "Transaction id is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedMaintenance", reqData)
		return c.Next()
	}
}

// Status validates pending-check and admin-approve bodies
func Status() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(StatusRequest)
		if err := c.BodyParser(reqData); err != nil {
			return invalidBody(c)
		}

		errors := make(map[string]string)
		if !validators.IsEmail(reqData.Email) {
			errors["email"] = "Invalid email!"
		}
		if reqData.CourseID == 0 {
			errors["courseId"] = "Course id is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedStatus", reqData)
		return c.Next()
	}
}
