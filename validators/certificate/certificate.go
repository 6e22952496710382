package certificateValidator

import (
	"sankalp/middleware"
	"sankalp/validators"

	"github.com/gofiber/fiber/v2"
)

type VerifyRequest struct {
	HolderName string `json:"holderName"`
	DomainName string `json:"domainName"`
	IssueDate  string `json:"issueDate"`
}

type GenerateRequest struct {
	Name      string `json:"name"`
	Domain    string `json:"domain"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Gender    string `json:"gender"`
}

func Verify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(VerifyRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if validators.Blank(reqData.HolderName) {
			errors["holderName"] = "Holder name is required!"
		}
		if validators.Blank(reqData.DomainName) {
			errors["domainName"] = "Domain name is required!"
		}
		if !validators.IsDate(reqData.IssueDate) {
			errors["issueDate"] = "Issue date must be YYYY-MM-DD!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVerifyCertificate", reqData)
		return c.Next()
	}
}

func Generate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GenerateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if validators.Blank(reqData.Name) {
			errors["name"] = "Name is required!"
		}
		if validators.Blank(reqData.Domain) {
			errors["domain"] = "Domain is required!"
		}
		if validators.Blank(reqData.StartDate) {
			errors["start_date"] = "Start date is required!"
		}
		if validators.Blank(reqData.EndDate) {
			errors["end_date"] = "End date is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGenerateCertificate", reqData)
		return c.Next()
	}
}
