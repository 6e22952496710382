package controllers

import (
	"errors"
	"fmt"

	"sankalp/middleware"
	"sankalp/services/certificate"
	certificateValidator "sankalp/validators/certificate"

	"github.com/gofiber/fiber/v2"
)

type CertificateHandler struct {
	certificates *certificate.Service
}

func NewCertificateHandler(certificates *certificate.Service) *CertificateHandler {
	return &CertificateHandler{certificates: certificates}
}

// VerifyCertificate answers with the certificate status, or -1 when no
// single certificate matches
func (h *CertificateHandler) VerifyCertificate(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVerifyCertificate").(*certificateValidator.VerifyRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	value, err := h.certificates.Verify(c.UserContext(), reqData.HolderName, reqData.DomainName, reqData.IssueDate)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to verify certificate")
	}
	if value == certificate.NotFound {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No certificate found", fiber.Map{"value": value})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate found", fiber.Map{"value": value})
}

// GenerateCertificate renders a certificate PDF and streams it back
func (h *CertificateHandler) GenerateCertificate(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedGenerateCertificate").(*certificateValidator.GenerateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	issued, err := h.certificates.Generate(c.UserContext(), certificate.Request{
		Name:      reqData.Name,
		Domain:    reqData.Domain,
		StartDate: reqData.StartDate,
		EndDate:   reqData.EndDate,
		Gender:    reqData.Gender,
	})
	if err != nil {
		var re *certificate.RenderError
		if errors.As(err, &re) {
			return c.Status(re.Status).JSON(fiber.Map{
				"status":  false,
				"message": "Failed to generate certificate",
				"error":   re.Message,
				"data":    nil,
			})
		}
		return middleware.ErrorResponse(c, err, "Certificate generation failed")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, issued.FileName))
	return c.Status(fiber.StatusOK).Send(issued.PDF)
}
