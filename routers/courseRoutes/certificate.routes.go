package courseRoutes

import (
	controllers "sankalp/controllers/course"
	certificateValidator "sankalp/validators/certificate"

	"github.com/gofiber/fiber/v2"
)

func SetupCertificateRoutes(api fiber.Router, h *controllers.CertificateHandler) {
	api.Post("/verify-certificate", certificateValidator.Verify(), h.VerifyCertificate)
	api.Post("/generate-certificate", certificateValidator.Generate(), h.GenerateCertificate)
}
