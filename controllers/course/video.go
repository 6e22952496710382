package controllers

import (
	"errors"

	"sankalp/apperr"
	"sankalp/middleware"
	"sankalp/services/videotoken"
	"sankalp/utils"
	videoValidator "sankalp/validators/video"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type VideoHandler struct {
	videos *videotoken.Service
}

func NewVideoHandler(videos *videotoken.Service) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// GenerateVideoToken issues a short lived token for a module video
func (h *VideoHandler) GenerateVideoToken(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVideoToken").(*videoValidator.TokenRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	token, err := h.videos.IssueForEmail(c.UserContext(), reqData.Reg.OrStudent(), reqData.Email, reqData.ModuleID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to generate video token")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video token generated", fiber.Map{"token": token})
}

func (h *VideoHandler) GenerateVideoTokenMobile(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVideoTokenMobile").(*videoValidator.MobileTokenRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	token, err := h.videos.IssueForUserID(c.UserContext(), reqData.UserID, reqData.ModuleID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to generate video token")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video token generated", fiber.Map{"token": token})
}

// SecureVideo serves the player page. Errors are plain text since the
// page is opened directly in a browser or web view.
func (h *VideoHandler) SecureVideo(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleId").(uint)
	token := c.Locals("videoToken").(string)

	page, err := h.videos.Page(c.UserContext(), moduleID, token)
	c.Set(fiber.HeaderCacheControl, "no-store")
	if err != nil {
		var ae *apperr.Error
		if !errors.As(err, &ae) {
			utils.Log.Error("serve secure video", zap.Uint("module_id", moduleID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).SendString("Error serving video")
		}
		return c.Status(middleware.StatusFor(ae.Kind)).SendString(ae.Message)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(fiber.StatusOK).Send(page)
}
