package courseRoutes

import (
	controllers "sankalp/controllers/course"
	validators "sankalp/validators/course"
	videoValidator "sankalp/validators/video"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes mounts catalog browsing, per-student course views and
// course authoring
func SetupCourseRoutes(api fiber.Router, h *controllers.CourseHandler, adminOnly []fiber.Handler) {
	api.Get("/test-db", h.TestDB)

	api.Get("/courses", h.GetAllCourses)
	api.Post("/courses", append(adminOnly, validators.CreateCourse(), h.CreateCourse)...)
	api.Get("/course-modules/:courseId", validators.IDParam("courseId"), h.GetCourseModules)
	api.Get("/module-materials/:courseId", validators.IDParam("courseId"), h.GetModuleMaterials)
	api.Post("/check-course-access", validators.CheckAccess(), h.CheckCourseAccess)

	api.Get("/user-courses/:userId", validators.IDParam("userId"), h.GetUserCourses)
	api.Get("/user-course-modules/:userId/:courseId", validators.IDParam("userId", "courseId"), h.GetUserCourseModules)
	api.Get("/recommend-courses/:userId", validators.IDParam("userId"), h.RecommendCourses)
	api.Get("/recommend-courses-all/:userId", validators.IDParam("userId"), h.RecommendAllCourses)
}

// SetupVideoRoutes mounts token issuance and the secure player
func SetupVideoRoutes(api fiber.Router, h *controllers.VideoHandler) {
	api.Post("/generate-video-token", videoValidator.GenerateToken(), h.GenerateVideoToken)
	api.Post("/generate-video-token-mobile", videoValidator.GenerateTokenMobile(), h.GenerateVideoTokenMobile)
	api.Get("/secure-video/:moduleId", validators.IDParam("moduleId"), videoValidator.SecureVideo(), h.SecureVideo)
	api.Get("/secure-video-mobile/:moduleId", validators.IDParam("moduleId"), videoValidator.SecureVideo(), h.SecureVideo)
}
