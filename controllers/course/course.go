package controllers

import (
	"sankalp/middleware"
	"sankalp/models"
	"sankalp/services/catalog"
	courseValidator "sankalp/validators/course"

	"github.com/gofiber/fiber/v2"
)

const recommendLimit = 3

type CourseHandler struct {
	catalog *catalog.Service
}

func NewCourseHandler(catalog *catalog.Service) *CourseHandler {
	return &CourseHandler{catalog: catalog}
}

// TestDB reports database connectivity
func (h *CourseHandler) TestDB(c *fiber.Ctx) error {
	if err := h.catalog.Ping(c.UserContext()); err != nil {
		return middleware.ErrorResponse(c, err, "Database connection failed")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Database connected successfully", nil)
}

func (h *CourseHandler) GetAllCourses(c *fiber.Ctx) error {
	courses, err := h.catalog.ListCourses(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch courses")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

func (h *CourseHandler) GetCourseModules(c *fiber.Ctx) error {
	courseID := c.Locals("courseId").(uint)
	modules, err := h.catalog.Modules(c.UserContext(), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch course modules")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course modules fetched successfully!", modules)
}

func (h *CourseHandler) GetModuleMaterials(c *fiber.Ctx) error {
	courseID := c.Locals("courseId").(uint)
	materials, err := h.catalog.Materials(c.UserContext(), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch module materials")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module materials fetched successfully!", materials)
}

// CreateCourse stores a course with its modules and materials
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCreateCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	in := catalog.NewCourse{
		Title:       reqData.Title,
		Description: reqData.Description,
		Thumbnail:   reqData.Thumbnail,
		Syllabus:    reqData.Syllabus,
	}
	for _, m := range reqData.Modules {
		in.Modules = append(in.Modules, catalog.NewModule{
			Title:     m.Title,
			Week:      m.Week,
			Day:       m.Day,
			VideoURL:  m.VideoURL,
			Materials: m.Materials,
		})
	}

	course, err := h.catalog.CreateCourse(c.UserContext(), in)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to create course")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully", fiber.Map{
		"courseId": course.ID,
	})
}

func (h *CourseHandler) CheckCourseAccess(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCheckAccess").(*courseValidator.CheckAccessRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	grant, err := h.catalog.CheckAccess(c.UserContext(), reqData.Reg.OrStudent(), reqData.Email, reqData.CourseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to check course access")
	}
	if grant == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No access to this course", fiber.Map{"hasAccess": false})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course access found", fiber.Map{
		"hasAccess":   true,
		"grantedDate": grant.GrantedAt,
	})
}

// GetUserCourses lists the approved courses of a student
func (h *CourseHandler) GetUserCourses(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courses, err := h.catalog.UserCourses(c.UserContext(), models.KindStudent, userID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to retrieve user courses")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User courses fetched successfully!", courses)
}

// GetUserCourseModules lists the modules released so far to a student
func (h *CourseHandler) GetUserCourseModules(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseId").(uint)
	modules, err := h.catalog.UnlockedModules(c.UserContext(), models.KindStudent, userID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to retrieve modules")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", modules)
}

func (h *CourseHandler) RecommendCourses(c *fiber.Ctx) error {
	return h.recommend(c, recommendLimit)
}

func (h *CourseHandler) RecommendAllCourses(c *fiber.Ctx) error {
	return h.recommend(c, 0)
}

func (h *CourseHandler) recommend(c *fiber.Ctx, limit int) error {
	userID := c.Locals("userId").(uint)
	courses, err := h.catalog.Recommend(c.UserContext(), models.KindStudent, userID, limit)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch recommended courses")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recommended courses fetched successfully!", courses)
}
