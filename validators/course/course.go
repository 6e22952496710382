package courseValidator

import (
	"fmt"
	"strconv"
	"strings"

	"sankalp/middleware"
	"sankalp/models"
	"sankalp/validators"

	"github.com/gofiber/fiber/v2"
)

type ModuleRequest struct {
	Title     string   `json:"title"`
	Week      int      `json:"week"`
	Day       int      `json:"day"`
	VideoURL  string   `json:"videoUrl"`
	Materials []string `json:"materials"`
}

type CreateCourseRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Thumbnail   string          `json:"thumbnail"`
	Syllabus    string          `json:"syllabus"`
	Modules     []ModuleRequest `json:"modules"`
}

type CheckAccessRequest struct {
	Email    string             `json:"email"`
	CourseID uint               `json:"courseId"`
	Reg      models.AccountKind `json:"reg"`
}

// IDParam parses a positive numeric route parameter into Locals under the
// same name.
func IDParam(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range names {
			raw := strings.TrimSpace(c.Params(name))
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, fmt.Sprintf("Invalid %s!", name), nil)
			}
			c.Locals(name, uint(id))
		}
		return c.Next()
	}
}

// CreateCourse validates admin course creation request
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		reqData.Title = strings.TrimSpace(reqData.Title)
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		}
		if validators.Blank(reqData.Description) {
			errors["description"] = "Description is required!"
		}
		if len(reqData.Modules) == 0 {
			errors["modules"] = "At least one module is required!"
		}
		for i, m := range reqData.Modules {
			if validators.Blank(m.Title) || m.Week < 1 || m.Day < 1 || validators.Blank(m.VideoURL) {
				errors[fmt.Sprintf("modules[%d]", i)] = "Module needs a title, week, day and videoUrl!"
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateCourse", reqData)
		return c.Next()
	}
}

func CheckAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CheckAccessRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
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

		c.Locals("validatedCheckAccess", reqData)
		return c.Next()
	}
}
