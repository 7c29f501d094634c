package courseValidator

import (
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

// CreateSignup validates the signup request body
func CreateSignup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Course uint `json:"course"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Course == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"course": "Course is required!",
			})
		}

		c.Locals("validatedSignup", reqData)
		return c.Next()
	}
}
