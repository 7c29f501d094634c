package controllers

import (
	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	"lms/services"
)

// ListAssignedCourses lists only the courses the viewer has signed up for
func ListAssignedCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedList").(*struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	service := services.NewCourseService(database.Database.Db)
	courses, total, err := service.ListAssignedCourses(userID, reqData.Page, reqData.Limit)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assigned courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assigned courses fetched successfully!", fiber.Map{
		"results": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}

// RetrieveAssignedCourse returns the nested course view for the viewer.
// Courses the viewer is not signed up for look exactly like missing ones.
func RetrieveAssignedCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	service := services.NewCourseService(database.Database.Db)
	detail, err := service.RetrieveAssignedCourse(userID, courseID)
	if err != nil {
		return middleware.AppErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", detail)
}
