package controllers

import (
	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services"
)

// CreateSignup signs the viewer up for a course
func CreateSignup(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedSignup").(*struct {
		Course uint `json:"course"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	service := services.NewCourseService(database.Database.Db)
	signup, err := service.SignupForCourse(userID, reqData.Course)
	if err != nil {
		return middleware.AppErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Signed up successfully!", signup)
}

// ListSignups lists the viewer's signups; staff users see all signups
func ListSignups(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedList").(*struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	service := services.NewCourseService(database.Database.Db)
	signups, total, err := service.ListSignups(&user, reqData.Page, reqData.Limit)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch signups!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Signups fetched successfully!", fiber.Map{
		"results": signups,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}

// GetSignupStats summarizes signup counts for a course
func GetSignupStats(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	service := services.NewCourseService(database.Database.Db)
	stats, err := service.CourseSignupStats(courseID)
	if err != nil {
		return middleware.AppErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Signup stats fetched successfully!", stats)
}
