package lessonController

import (
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/config"
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	lessonModels "lms/models/lesson"
	"lms/ordering"
	"lms/utils"
)

func lessonScope(sectionID uint) ordering.Scope {
	return ordering.Scope{
		Model:        &lessonModels.BaseLesson{},
		ParentColumn: "course_section_id",
		ParentID:     sectionID,
	}
}

// CreateLesson creates a lesson, exercise or test at the end of the
// section's order
func CreateLesson(c *fiber.Ctx) error {
	sectionID := c.Locals("sectionID").(uint)

	var section courseModels.CourseSection
	if err := database.Database.Db.First(&section, sectionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Type        string `json:"type"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var lesson lessonModels.BaseLesson
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		orderIndex, err := ordering.NextIndex(tx, lessonScope(sectionID))
		if err != nil {
			return err
		}

		lesson = lessonModels.BaseLesson{
			CourseSectionID: sectionID,
			Name:            reqData.Name,
			Description:     reqData.Description,
			Type:            reqData.Type,
			OrderIndex:      orderIndex,
		}
		return tx.Create(&lesson).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// ListLessons lists a section's lessons in persisted order
func ListLessons(c *fiber.Ctx) error {
	sectionID := c.Locals("sectionID").(uint)

	var section courseModels.CourseSection
	if err := database.Database.Db.First(&section, sectionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	var lessons []lessonModels.BaseLesson
	if err := database.Database.Db.Where("course_section_id = ?", sectionID).
		Order("order_index asc, id asc").Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", fiber.Map{
		"lessons": lessons,
	})
}

// UpdateLesson updates a lesson's name and description
func UpdateLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)

	var lesson lessonModels.BaseLesson
	if err := database.Database.Db.First(&lesson, lessonID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	reqData, ok := c.Locals("validatedLessonUpdate").(*struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Name != "" {
		lesson.Name = reqData.Name
	}
	if reqData.Description != "" {
		lesson.Description = reqData.Description
	}

	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

// DeleteLesson deletes a lesson. Remaining lessons keep their relative order.
func DeleteLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)

	var lesson lessonModels.BaseLesson
	if err := database.Database.Db.First(&lesson, lessonID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	if err := database.Database.Db.Delete(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}

// ReorderLessons replaces the lesson order within a section. The request
// must list exactly the section's current lesson ids.
func ReorderLessons(c *fiber.Ctx) error {
	sectionID := c.Locals("sectionID").(uint)

	var section courseModels.CourseSection
	if err := database.Database.Db.First(&section, sectionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	reqData, ok := c.Locals("validatedReorder").(*struct {
		Lessons []uint `json:"lessons"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := ordering.Reorder(database.Database.Db, lessonScope(sectionID), reqData.Lessons); err != nil {
		return middleware.AppErrorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// MarkLessonComplete records that the viewer completed a lesson. The viewer
// must be signed up for the course the lesson belongs to.
func MarkLessonComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(uint)

	var lesson lessonModels.BaseLesson
	if err := database.Database.Db.First(&lesson, lessonID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var section courseModels.CourseSection
	if err := database.Database.Db.First(&section, lesson.CourseSectionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	// Check signup
	var signup courseModels.CourseSignup
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, section.CourseID).
		First(&signup).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please sign up for this course first!", nil)
	}

	completion := lessonModels.LessonCompletion{
		UserID:   userID,
		LessonID: lessonID,
	}
	err := database.Database.Db.
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		FirstOrCreate(&completion).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark lesson complete!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as complete!", completion)
}

// UploadLessonVideo stores a video file for a LESSON row
func UploadLessonVideo(c *fiber.Ctx) error {
	return uploadLessonFile(c, "video")
}

// UploadLessonMaterials stores additional materials for a LESSON row
func UploadLessonMaterials(c *fiber.Ctx) error {
	return uploadLessonFile(c, "materials")
}

func uploadLessonFile(c *fiber.Ctx, kind string) error {
	lessonID := c.Locals("lessonID").(uint)

	var lesson lessonModels.BaseLesson
	if err := database.Database.Db.First(&lesson, lessonID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	// Only the LESSON variant carries media payload
	if lesson.Type != lessonModels.TypeLesson {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only lessons can carry media files!", nil)
	}

	file, err := c.FormFile(kind)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File is required!", nil)
	}

	destDir := filepath.Join(config.AppConfig.UploadDir, kind, "lessons", strconv.Itoa(int(lessonID)))
	savedPath, err := utils.SaveUploadedFile(file, destDir)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store file!", nil)
	}

	if kind == "video" {
		lesson.VideoURL = savedPath
	} else {
		lesson.MaterialsURL = savedPath
	}

	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "File uploaded successfully!", fiber.Map{
		"url": utils.GetFileURL(savedPath),
	})
}
