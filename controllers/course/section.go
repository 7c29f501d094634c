package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	lessonModels "lms/models/lesson"
	"lms/ordering"
)

func sectionScope(courseID uint) ordering.Scope {
	return ordering.Scope{
		Model:        &courseModels.CourseSection{},
		ParentColumn: "course_id",
		ParentID:     courseID,
	}
}

// CreateSection creates a new section at the end of the course's order
func CreateSection(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var course courseModels.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedSection").(*struct {
		Name string `json:"name"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var section courseModels.CourseSection
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		orderIndex, err := ordering.NextIndex(tx, sectionScope(courseID))
		if err != nil {
			return err
		}

		section = courseModels.CourseSection{
			CourseID:   courseID,
			Name:       reqData.Name,
			OrderIndex: orderIndex,
		}
		return tx.Create(&section).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create section!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Section created successfully!", section)
}

// UpdateSection renames a section
func UpdateSection(c *fiber.Ctx) error {
	sectionID := c.Locals("sectionID").(uint)

	var section courseModels.CourseSection
	if err := database.Database.Db.First(&section, sectionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	reqData, ok := c.Locals("validatedSection").(*struct {
		Name string `json:"name"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	section.Name = reqData.Name
	if err := database.Database.Db.Save(&section).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update section!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section updated successfully!", section)
}

// DeleteSection deletes a section and its lessons. Remaining sections keep
// their relative order; positions are not renumbered.
func DeleteSection(c *fiber.Ctx) error {
	sectionID := c.Locals("sectionID").(uint)

	var section courseModels.CourseSection
	if err := database.Database.Db.First(&section, sectionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	tx := database.Database.Db.Begin()

	if err := tx.Where("course_section_id = ?", sectionID).Delete(&lessonModels.BaseLesson{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete section lessons!", nil)
	}

	if err := tx.Delete(&section).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete section!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section deleted successfully!", nil)
}

// ReorderSections replaces the section order of a course. The request must
// list exactly the course's current section ids.
func ReorderSections(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var course courseModels.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedReorder").(*struct {
		Sections []uint `json:"sections"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := ordering.Reorder(database.Database.Db, sectionScope(courseID), reqData.Sections); err != nil {
		return middleware.AppErrorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
