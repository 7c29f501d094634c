package lessonRoutes

import (
	"github.com/gofiber/fiber/v2"

	lessonController "lms/controllers/lesson"
	"lms/middleware"
	"lms/models"
	courseValidators "lms/validators/course"
	validators "lms/validators/lesson"
)

// SetupLessonRoutes sets up lesson management routes
func SetupLessonRoutes(app *fiber.App) {
	sectionGroup := app.Group("/sections")

	sectionGroup.Get("/:id/lessons", middleware.JWTMiddleware, courseValidators.SectionID(), lessonController.ListLessons)
	sectionGroup.Post("/:id/lessons", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermCourseChange), courseValidators.SectionID(), validators.CreateLesson(), lessonController.CreateLesson)
	sectionGroup.Patch("/:id/reorder-lessons", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermCourseChange), courseValidators.SectionID(), validators.ReorderLessons(), lessonController.ReorderLessons)

	lessonGroup := app.Group("/lessons")

	lessonGroup.Put("/:id", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermCourseChange), validators.LessonID(), validators.UpdateLesson(), lessonController.UpdateLesson)
	lessonGroup.Delete("/:id", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermCourseChange), validators.LessonID(), lessonController.DeleteLesson)
	lessonGroup.Post("/:id/complete", middleware.JWTMiddleware, validators.LessonID(), lessonController.MarkLessonComplete)
	lessonGroup.Post("/:id/video", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermCourseChange), validators.LessonID(), lessonController.UploadLessonVideo)
	lessonGroup.Post("/:id/materials", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermCourseChange), validators.LessonID(), lessonController.UploadLessonMaterials)
}
