package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"
)

// SetupCourseRoutes sets up course, section and signup routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/courses")

	// Viewer-scoped routes. Registered before /:id so the literal segment wins.
	courseGroup.Get("/list-assigned", middleware.JWTMiddleware, validators.CourseList(), controllers.ListAssignedCourses)

	// Course listing and CRUD
	courseGroup.Get("/", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Post("/", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermCourseAdd), validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)
	courseGroup.Put("/:id", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermCourseChange), validators.CourseID(), validators.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermCourseDelete), validators.CourseID(), controllers.DeleteCourse)
	courseGroup.Post("/:id/cover", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermCourseChange), validators.CourseID(), controllers.UploadCourseCover)

	// Scoped nested projection for signed-up viewers
	courseGroup.Get("/:id/retrieve-assigned", middleware.JWTMiddleware, validators.CourseID(), controllers.RetrieveAssignedCourse)

	// Section management
	courseGroup.Post("/:id/sections", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermCourseChange), validators.CourseID(), validators.CreateSection(), controllers.CreateSection)
	courseGroup.Patch("/:id/reorder-sections", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermCourseChange), validators.CourseID(), validators.ReorderSections(), controllers.ReorderSections)

	// Signup stats for course staff
	courseGroup.Get("/:id/signups/stats", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermCourseChange), validators.CourseID(), controllers.GetSignupStats)

	sectionGroup := app.Group("/sections")
	sectionGroup.Put("/:id", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermCourseChange), validators.SectionID(), validators.CreateSection(), controllers.UpdateSection)
	sectionGroup.Delete("/:id", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermCourseChange), validators.SectionID(), controllers.DeleteSection)

	// Signups
	signupGroup := app.Group("/course-signups")
	signupGroup.Post("/", middleware.JWTMiddleware, validators.CreateSignup(), controllers.CreateSignup)
	signupGroup.Get("/", middleware.JWTMiddleware, validators.CourseList(), controllers.ListSignups)
}
