package course

import "gorm.io/gorm"

// CourseSignup links a user to a course they enrolled in. The composite
// unique index enforces at most one signup per (user, course) pair at the
// storage layer.
type CourseSignup struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"uniqueIndex:idx_signup_user_course;not null"`
	CourseID uint `json:"course_id" gorm:"uniqueIndex:idx_signup_user_course;not null"`
}
