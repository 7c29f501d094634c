package lesson

import "gorm.io/gorm"

// Lesson types. The family is closed: every row is exactly one of these.
const (
	TypeLesson   = "LESSON"
	TypeExercise = "EXERCISE"
	TypeTest     = "TEST"
)

// BaseLesson represents a single item inside a course section. The Type
// column discriminates the variant; only LESSON rows carry media payload.
// Ordering inside a section is explicit via OrderIndex.
type BaseLesson struct {
	gorm.Model
	CourseSectionID uint   `json:"course_section_id" gorm:"index;not null"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Type            string `json:"type" gorm:"default:'LESSON'"` // LESSON, EXERCISE, TEST
	OrderIndex      int    `json:"order_index" gorm:"default:0"` // Lesson order within section

	// LESSON payload, stored as paths into upload storage
	VideoURL     string `json:"video_url"`
	MaterialsURL string `json:"materials_url"`
}

// IsValidType reports whether t names a known lesson variant
func IsValidType(t string) bool {
	switch t {
	case TypeLesson, TypeExercise, TypeTest:
		return true
	}
	return false
}

// LessonCompletion tracks a user's completion of a lesson
type LessonCompletion struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"uniqueIndex:idx_completion_user_lesson;not null"`
	LessonID uint `json:"lesson_id" gorm:"uniqueIndex:idx_completion_user_lesson;not null"`
}
