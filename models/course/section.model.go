package course

import "gorm.io/gorm"

// CourseSection represents a section within a course. Sections keep an
// explicit author-defined position inside their course, independent of
// name or creation time.
type CourseSection struct {
	gorm.Model
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	Name       string `json:"name"`
	OrderIndex int    `json:"order_index" gorm:"default:0"` // Section order in course
}
