package course

import "gorm.io/gorm"

// Course represents a learning course
type Course struct {
	gorm.Model
	Name            string `json:"name"`
	Description     string `json:"description"`
	CoverImage      string `json:"cover_image"`
	SmallCoverImage string `json:"small_cover_image"`
}
