package models

import (
	"gorm.io/gorm"
)

// Course management permissions checked by middleware.CheckPermissionMiddleware
const (
	PermCourseAdd    = "course.add"
	PermCourseChange = "course.change"
	PermCourseDelete = "course.delete"
)

type Permission struct {
	gorm.Model
	UserID     uint   `gorm:"index;not null"`
	User       User   `gorm:"foreignKey:UserID"`
	Permission string `gorm:"type:varchar(255)"` // e.g., "course.add"
	IsDeleted  bool   `gorm:"default:false"`
}
