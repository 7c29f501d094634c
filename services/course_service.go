// Package services holds the viewer-facing course operations: the nested,
// permission-scoped course projection and the signup registrar. Handlers in
// controllers/ translate the typed errors returned here to HTTP statuses.
package services

import (
	"errors"

	"github.com/jinzhu/now"
	"gorm.io/gorm"

	"lms/apperrors"
	"lms/models"
	courseModels "lms/models/course"
	lessonModels "lms/models/lesson"
)

type CourseService struct {
	db *gorm.DB
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db}
}

// CourseSummary is the list-assigned projection of a course.
type CourseSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CoverImage  string `json:"coverImage"`
}

// LessonDetail is a lesson as seen by one viewer.
type LessonDetail struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	IsComplete bool   `json:"isComplete"`
}

type SectionDetail struct {
	ID      uint           `json:"id"`
	Name    string         `json:"name"`
	Lessons []LessonDetail `json:"lessons"`
}

// CourseDetail is the full nested read-model of a course for one viewer.
type CourseDetail struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Sections []SectionDetail `json:"sections"`
}

// ListAssignedCourses returns the courses the viewer has signed up for.
func (s *CourseService) ListAssignedCourses(userID uint, page, limit int) ([]CourseSummary, int64, error) {
	query := s.db.Model(&courseModels.Course{}).
		Joins("JOIN course_signups ON course_signups.course_id = courses.id AND course_signups.deleted_at IS NULL").
		Where("course_signups.user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit

	var summaries []CourseSummary
	err := query.
		Select("courses.id, courses.name, courses.description, courses.cover_image").
		Order("courses.created_at desc").
		Offset(offset).Limit(limit).
		Scan(&summaries).Error
	if err != nil {
		return nil, 0, err
	}

	return summaries, total, nil
}

// RetrieveAssignedCourse builds the nested course view for one viewer. It
// fails with NotFoundError when the course does not exist or the viewer has
// no signup for it; the caller cannot tell those apart.
//
// The whole tree is built with at most four queries regardless of size:
// course+signup, sections, lessons batch, completions batch.
func (s *CourseService) RetrieveAssignedCourse(userID, courseID uint) (*CourseDetail, error) {
	var crs courseModels.Course
	err := s.db.
		Joins("JOIN course_signups ON course_signups.course_id = courses.id AND course_signups.deleted_at IS NULL").
		Where("courses.id = ? AND course_signups.user_id = ?", courseID, userID).
		First(&crs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Course")
		}
		return nil, err
	}

	var sections []courseModels.CourseSection
	err = s.db.Where("course_id = ?", crs.ID).
		Order("order_index asc, id asc").
		Find(&sections).Error
	if err != nil {
		return nil, err
	}

	detail := &CourseDetail{
		ID:       crs.ID,
		Name:     crs.Name,
		Sections: make([]SectionDetail, len(sections)),
	}
	if len(sections) == 0 {
		return detail, nil
	}

	sectionIDs := make([]uint, len(sections))
	for i, sec := range sections {
		sectionIDs[i] = sec.ID
	}

	var lessons []lessonModels.BaseLesson
	err = s.db.Where("course_section_id IN ?", sectionIDs).
		Order("order_index asc, id asc").
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}

	// Completion markers for this viewer, fetched in one batch
	completed := make(map[uint]bool)
	if len(lessons) > 0 {
		lessonIDs := make([]uint, len(lessons))
		for i, l := range lessons {
			lessonIDs[i] = l.ID
		}

		var completions []lessonModels.LessonCompletion
		err = s.db.Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
			Find(&completions).Error
		if err != nil {
			return nil, err
		}
		for _, c := range completions {
			completed[c.LessonID] = true
		}
	}

	lessonsBySection := make(map[uint][]LessonDetail)
	for _, l := range lessons {
		lessonsBySection[l.CourseSectionID] = append(lessonsBySection[l.CourseSectionID], LessonDetail{
			ID:         l.ID,
			Name:       l.Name,
			IsComplete: completed[l.ID],
		})
	}

	for i, sec := range sections {
		sectionLessons := lessonsBySection[sec.ID]
		if sectionLessons == nil {
			sectionLessons = []LessonDetail{}
		}
		detail.Sections[i] = SectionDetail{
			ID:      sec.ID,
			Name:    sec.Name,
			Lessons: sectionLessons,
		}
	}

	return detail, nil
}

// SignupForCourse registers the viewer for a course. A second signup for the
// same course fails with ConflictError; the unique index backs up the check
// under concurrent requests.
func (s *CourseService) SignupForCourse(userID, courseID uint) (*courseModels.CourseSignup, error) {
	var crs courseModels.Course
	if err := s.db.First(&crs, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Course")
		}
		return nil, err
	}

	var existing courseModels.CourseSignup
	err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
	if err == nil {
		return nil, apperrors.NewConflictError("Already signed up for this course.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	signup := courseModels.CourseSignup{
		UserID:   userID,
		CourseID: courseID,
	}
	if err := s.db.Create(&signup).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewConflictError("Already signed up for this course.")
		}
		return nil, err
	}

	return &signup, nil
}

// ListSignups returns the viewer's own signups, or every signup in the
// system when the viewer is staff.
func (s *CourseService) ListSignups(user *models.User, page, limit int) ([]courseModels.CourseSignup, int64, error) {
	query := s.db.Model(&courseModels.CourseSignup{})
	if !user.IsStaff() {
		query = query.Where("user_id = ?", user.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit

	var signups []courseModels.CourseSignup
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&signups).Error
	if err != nil {
		return nil, 0, err
	}

	return signups, total, nil
}

// SignupStats summarizes signup volume for one course.
type SignupStats struct {
	Total     int64 `json:"total"`
	Today     int64 `json:"today"`
	ThisMonth int64 `json:"thisMonth"`
}

// CourseSignupStats counts a course's signups in total, today and this month.
func (s *CourseService) CourseSignupStats(courseID uint) (*SignupStats, error) {
	var crs courseModels.Course
	if err := s.db.First(&crs, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Course")
		}
		return nil, err
	}

	stats := &SignupStats{}
	base := s.db.Model(&courseModels.CourseSignup{}).Where("course_id = ?", courseID)

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	today := now.BeginningOfDay()
	if err := base.Session(&gorm.Session{}).Where("created_at >= ?", today).Count(&stats.Today).Error; err != nil {
		return nil, err
	}

	month := now.BeginningOfMonth()
	if err := base.Session(&gorm.Session{}).Where("created_at >= ?", month).Count(&stats.ThisMonth).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
