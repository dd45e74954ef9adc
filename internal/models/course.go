package models

import "time"

type Course struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	Title         string  `json:"title" gorm:"not null;size:200"`
	CoverImageURL *string `json:"cover_image_url" gorm:"size:500"`
	TotalLessons  int     `json:"total_lessons" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

// Enrollment links a profile to a course. Rows are written by the course
// catalogue; this service only reads them.
type Enrollment struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	ProfileID        string    `json:"profile_id" gorm:"not null;index;size:255"`
	CourseID         uint      `json:"course_id" gorm:"not null;index"`
	EnrolledAt       time.Time `json:"enrolled_at" gorm:"not null"`
	CompletedLessons int       `json:"completed_lessons" gorm:"not null;default:0"`

	Course Course `json:"course" gorm:"foreignKey:CourseID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// IsCourseCompleted reports whether every lesson of a non-empty course is done.
func IsCourseCompleted(totalLessons, completedLessons int) bool {
	return totalLessons > 0 && completedLessons >= totalLessons
}

// EnrollmentRecord is the normalized enrollment shown on profile and certification pages
type EnrollmentRecord struct {
	ID               uint      `json:"id"`
	CourseID         uint      `json:"course_id"`
	Title            string    `json:"title"`
	Date             time.Time `json:"date"`
	Image            string    `json:"image"`
	CompletedLessons int       `json:"completed_lessons"`
	TotalLessons     int       `json:"total_lessons"`
	Completed        bool      `json:"completed"`
}

func NormalizeEnrollment(e Enrollment, fallbackImage string) EnrollmentRecord {
	image := fallbackImage
	if e.Course.CoverImageURL != nil && *e.Course.CoverImageURL != "" {
		image = *e.Course.CoverImageURL
	}
	return EnrollmentRecord{
		ID:               e.ID,
		CourseID:         e.CourseID,
		Title:            e.Course.Title,
		Date:             e.EnrolledAt,
		Image:            image,
		CompletedLessons: e.CompletedLessons,
		TotalLessons:     e.Course.TotalLessons,
		Completed:        IsCourseCompleted(e.Course.TotalLessons, e.CompletedLessons),
	}
}

// NormalizeEnrollments returns all records plus the completed subset, both in input order.
func NormalizeEnrollments(enrollments []Enrollment, fallbackImage string) (all, completed []EnrollmentRecord) {
	all = make([]EnrollmentRecord, 0, len(enrollments))
	completed = make([]EnrollmentRecord, 0)
	for _, e := range enrollments {
		rec := NormalizeEnrollment(e, fallbackImage)
		all = append(all, rec)
		if rec.Completed {
			completed = append(completed, rec)
		}
	}
	return all, completed
}
