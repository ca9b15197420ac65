package validator

import "gorm.io/datatypes"

// RegisterUserRequest represents the request structure for user registration
type RegisterUserRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8"`
	FirstName  string  `json:"first_name" validate:"required,max=100"`
	LastName   string  `json:"last_name" validate:"required,max=100"`
	PictureURL *string `json:"picture_url" validate:"omitempty,url"`
	Role       string  `json:"role" validate:"required"`
}

// UpdateUserRequest represents the request structure for profile updates.
// Email and role are intentionally absent; both are immutable.
type UpdateUserRequest struct {
	Password   *string `json:"password" validate:"omitempty,min=8"`
	FirstName  *string `json:"first_name" validate:"omitempty,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,max=100"`
	PictureURL *string `json:"picture_url" validate:"omitempty,url"`
}

// CourseCreateRequest represents the request structure for creating courses
type CourseCreateRequest struct {
	Title        string         `json:"title" validate:"required,max=200"`
	TopicID      uint           `json:"topic_id" validate:"required"`
	StartDate    datatypes.Date `json:"start_date"`
	Published    bool           `json:"published"`
	PassingGrade float64        `json:"passing_grade" validate:"omitempty,grade_range"`
	Description  *string        `json:"description" validate:"omitempty,max=2000"`
}

// CourseUpdateRequest represents the request structure for updating courses
type CourseUpdateRequest struct {
	Title        string         `json:"title" validate:"required,max=200"`
	TopicID      uint           `json:"topic_id" validate:"required"`
	StartDate    datatypes.Date `json:"start_date"`
	Published    bool           `json:"published"`
	PassingGrade float64        `json:"passing_grade" validate:"omitempty,grade_range"`
	Description  *string        `json:"description" validate:"omitempty,max=2000"`
}

// RateCourseRequest represents the request structure for rating a course
type RateCourseRequest struct {
	Rating  float64 `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=500"`
}

// LectureCreateRequest represents the request structure for creating lectures
type LectureCreateRequest struct {
	Title         string  `json:"title" validate:"required,max=200"`
	VideoURL      string  `json:"video_url" validate:"required,url"`
	AssignmentURL string  `json:"assignment_url" validate:"required,url"`
	Description   *string `json:"description" validate:"omitempty,max=2000"`
}

// LectureUpdateRequest represents the request structure for updating lectures
type LectureUpdateRequest struct {
	Title         string  `json:"title" validate:"required,max=200"`
	VideoURL      string  `json:"video_url" validate:"required,url"`
	AssignmentURL string  `json:"assignment_url" validate:"required,url"`
	Description   *string `json:"description" validate:"omitempty,max=2000"`
}

// SubmitSolutionRequest represents the request structure for submitting a solution
type SubmitSolutionRequest struct {
	FileURL string `json:"file_url" validate:"required,url"`
}

// GradeSolutionRequest represents the request structure for grading a solution
type GradeSolutionRequest struct {
	Grade float64 `json:"grade" validate:"required,grade_range"`
}
