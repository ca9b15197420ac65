package services

import (
	"context"

	"github.com/alpha53/virtualteacher/internal/models"
	"github.com/alpha53/virtualteacher/internal/repositories"
	"github.com/alpha53/virtualteacher/internal/validator"
)

// Request DTO aliases so callers only import the services package
type (
	RegisterUserRequest   = validator.RegisterUserRequest
	UpdateUserRequest     = validator.UpdateUserRequest
	CourseCreateRequest   = validator.CourseCreateRequest
	CourseUpdateRequest   = validator.CourseUpdateRequest
	RateCourseRequest     = validator.RateCourseRequest
	LectureCreateRequest  = validator.LectureCreateRequest
	LectureUpdateRequest  = validator.LectureUpdateRequest
	SubmitSolutionRequest = validator.SubmitSolutionRequest
	GradeSolutionRequest  = validator.GradeSolutionRequest
)

// CourseService covers the course catalog use cases
type CourseService interface {
	Create(ctx context.Context, req *CourseCreateRequest, actor *models.User) (*models.Course, error)
	Update(ctx context.Context, id uint, req *CourseUpdateRequest, actor *models.User) (*models.Course, error)
	Delete(ctx context.Context, id uint, actor *models.User) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	GetAll(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, error)
	GetByCreator(ctx context.Context, creatorID uint) ([]*models.Course, error)
	GetOngoingByUser(ctx context.Context, userID uint) ([]*models.Course, error)
	GetCompletedByUser(ctx context.Context, userID uint) ([]*models.Course, error)
	GetEnrolledStudents(ctx context.Context, courseID uint, actor *models.User) ([]*models.User, error)

	Enroll(ctx context.Context, courseID uint, actor *models.User) error
	Complete(ctx context.Context, courseID, userID uint) error
	RemoveStudent(ctx context.Context, courseID, userID uint, actor *models.User) error

	Rate(ctx context.Context, courseID uint, req *RateCourseRequest, actor *models.User) error
	GetRatings(ctx context.Context, courseID uint) ([]*models.Rating, error)
}

// UserService covers the user directory use cases
type UserService interface {
	Register(ctx context.Context, req *RegisterUserRequest) (*models.User, error)
	Update(ctx context.Context, req *UpdateUserRequest, desiredEmail, desiredRole string, actor *models.User) (*models.User, error)
	Delete(ctx context.Context, id uint, actor *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetAll(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error)
	TransferTeacherCourses(ctx context.Context, fromTeacherID, toTeacherID uint, actor *models.User) error
}

// LectureService covers lecture management within a course
type LectureService interface {
	Create(ctx context.Context, courseID uint, req *LectureCreateRequest, actor *models.User) (*models.Lecture, error)
	Update(ctx context.Context, id uint, req *LectureUpdateRequest, actor *models.User) (*models.Lecture, error)
	Delete(ctx context.Context, id uint, actor *models.User) error
	GetByID(ctx context.Context, id uint) (*models.Lecture, error)
	GetAllByCourse(ctx context.Context, courseID uint) ([]*models.Lecture, error)
	GetAssignmentURL(ctx context.Context, lectureID uint, actor *models.User) (string, error)
}

// SolutionService covers assignment submission and grading
type SolutionService interface {
	Submit(ctx context.Context, lectureID uint, req *SubmitSolutionRequest, actor *models.User) (*models.Solution, error)
	Grade(ctx context.Context, lectureID, studentID uint, req *GradeSolutionRequest, actor *models.User) (*models.Solution, error)
	GetByLecture(ctx context.Context, lectureID uint, actor *models.User) ([]*models.Solution, error)
	GetByUser(ctx context.Context, userID uint, actor *models.User) ([]*models.Solution, error)
}

// EnrollmentService is the enrollment state machine over course_user rows
type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID uint) error
	Complete(ctx context.Context, userID, courseID uint) error
	Remove(ctx context.Context, userID, courseID uint) error
	IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error)
	HasCompleted(ctx context.Context, userID, courseID uint) (bool, error)
}

// NotificationEventService publishes the domain events
type NotificationEventService interface {
	NotifyTeacherRegistrationPending(ctx context.Context, user *models.User) error
	NotifyCoursePublished(ctx context.Context, course *models.Course) error
	NotifyCourseCompleted(ctx context.Context, course *models.Course, userID uint) error
	NotifySolutionGraded(ctx context.Context, solution *models.Solution) error
}

// ExportService produces xlsx reports
type ExportService interface {
	ExportCourseCatalog(ctx context.Context, filters repositories.CourseFilters) ([]byte, error)
	ExportGradebook(ctx context.Context, courseID uint, actor *models.User) ([]byte, error)
}

// ServiceManager wires and exposes all services
type ServiceManager interface {
	Course() CourseService
	User() UserService
	Lecture() LectureService
	Solution() SolutionService
	Enrollment() EnrollmentService
	Notification() NotificationEventService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
