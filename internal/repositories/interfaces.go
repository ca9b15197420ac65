package repositories

import (
	"context"

	"github.com/alpha53/virtualteacher/internal/models"
)

// CourseRepository covers the course aggregate: the course row itself, its
// description, ratings and enrollment rows.
type CourseRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	GetByTitle(ctx context.Context, title string) (*models.Course, error)
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, error)
	GetByCreator(ctx context.Context, creatorID uint) ([]*models.Course, error)
	GetOngoingByUser(ctx context.Context, userID uint) ([]*models.Course, error)
	GetCompletedByUser(ctx context.Context, userID uint) ([]*models.Course, error)
	GetEnrolledStudents(ctx context.Context, courseID uint) ([]*models.User, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
	TransferCourses(ctx context.Context, fromTeacherID, toTeacherID uint) error

	Rate(ctx context.Context, rating *models.Rating) error
	GetRatings(ctx context.Context, courseID uint) ([]*models.Rating, error)

	Enroll(ctx context.Context, userID, courseID uint) error
	Complete(ctx context.Context, userID, courseID uint) error
	RemoveStudent(ctx context.Context, userID, courseID uint) error
	IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error)
	HasCompleted(ctx context.Context, userID, courseID uint) (bool, error)

	CountPublished(ctx context.Context) (int64, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	GetRole(ctx context.Context, roleType string) (*models.Role, error)
}

type LectureRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Lecture, error)
	GetAllByCourse(ctx context.Context, courseID uint) ([]*models.Lecture, error)
	Create(ctx context.Context, lecture *models.Lecture) error
	Update(ctx context.Context, lecture *models.Lecture) error
	Delete(ctx context.Context, id uint) error
	GetAssignmentURL(ctx context.Context, lectureID uint) (string, error)
}

type SolutionRepository interface {
	Get(ctx context.Context, userID, lectureID uint) (*models.Solution, error)
	GetAllByLecture(ctx context.Context, lectureID uint) ([]*models.Solution, error)
	GetAllByUser(ctx context.Context, userID uint) ([]*models.Solution, error)
	Add(ctx context.Context, solution *models.Solution) error
	UpdateURL(ctx context.Context, userID, lectureID uint, fileURL string) error
	AddGrade(ctx context.Context, solutionID uint, grade float64) error
}
