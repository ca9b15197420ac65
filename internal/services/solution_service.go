package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alpha53/virtualteacher/internal/models"
	"github.com/alpha53/virtualteacher/internal/repositories"
	"github.com/alpha53/virtualteacher/internal/validator"
)

type solutionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	policy    *AuthorizationPolicy
	notifier  NotificationEventService
}

func NewSolutionService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, notifier NotificationEventService) SolutionService {
	return &solutionService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		policy:    NewAuthorizationPolicy(),
		notifier:  notifier,
	}
}

// Submit stores a student's solution for a lecture assignment. A second
// submission replaces the file and drops any earlier grade.
func (s *solutionService) Submit(ctx context.Context, lectureID uint, req *SubmitSolutionRequest, actor *models.User) (*models.Solution, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	lecture, err := s.repo.Lecture().GetByID(ctx, lectureID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLectureNotFound
		}
		return nil, err
	}

	enrolled, err := s.repo.Course().IsEnrolled(ctx, actor.ID, lecture.CourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, NewPermissionError(actor.ID, lectureID, "solution", "submit", ReasonNotEnrolled)
	}

	existing, err := s.repo.Solution().Get(ctx, actor.ID, lectureID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, err
	}

	if err == nil {
		if err := s.repo.Solution().UpdateURL(ctx, actor.ID, lectureID, req.FileURL); err != nil {
			return nil, err
		}
		existing.FileURL = req.FileURL
		existing.Grade = nil

		s.logger.Info("solution replaced",
			"solution_id", existing.ID,
			"lecture_id", lectureID,
			"user_id", actor.ID)

		return existing, nil
	}

	solution := &models.Solution{
		UserID:    actor.ID,
		LectureID: lectureID,
		FileURL:   req.FileURL,
	}
	if err := s.repo.Solution().Add(ctx, solution); err != nil {
		return nil, err
	}

	s.logger.Info("solution submitted",
		"solution_id", solution.ID,
		"lecture_id", lectureID,
		"user_id", actor.ID)

	return solution, nil
}

// Grade scores a student's solution. When the grade completes the course,
// meaning every lecture has a graded solution and the average reaches the
// passing grade, the enrollment is flipped to completed in the same
// transaction.
func (s *solutionService) Grade(ctx context.Context, lectureID, studentID uint, req *GradeSolutionRequest, actor *models.User) (*models.Solution, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	var solution *models.Solution
	var course *models.Course
	var completed bool

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		lecture, err := txRepo.Lecture().GetByID(ctx, lectureID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrLectureNotFound
			}
			return err
		}

		course, err = txRepo.Course().GetByID(ctx, lecture.CourseID)
		if err != nil {
			return err
		}
		if err := s.policy.CanGradeSolution(actor, course); err != nil {
			return err
		}

		solution, err = txRepo.Solution().Get(ctx, studentID, lectureID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrSolutionNotFound
			}
			return err
		}

		if err := txRepo.Solution().AddGrade(ctx, solution.ID, req.Grade); err != nil {
			return err
		}
		grade := req.Grade
		solution.Grade = &grade

		completed, err = s.courseCompleted(ctx, txRepo, course, studentID, lectureID, req.Grade)
		if err != nil {
			return err
		}
		if completed {
			return txRepo.Course().Complete(ctx, studentID, course.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("solution graded",
		"solution_id", solution.ID,
		"lecture_id", lectureID,
		"student_id", studentID,
		"grade", req.Grade)

	if err := s.notifier.NotifySolutionGraded(ctx, solution); err != nil {
		s.logger.Warn("solution graded event not delivered",
			"solution_id", solution.ID,
			"error", err)
	}
	if completed {
		if err := s.notifier.NotifyCourseCompleted(ctx, course, studentID); err != nil {
			s.logger.Warn("course completed event not delivered",
				"course_id", course.ID,
				"user_id", studentID,
				"error", err)
		}
	}

	return solution, nil
}

// courseCompleted reports whether the student now has a graded solution for
// every lecture of the course with an average at or above the passing
// grade. The grade just written may not be visible through the repository
// yet, so it is substituted for the current lecture.
func (s *solutionService) courseCompleted(ctx context.Context, txRepo repositories.Repository, course *models.Course, studentID, gradedLectureID uint, grade float64) (bool, error) {
	lectures, err := txRepo.Lecture().GetAllByCourse(ctx, course.ID)
	if err != nil {
		return false, err
	}
	if len(lectures) == 0 {
		return false, nil
	}

	var sum float64
	for _, lecture := range lectures {
		if lecture.ID == gradedLectureID {
			sum += grade
			continue
		}

		solution, err := txRepo.Solution().Get(ctx, studentID, lecture.ID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return false, nil
			}
			return false, err
		}
		if solution.Grade == nil {
			return false, nil
		}
		sum += *solution.Grade
	}

	avg := sum / float64(len(lectures))
	return avg >= course.PassingGrade, nil
}

// GetByLecture lists submissions for a lecture; creator and admin only
func (s *solutionService) GetByLecture(ctx context.Context, lectureID uint, actor *models.User) ([]*models.Solution, error) {
	lecture, err := s.repo.Lecture().GetByID(ctx, lectureID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLectureNotFound
		}
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, lecture.CourseID)
	if err != nil {
		return nil, err
	}
	if course.CreatorID != actor.ID && !actor.Role.Is(models.RoleAdmin) {
		return nil, NewPermissionError(actor.ID, lectureID, "solution", "list", ReasonNotAuthorizedToView)
	}

	return s.repo.Solution().GetAllByLecture(ctx, lectureID)
}

// GetByUser lists a student's submissions; the student themselves or an
// admin
func (s *solutionService) GetByUser(ctx context.Context, userID uint, actor *models.User) ([]*models.Solution, error) {
	if actor.ID != userID && !actor.Role.Is(models.RoleAdmin) {
		return nil, NewPermissionError(actor.ID, userID, "solution", "list", ReasonNotAuthorizedToView)
	}

	return s.repo.Solution().GetAllByUser(ctx, userID)
}
