package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alpha53/virtualteacher/internal/models"
	"github.com/alpha53/virtualteacher/internal/repositories"
	"github.com/alpha53/virtualteacher/internal/validator"
)

type lectureService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	policy    *AuthorizationPolicy
}

func NewLectureService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) LectureService {
	return &lectureService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		policy:    NewAuthorizationPolicy(),
	}
}

// Create adds a lecture to a course; only the course creator or an admin
// may do so
func (s *lectureService) Create(ctx context.Context, courseID uint, req *LectureCreateRequest, actor *models.User) (*models.Lecture, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	lecture := &models.Lecture{
		Title:         req.Title,
		VideoURL:      req.VideoURL,
		AssignmentURL: req.AssignmentURL,
		CourseID:      courseID,
	}
	if req.Description != nil {
		lecture.Description = &models.LectureDescription{Body: *req.Description}
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		course, err := txRepo.Course().GetByID(ctx, courseID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCourseNotFound
			}
			return err
		}

		if err := s.policy.CanModifyCourse(actor, course); err != nil {
			return err
		}

		return txRepo.Lecture().Create(ctx, lecture)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("lecture created",
		"lecture_id", lecture.ID,
		"course_id", courseID,
		"actor_id", actor.ID)

	return lecture, nil
}

// Update replaces the lecture row and reconciles its description
func (s *lectureService) Update(ctx context.Context, id uint, req *LectureUpdateRequest, actor *models.User) (*models.Lecture, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	var lecture *models.Lecture
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		current, err := txRepo.Lecture().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrLectureNotFound
			}
			return err
		}

		course, err := txRepo.Course().GetByID(ctx, current.CourseID)
		if err != nil {
			return err
		}
		if err := s.policy.CanModifyCourse(actor, course); err != nil {
			return err
		}

		lecture = &models.Lecture{
			ID:            id,
			Title:         req.Title,
			VideoURL:      req.VideoURL,
			AssignmentURL: req.AssignmentURL,
			CourseID:      current.CourseID,
		}
		if req.Description != nil {
			lecture.Description = &models.LectureDescription{LectureID: id, Body: *req.Description}
		}

		return txRepo.Lecture().Update(ctx, lecture)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("lecture updated",
		"lecture_id", id,
		"actor_id", actor.ID)

	return lecture, nil
}

func (s *lectureService) Delete(ctx context.Context, id uint, actor *models.User) error {
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		current, err := txRepo.Lecture().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrLectureNotFound
			}
			return err
		}

		course, err := txRepo.Course().GetByID(ctx, current.CourseID)
		if err != nil {
			return err
		}
		if err := s.policy.CanModifyCourse(actor, course); err != nil {
			return err
		}

		return txRepo.Lecture().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("lecture deleted",
		"lecture_id", id,
		"actor_id", actor.ID)

	return nil
}

func (s *lectureService) GetByID(ctx context.Context, id uint) (*models.Lecture, error) {
	lecture, err := s.repo.Lecture().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLectureNotFound
		}
		return nil, err
	}
	return lecture, nil
}

func (s *lectureService) GetAllByCourse(ctx context.Context, courseID uint) ([]*models.Lecture, error) {
	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return s.repo.Lecture().GetAllByCourse(ctx, courseID)
}

// GetAssignmentURL hands the assignment to an enrolled student, the course
// creator or an admin
func (s *lectureService) GetAssignmentURL(ctx context.Context, lectureID uint, actor *models.User) (string, error) {
	lecture, err := s.GetByID(ctx, lectureID)
	if err != nil {
		return "", err
	}

	course, err := s.repo.Course().GetByID(ctx, lecture.CourseID)
	if err != nil {
		return "", err
	}

	if course.CreatorID != actor.ID && !actor.Role.Is(models.RoleAdmin) {
		enrolled, err := s.repo.Course().IsEnrolled(ctx, actor.ID, course.ID)
		if err != nil {
			return "", err
		}
		if !enrolled {
			return "", NewPermissionError(actor.ID, lectureID, "lecture", "assignment", ReasonNotEnrolled)
		}
	}

	return s.repo.Lecture().GetAssignmentURL(ctx, lectureID)
}
