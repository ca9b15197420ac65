package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alpha53/virtualteacher/internal/models"
	"github.com/alpha53/virtualteacher/internal/repositories"
	"github.com/alpha53/virtualteacher/internal/validator"
)

type courseService struct {
	repo       repositories.Repository
	logger     *slog.Logger
	validator  *validator.Validator
	policy     *AuthorizationPolicy
	enrollment EnrollmentService
	notifier   NotificationEventService
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, enrollment EnrollmentService, notifier NotificationEventService) CourseService {
	return &courseService{
		repo:       repo,
		logger:     logger,
		validator:  validator,
		policy:     NewAuthorizationPolicy(),
		enrollment: enrollment,
		notifier:   notifier,
	}
}

// Create creates a course for the acting teacher or admin. The duplicate
// probe and the insert run in one transaction so a concurrent create with
// the same title cannot slip between them.
func (s *courseService) Create(ctx context.Context, req *CourseCreateRequest, actor *models.User) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	course := &models.Course{
		Title:        req.Title,
		TopicID:      req.TopicID,
		StartDate:    req.StartDate,
		CreatorID:    actor.ID,
		Published:    req.Published,
		PassingGrade: req.PassingGrade,
	}
	if req.Description != nil {
		course.Description = &models.CourseDescription{Body: *req.Description}
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := checkDuplicateTitle(ctx, txRepo, req.Title, 0); err != nil {
			return err
		}
		if err := s.policy.CanCreateCourse(actor); err != nil {
			return err
		}
		return txRepo.Course().Create(ctx, course)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("course created",
		"course_id", course.ID,
		"title", course.Title,
		"creator_id", actor.ID)

	if course.Published {
		if err := s.notifier.NotifyCoursePublished(ctx, course); err != nil {
			s.logger.Warn("course published event not delivered",
				"course_id", course.ID,
				"error", err)
		}
	}

	return course, nil
}

// Update replaces the course row and reconciles its description. The stored
// creator is kept; a payload cannot reassign ownership.
func (s *courseService) Update(ctx context.Context, id uint, req *CourseUpdateRequest, actor *models.User) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	var course *models.Course
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := checkDuplicateTitle(ctx, txRepo, req.Title, id); err != nil {
			return err
		}

		current, err := txRepo.Course().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCourseNotFound
			}
			return err
		}

		if err := s.policy.CanModifyCourse(actor, current); err != nil {
			return err
		}

		course = &models.Course{
			ID:           id,
			Title:        req.Title,
			TopicID:      req.TopicID,
			StartDate:    req.StartDate,
			CreatorID:    current.CreatorID,
			Published:    req.Published,
			PassingGrade: req.PassingGrade,
		}
		if req.Description != nil {
			course.Description = &models.CourseDescription{CourseID: id, Body: *req.Description}
		}

		return txRepo.Course().Update(ctx, course)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("course updated",
		"course_id", id,
		"actor_id", actor.ID)

	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id uint, actor *models.User) error {
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		current, err := txRepo.Course().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCourseNotFound
			}
			return err
		}

		if err := s.policy.CanDeleteCourse(actor, current); err != nil {
			return err
		}

		return txRepo.Course().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("course deleted",
		"course_id", id,
		"actor_id", actor.ID)

	return nil
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *courseService) GetAll(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, error) {
	return s.repo.Course().List(ctx, filters)
}

func (s *courseService) GetByCreator(ctx context.Context, creatorID uint) ([]*models.Course, error) {
	return s.repo.Course().GetByCreator(ctx, creatorID)
}

func (s *courseService) GetOngoingByUser(ctx context.Context, userID uint) ([]*models.Course, error) {
	return s.repo.Course().GetOngoingByUser(ctx, userID)
}

func (s *courseService) GetCompletedByUser(ctx context.Context, userID uint) ([]*models.Course, error) {
	return s.repo.Course().GetCompletedByUser(ctx, userID)
}

func (s *courseService) GetEnrolledStudents(ctx context.Context, courseID uint, actor *models.User) ([]*models.User, error) {
	course, err := s.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanModifyCourse(actor, course); err != nil {
		return nil, err
	}
	return s.repo.Course().GetEnrolledStudents(ctx, courseID)
}

// Enroll puts a student into a published course. Enrolling twice is not
// guarded here; the second row is the caller's problem.
func (s *courseService) Enroll(ctx context.Context, courseID uint, actor *models.User) error {
	course, err := s.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if !course.Published {
		return ErrCourseNotPublished
	}
	if err := s.policy.CanEnroll(actor, courseID); err != nil {
		return err
	}

	return s.enrollment.Enroll(ctx, actor.ID, courseID)
}

func (s *courseService) Complete(ctx context.Context, courseID, userID uint) error {
	course, err := s.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	if err := s.enrollment.Complete(ctx, userID, courseID); err != nil {
		return err
	}

	if err := s.notifier.NotifyCourseCompleted(ctx, course, userID); err != nil {
		s.logger.Warn("course completed event not delivered",
			"course_id", courseID,
			"user_id", userID,
			"error", err)
	}

	return nil
}

func (s *courseService) RemoveStudent(ctx context.Context, courseID, userID uint, actor *models.User) error {
	course, err := s.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if err := s.policy.CanModifyCourse(actor, course); err != nil {
		return err
	}

	return s.enrollment.Remove(ctx, userID, courseID)
}

// Rate appends a rating from a student who completed the course. Rating the
// same course again adds a second row; the average simply widens.
func (s *courseService) Rate(ctx context.Context, courseID uint, req *RateCourseRequest, actor *models.User) error {
	if err := s.validator.Validate(req); err != nil {
		return fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	if _, err := s.GetByID(ctx, courseID); err != nil {
		return err
	}

	completed, err := s.enrollment.HasCompleted(ctx, actor.ID, courseID)
	if err != nil {
		return err
	}
	if !completed {
		return NewPermissionError(actor.ID, courseID, "course", "rate", ReasonRateCompletedOnly)
	}

	rating := &models.Rating{
		CourseID: courseID,
		UserID:   actor.ID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := s.repo.Course().Rate(ctx, rating); err != nil {
		return err
	}

	s.logger.Info("course rated",
		"course_id", courseID,
		"user_id", actor.ID,
		"rating", req.Rating)

	return nil
}

func (s *courseService) GetRatings(ctx context.Context, courseID uint) ([]*models.Rating, error) {
	if _, err := s.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.repo.Course().GetRatings(ctx, courseID)
}

// checkDuplicateTitle probes for a course with the same title. Not finding
// one means no duplicate; finding the row being updated itself means no
// duplicate either.
func checkDuplicateTitle(ctx context.Context, repo repositories.Repository, title string, selfID uint) error {
	existing, err := repo.Course().GetByTitle(ctx, title)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return ErrDuplicateCourseTitle
}
