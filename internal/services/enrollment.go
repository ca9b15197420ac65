package services

import (
	"context"
	"log/slog"

	"github.com/alpha53/virtualteacher/internal/repositories"
)

// enrollmentService drives the course_user state machine. A row starts as
// ongoing, flips to completed exactly once, or disappears when the student
// is removed. Enroll does not guard against duplicates; callers who need
// uniqueness enforce it elsewhere.
type enrollmentService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewEnrollmentService(repo repositories.Repository, logger *slog.Logger) EnrollmentService {
	return &enrollmentService{
		repo:   repo,
		logger: logger,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID uint) error {
	if err := s.repo.Course().Enroll(ctx, userID, courseID); err != nil {
		return err
	}

	s.logger.Info("user enrolled",
		"user_id", userID,
		"course_id", courseID)

	return nil
}

// Complete marks the enrollment finished. Completing a non-existent
// enrollment is a no-op, matching the zero-rows-affected update underneath.
func (s *enrollmentService) Complete(ctx context.Context, userID, courseID uint) error {
	if err := s.repo.Course().Complete(ctx, userID, courseID); err != nil {
		return err
	}

	s.logger.Info("course completed",
		"user_id", userID,
		"course_id", courseID)

	return nil
}

func (s *enrollmentService) Remove(ctx context.Context, userID, courseID uint) error {
	if err := s.repo.Course().RemoveStudent(ctx, userID, courseID); err != nil {
		return err
	}

	s.logger.Info("student removed from course",
		"user_id", userID,
		"course_id", courseID)

	return nil
}

func (s *enrollmentService) IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error) {
	return s.repo.Course().IsEnrolled(ctx, userID, courseID)
}

func (s *enrollmentService) HasCompleted(ctx context.Context, userID, courseID uint) (bool, error) {
	return s.repo.Course().HasCompleted(ctx, userID, courseID)
}
