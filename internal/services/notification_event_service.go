package services

import (
	"context"
	"log/slog"

	"github.com/alpha53/virtualteacher/internal/events"
	"github.com/alpha53/virtualteacher/internal/models"
	"github.com/alpha53/virtualteacher/internal/repositories"
	"github.com/alpha53/virtualteacher/internal/validator"
)

// Event payloads carried in the envelope Data field
type TeacherRegistrationPendingEvent struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type CoursePublishedEvent struct {
	CourseID  uint   `json:"course_id"`
	Title     string `json:"title"`
	CreatorID uint   `json:"creator_id"`
}

type CourseCompletedEvent struct {
	CourseID uint   `json:"course_id"`
	Title    string `json:"title"`
	UserID   uint   `json:"user_id"`
}

type SolutionGradedEvent struct {
	SolutionID uint    `json:"solution_id"`
	UserID     uint    `json:"user_id"`
	LectureID  uint    `json:"lecture_id"`
	Grade      float64 `json:"grade"`
}

type notificationEventService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewNotificationEventService(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) NotificationEventService {
	return &notificationEventService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      validator,
	}
}

// NotifyTeacherRegistrationPending tells the admins a teacher registration
// is waiting for review
func (s *notificationEventService) NotifyTeacherRegistrationPending(ctx context.Context, user *models.User) error {
	event := events.NewEvent(events.TypeTeacherRegistrationPending, TeacherRegistrationPendingEvent{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})

	return s.publish(ctx, event)
}

func (s *notificationEventService) NotifyCoursePublished(ctx context.Context, course *models.Course) error {
	event := events.NewEvent(events.TypeCoursePublished, CoursePublishedEvent{
		CourseID:  course.ID,
		Title:     course.Title,
		CreatorID: course.CreatorID,
	})

	return s.publish(ctx, event)
}

func (s *notificationEventService) NotifyCourseCompleted(ctx context.Context, course *models.Course, userID uint) error {
	event := events.NewEvent(events.TypeCourseCompleted, CourseCompletedEvent{
		CourseID: course.ID,
		Title:    course.Title,
		UserID:   userID,
	})

	return s.publish(ctx, event)
}

func (s *notificationEventService) NotifySolutionGraded(ctx context.Context, solution *models.Solution) error {
	grade := 0.0
	if solution.Grade != nil {
		grade = *solution.Grade
	}

	event := events.NewEvent(events.TypeSolutionGraded, SolutionGradedEvent{
		SolutionID: solution.ID,
		UserID:     solution.UserID,
		LectureID:  solution.LectureID,
		Grade:      grade,
	})

	return s.publish(ctx, event)
}

func (s *notificationEventService) publish(ctx context.Context, event events.Event) error {
	if err := s.eventPublisher.Publish(ctx, events.DefaultTopic, event); err != nil {
		s.logger.Error("failed to publish event",
			"error", err,
			"event_type", event.Type,
			"event_id", event.ID)
		return err
	}

	s.logger.Info("event published",
		"event_type", event.Type,
		"event_id", event.ID)

	return nil
}
