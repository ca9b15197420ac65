package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alpha53/virtualteacher/internal/models"
	"github.com/alpha53/virtualteacher/internal/repositories"
	"github.com/alpha53/virtualteacher/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	policy    *AuthorizationPolicy
	notifier  NotificationEventService
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, notifier NotificationEventService) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		policy:    NewAuthorizationPolicy(),
		notifier:  notifier,
	}
}

// Register creates a user account. Only "User" and "Teacher" are accepted
// as requested roles, in any casing; anything else is rejected. A teacher
// registration lands as PendingTeacher until an admin approves it, and the
// admins are notified through an event.
func (s *userService) Register(ctx context.Context, req *RegisterUserRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	var roleType string
	switch {
	case strings.EqualFold(req.Role, "teacher"):
		roleType = models.RolePendingTeacher
	case strings.EqualFold(req.Role, "user"):
		roleType = models.RoleStudent
	default:
		return nil, fmt.Errorf("%w: %s", ErrRoleNotFound, req.Role)
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	role, err := s.repo.User().GetRole(ctx, roleType)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrRoleNotFound, roleType)
		}
		return nil, err
	}

	user := &models.User{
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		PictureURL: req.PictureURL,
		RoleID:     role.ID,
		Role:       *role,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"email", user.Email,
		"role", role.Type)

	if role.Type == models.RolePendingTeacher {
		if err := s.notifier.NotifyTeacherRegistrationPending(ctx, user); err != nil {
			s.logger.Warn("teacher registration event not delivered",
				"user_id", user.ID,
				"error", err)
		}
	}

	return user, nil
}

// Update edits the actor's own profile. The desired email and role come
// from the payload and are checked against the stored values; neither may
// change.
func (s *userService) Update(ctx context.Context, req *UpdateUserRequest, desiredEmail, desiredRole string, actor *models.User) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	if err := s.policy.CanUpdateProfile(actor, desiredEmail, desiredRole); err != nil {
		return nil, err
	}

	updated := *actor
	if req.Password != nil {
		updated.Password = *req.Password
	}
	if req.FirstName != nil {
		updated.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		updated.LastName = *req.LastName
	}
	if req.PictureURL != nil {
		updated.PictureURL = req.PictureURL
	}

	if err := s.repo.User().Update(ctx, &updated); err != nil {
		return nil, err
	}

	s.logger.Info("user profile updated", "user_id", actor.ID)

	return &updated, nil
}

// Delete removes a user. A user may delete themselves, an admin may delete
// anyone, but a teacher who still owns courses stays until the courses are
// transferred.
func (s *userService) Delete(ctx context.Context, id uint, actor *models.User) error {
	if err := s.policy.CanDeleteUser(actor, id); err != nil {
		return err
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		target, err := txRepo.User().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return err
		}

		if target.Role.Is(models.RoleTeacher) {
			created, err := txRepo.Course().GetByCreator(ctx, id)
			if err != nil {
				return err
			}
			if err := s.policy.CanDeleteTeacher(target, len(created)); err != nil {
				return err
			}
		}

		return txRepo.User().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deleted",
		"user_id", id,
		"actor_id", actor.ID)

	return nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.User().GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetAll(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	return s.repo.User().List(ctx, filters)
}

// TransferTeacherCourses moves every course of one teacher to another so
// the first teacher becomes deletable
func (s *userService) TransferTeacherCourses(ctx context.Context, fromTeacherID, toTeacherID uint, actor *models.User) error {
	if err := s.policy.CanTransferCourses(actor); err != nil {
		return err
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if _, err := txRepo.User().GetByID(ctx, fromTeacherID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return err
		}
		if _, err := txRepo.User().GetByID(ctx, toTeacherID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return err
		}

		return txRepo.Course().TransferCourses(ctx, fromTeacherID, toTeacherID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("teacher courses transferred",
		"from_teacher_id", fromTeacherID,
		"to_teacher_id", toTeacherID,
		"actor_id", actor.ID)

	return nil
}
