package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/alpha53/virtualteacher/internal/cache"
	"github.com/alpha53/virtualteacher/internal/models"
	"github.com/alpha53/virtualteacher/internal/repositories"
)

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	courses      repositories.CourseRepository
}

// NewUserPostgreSQL builds the user repository. The course repository is
// needed to attach a user's ongoing courses on single lookups.
func NewUserPostgreSQL(db *gorm.DB, redisClient *redis.Client, courses repositories.CourseRepository) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
		courses:      courses,
	}
}

// GetByID retrieves a user by ID with the ongoing courses attached
func (u *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).
		Preload("Role").
		First(&user, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	courses, err := u.courses.GetOngoingByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Courses = make([]models.Course, 0, len(courses))
	for _, c := range courses {
		user.Courses = append(user.Courses, *c)
	}

	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).
		Preload("Role").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// List retrieves users matching the filter specification
func (u *UserPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	query := u.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Preload("Role")

	if filters.Email != nil {
		query = query.Where("users.email LIKE ?", "%"+*filters.Email+"%")
	}
	if filters.FirstName != nil {
		query = query.Where("users.first_name LIKE ?", "%"+*filters.FirstName+"%")
	}
	if filters.LastName != nil {
		query = query.Where("users.last_name LIKE ?", "%"+*filters.LastName+"%")
	}
	if filters.RoleType != nil {
		query = query.Where("roles.role LIKE ?", "%"+*filters.RoleType+"%")
	}

	if col := repositories.UserSortKey(filters.SortBy).Column(); col != "" {
		if col == "role" {
			col = "roles.role"
		} else {
			col = "users." + col
		}
		if strings.EqualFold(filters.SortOrder, "desc") {
			col += " DESC"
		}
		query = query.Order(col)
	}

	var users []*models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ExistsByEmail checks email existence with short-lived caching
func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	cacheKey := fmt.Sprintf("email:%s", email)
	var exists bool

	err := u.cacheManager.Exists.CacheOrExecute(ctx, cacheKey, &exists, cache.ExistsCacheConfig.TTL, func() (interface{}, error) {
		var count int64
		if err := u.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		return count > 0, nil
	})
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	cache.SafeDelete(ctx, u.cacheManager.Exists, fmt.Sprintf("email:%s", user.Email))
	cache.SafeInvalidatePattern(ctx, u.cacheManager.User, "list:*")

	return nil
}

func (u *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	err := u.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"password":        user.Password,
		"first_name":      user.FirstName,
		"last_name":       user.LastName,
		"profile_picture": user.PictureURL,
		"updated_at":      user.UpdatedAt,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	cache.InvalidateUserCache(ctx, u.cacheManager, user.ID)

	return nil
}

// Delete removes the user together with their enrollment rows
func (u *UserPostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := u.db.WithContext(ctx).Where("user_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
		return fmt.Errorf("failed to delete user enrollments: %w", err)
	}
	if err := u.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	cache.InvalidateUserCache(ctx, u.cacheManager, id)

	return nil
}

// GetRole resolves a role by its type name, ignoring case
func (u *UserPostgreSQL) GetRole(ctx context.Context, roleType string) (*models.Role, error) {
	var role models.Role
	err := u.db.WithContext(ctx).
		Where("LOWER(role) = LOWER(?)", roleType).
		First(&role).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get role %q: %w", roleType, err)
	}
	return &role, nil
}
