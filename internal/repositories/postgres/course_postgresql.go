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

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// baseQuery selects courses with their average rating scanned into
// avg_rating. The rating join is LEFT so unrated courses survive with a
// NULL average.
func (c *CoursePostgreSQL) baseQuery(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).
		Model(&models.Course{}).
		Select("courses.*, AVG(ratings.rating) AS avg_rating").
		Joins("LEFT JOIN ratings ON ratings.course_id = courses.id").
		Joins("JOIN topics ON topics.id = courses.topic_id").
		Joins("JOIN users ON users.id = courses.creator_id").
		Group("courses.id").
		Preload("Topic").
		Preload("Creator").
		Preload("Creator.Role").
		Preload("Description")
}

// GetByID retrieves a course by ID with caching
func (c *CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var course models.Course

	err := c.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		if err := c.baseQuery(ctx).Where("courses.id = ?", id).First(&dbCourse).Error; err != nil {
			return nil, fmt.Errorf("failed to get course: %w", err)
		}
		return &dbCourse, nil
	})
	if err != nil {
		return nil, err
	}

	return &course, nil
}

func (c *CoursePostgreSQL) GetByTitle(ctx context.Context, title string) (*models.Course, error) {
	var course models.Course
	if err := c.baseQuery(ctx).Where("courses.title = ?", title).First(&course).Error; err != nil {
		return nil, fmt.Errorf("failed to get course by title: %w", err)
	}
	return &course, nil
}

// List retrieves courses matching the filter specification. The filter is
// translated into WHERE/HAVING/ORDER BY clauses; an unrecognized sort key
// adds no ORDER BY at all.
func (c *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, error) {
	query := c.baseQuery(ctx)

	if filters.Title != nil {
		query = query.Where("courses.title LIKE ?", "%"+*filters.Title+"%")
	}
	if filters.Topic != nil {
		query = query.Where("topics.topic LIKE ?", "%"+*filters.Topic+"%")
	}
	if filters.Teacher != nil {
		query = query.Where("users.email LIKE ?", "%"+*filters.Teacher+"%")
	}
	if filters.Published != nil {
		query = query.Where("courses.published = ?", *filters.Published)
	}
	if filters.MinRating != nil {
		if *filters.MinRating == 0 {
			// Zero must also admit courses that were never rated.
			query = query.Having("AVG(ratings.rating) >= ? OR AVG(ratings.rating) IS NULL", 0)
		} else {
			query = query.Having("AVG(ratings.rating) >= ?", *filters.MinRating)
		}
	}

	if col := repositories.CourseSortKey(filters.SortBy).Column(); col != "" {
		if strings.EqualFold(filters.SortOrder, "desc") {
			col += " DESC"
		}
		query = query.Order(col)
	}

	var courses []*models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) GetByCreator(ctx context.Context, creatorID uint) ([]*models.Course, error) {
	var courses []*models.Course
	if err := c.baseQuery(ctx).Where("courses.creator_id = ?", creatorID).Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to get courses by creator: %w", err)
	}
	return courses, nil
}

// GetOngoingByUser returns the courses a user is currently taking. Completed
// enrollments are deliberately excluded here; use GetCompletedByUser for
// those.
func (c *CoursePostgreSQL) GetOngoingByUser(ctx context.Context, userID uint) ([]*models.Course, error) {
	return c.getByEnrollment(ctx, userID, true)
}

func (c *CoursePostgreSQL) GetCompletedByUser(ctx context.Context, userID uint) ([]*models.Course, error) {
	return c.getByEnrollment(ctx, userID, false)
}

func (c *CoursePostgreSQL) getByEnrollment(ctx context.Context, userID uint, ongoing bool) ([]*models.Course, error) {
	var courses []*models.Course
	err := c.baseQuery(ctx).
		Joins("JOIN course_user ON course_user.course_id = courses.id").
		Where("course_user.user_id = ? AND course_user.ongoing = ?", userID, ongoing).
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get courses by enrollment: %w", err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) GetEnrolledStudents(ctx context.Context, courseID uint) ([]*models.User, error) {
	var users []*models.User
	err := c.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN course_user ON course_user.user_id = users.id").
		Where("course_user.course_id = ?", courseID).
		Preload("Role").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get enrolled students: %w", err)
	}
	return users, nil
}

// Create creates a course together with its description, if one is provided
func (c *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := c.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, "list:*")
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, "creator:*")

	return nil
}

// Update updates the course row and reconciles its description with the
// desired state. The creator column is never touched here; ownership moves
// only through TransferCourses.
func (c *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	err := c.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", course.ID).Updates(map[string]interface{}{
		"title":         course.Title,
		"topic_id":      course.TopicID,
		"start_date":    course.StartDate,
		"published":     course.Published,
		"passing_grade": course.PassingGrade,
		"updated_at":    course.UpdatedAt,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	exists, err := descriptionExists[models.CourseDescription](c.db.WithContext(ctx), "course_id = ?", course.ID)
	if err != nil {
		return err
	}
	if course.Description != nil {
		course.Description.CourseID = course.ID
	}
	if err := reconcileDescription(c.db.WithContext(ctx), exists, course.Description, "course_id = ?", course.ID); err != nil {
		return err
	}

	cache.InvalidateCourseCache(ctx, c.cacheManager, course.ID)

	return nil
}

// Delete removes the course and everything hanging off it: enrollments,
// ratings, descriptions, lectures and their solutions.
func (c *CoursePostgreSQL) Delete(ctx context.Context, id uint) error {
	db := c.db.WithContext(ctx)

	var lectureIDs []uint
	if err := db.Model(&models.Lecture{}).Where("course_id = ?", id).Pluck("id", &lectureIDs).Error; err != nil {
		return fmt.Errorf("failed to collect course lectures: %w", err)
	}

	if len(lectureIDs) > 0 {
		if err := db.Where("lecture_id IN ?", lectureIDs).Delete(&models.Solution{}).Error; err != nil {
			return fmt.Errorf("failed to delete lecture solutions: %w", err)
		}
		if err := db.Where("lecture_id IN ?", lectureIDs).Delete(&models.LectureDescription{}).Error; err != nil {
			return fmt.Errorf("failed to delete lecture descriptions: %w", err)
		}
		if err := db.Where("course_id = ?", id).Delete(&models.Lecture{}).Error; err != nil {
			return fmt.Errorf("failed to delete lectures: %w", err)
		}
	}

	if err := db.Where("course_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
		return fmt.Errorf("failed to delete enrollments: %w", err)
	}
	if err := db.Where("course_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
		return fmt.Errorf("failed to delete ratings: %w", err)
	}
	if err := db.Where("course_id = ?", id).Delete(&models.CourseDescription{}).Error; err != nil {
		return fmt.Errorf("failed to delete course description: %w", err)
	}
	if err := db.Delete(&models.Course{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	cache.InvalidateCourseCache(ctx, c.cacheManager, id)

	return nil
}

// TransferCourses moves every course of one teacher to another
func (c *CoursePostgreSQL) TransferCourses(ctx context.Context, fromTeacherID, toTeacherID uint) error {
	err := c.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("creator_id = ?", fromTeacherID).
		Update("creator_id", toTeacherID).Error
	if err != nil {
		return fmt.Errorf("failed to transfer courses: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, c.cacheManager.Course, "*")

	return nil
}

// Rate appends a rating row; an earlier rating by the same user stays in
// place and keeps counting toward the average.
func (c *CoursePostgreSQL) Rate(ctx context.Context, rating *models.Rating) error {
	if err := c.db.WithContext(ctx).Create(rating).Error; err != nil {
		return fmt.Errorf("failed to rate course: %w", err)
	}

	cache.InvalidateCourseCache(ctx, c.cacheManager, rating.CourseID)

	return nil
}

func (c *CoursePostgreSQL) GetRatings(ctx context.Context, courseID uint) ([]*models.Rating, error) {
	var ratings []*models.Rating
	err := c.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Preload("User").
		Order("created_at").
		Find(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings: %w", err)
	}
	return ratings, nil
}

func (c *CoursePostgreSQL) Enroll(ctx context.Context, userID, courseID uint) error {
	enrollment := models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Ongoing:  true,
	}
	if err := c.db.WithContext(ctx).Create(&enrollment).Error; err != nil {
		return fmt.Errorf("failed to enroll user: %w", err)
	}

	cache.InvalidateCourseCache(ctx, c.cacheManager, courseID)

	return nil
}

// Complete flips the enrollment to finished. Completing an enrollment that
// does not exist is a no-op.
func (c *CoursePostgreSQL) Complete(ctx context.Context, userID, courseID uint) error {
	err := c.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("ongoing", false).Error
	if err != nil {
		return fmt.Errorf("failed to complete enrollment: %w", err)
	}

	cache.InvalidateCourseCache(ctx, c.cacheManager, courseID)

	return nil
}

func (c *CoursePostgreSQL) RemoveStudent(ctx context.Context, userID, courseID uint) error {
	err := c.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&models.Enrollment{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove student: %w", err)
	}

	cache.InvalidateCourseCache(ctx, c.cacheManager, courseID)

	return nil
}

func (c *CoursePostgreSQL) IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error) {
	return c.enrollmentExists(ctx, userID, courseID, true)
}

func (c *CoursePostgreSQL) HasCompleted(ctx context.Context, userID, courseID uint) (bool, error) {
	return c.enrollmentExists(ctx, userID, courseID, false)
}

func (c *CoursePostgreSQL) enrollmentExists(ctx context.Context, userID, courseID uint, ongoing bool) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND ongoing = ?", userID, courseID, ongoing).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return count > 0, nil
}

func (c *CoursePostgreSQL) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("published = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count published courses: %w", err)
	}
	return count, nil
}
