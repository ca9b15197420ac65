package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/alpha53/virtualteacher/internal/models"
	"github.com/alpha53/virtualteacher/internal/repositories"
)

type LecturePostgreSQL struct {
	db *gorm.DB
}

func NewLecturePostgreSQL(db *gorm.DB) repositories.LectureRepository {
	return &LecturePostgreSQL{db: db}
}

func (l *LecturePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Lecture, error) {
	var lecture models.Lecture
	err := l.db.WithContext(ctx).
		Preload("Description").
		First(&lecture, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get lecture: %w", err)
	}
	return &lecture, nil
}

func (l *LecturePostgreSQL) GetAllByCourse(ctx context.Context, courseID uint) ([]*models.Lecture, error) {
	var lectures []*models.Lecture
	err := l.db.WithContext(ctx).
		Preload("Description").
		Where("course_id = ?", courseID).
		Find(&lectures).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get lectures by course: %w", err)
	}
	return lectures, nil
}

// Create creates a lecture together with its description, if one is provided
func (l *LecturePostgreSQL) Create(ctx context.Context, lecture *models.Lecture) error {
	if err := l.db.WithContext(ctx).Create(lecture).Error; err != nil {
		return fmt.Errorf("failed to create lecture: %w", err)
	}
	return nil
}

// Update updates the lecture row and reconciles its description with the
// desired state
func (l *LecturePostgreSQL) Update(ctx context.Context, lecture *models.Lecture) error {
	result := l.db.WithContext(ctx).Model(&models.Lecture{}).Where("id = ?", lecture.ID).Updates(map[string]interface{}{
		"title":          lecture.Title,
		"video_url":      lecture.VideoURL,
		"assignment_url": lecture.AssignmentURL,
		"course_id":      lecture.CourseID,
		"updated_at":     lecture.UpdatedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update lecture: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update lecture: %w", gorm.ErrRecordNotFound)
	}

	exists, err := descriptionExists[models.LectureDescription](l.db.WithContext(ctx), "lecture_id = ?", lecture.ID)
	if err != nil {
		return err
	}
	if lecture.Description != nil {
		lecture.Description.LectureID = lecture.ID
	}
	return reconcileDescription(l.db.WithContext(ctx), exists, lecture.Description, "lecture_id = ?", lecture.ID)
}

// Delete removes the lecture, its description and any submitted solutions
func (l *LecturePostgreSQL) Delete(ctx context.Context, id uint) error {
	db := l.db.WithContext(ctx)

	if err := db.Where("lecture_id = ?", id).Delete(&models.Solution{}).Error; err != nil {
		return fmt.Errorf("failed to delete lecture solutions: %w", err)
	}
	if err := db.Where("lecture_id = ?", id).Delete(&models.LectureDescription{}).Error; err != nil {
		return fmt.Errorf("failed to delete lecture description: %w", err)
	}
	if err := db.Delete(&models.Lecture{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete lecture: %w", err)
	}
	return nil
}

func (l *LecturePostgreSQL) GetAssignmentURL(ctx context.Context, lectureID uint) (string, error) {
	var url string
	err := l.db.WithContext(ctx).
		Model(&models.Lecture{}).
		Where("id = ?", lectureID).
		Pluck("assignment_url", &url).Error
	if err != nil {
		return "", fmt.Errorf("failed to get assignment url: %w", err)
	}
	return url, nil
}
