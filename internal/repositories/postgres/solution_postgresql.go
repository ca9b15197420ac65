package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/alpha53/virtualteacher/internal/models"
	"github.com/alpha53/virtualteacher/internal/repositories"
)

type SolutionPostgreSQL struct {
	db *gorm.DB
}

func NewSolutionPostgreSQL(db *gorm.DB) repositories.SolutionRepository {
	return &SolutionPostgreSQL{db: db}
}

func (s *SolutionPostgreSQL) Get(ctx context.Context, userID, lectureID uint) (*models.Solution, error) {
	var solution models.Solution
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND lecture_id = ?", userID, lectureID).
		First(&solution).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get solution: %w", err)
	}
	return &solution, nil
}

func (s *SolutionPostgreSQL) GetAllByLecture(ctx context.Context, lectureID uint) ([]*models.Solution, error) {
	var solutions []*models.Solution
	err := s.db.WithContext(ctx).
		Where("lecture_id = ?", lectureID).
		Find(&solutions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get solutions by lecture: %w", err)
	}
	return solutions, nil
}

func (s *SolutionPostgreSQL) GetAllByUser(ctx context.Context, userID uint) ([]*models.Solution, error) {
	var solutions []*models.Solution
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&solutions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get solutions by user: %w", err)
	}
	return solutions, nil
}

func (s *SolutionPostgreSQL) Add(ctx context.Context, solution *models.Solution) error {
	if err := s.db.WithContext(ctx).Create(solution).Error; err != nil {
		return fmt.Errorf("failed to add solution: %w", err)
	}
	return nil
}

// UpdateURL replaces the submitted file of an existing solution and clears
// any earlier grade
func (s *SolutionPostgreSQL) UpdateURL(ctx context.Context, userID, lectureID uint, fileURL string) error {
	err := s.db.WithContext(ctx).
		Model(&models.Solution{}).
		Where("user_id = ? AND lecture_id = ?", userID, lectureID).
		Updates(map[string]interface{}{
			"file_url": fileURL,
			"grade":    nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update solution url: %w", err)
	}
	return nil
}

func (s *SolutionPostgreSQL) AddGrade(ctx context.Context, solutionID uint, grade float64) error {
	err := s.db.WithContext(ctx).
		Model(&models.Solution{}).
		Where("id = ?", solutionID).
		Update("grade", grade).Error
	if err != nil {
		return fmt.Errorf("failed to grade solution: %w", err)
	}
	return nil
}
