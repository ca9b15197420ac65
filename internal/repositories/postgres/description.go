package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

type description interface {
	Text() string
}

// descriptionExists reports whether a description row matching the condition
// is present.
func descriptionExists[T any](db *gorm.DB, cond string, args ...any) (bool, error) {
	var count int64
	var model T
	if err := db.Model(&model).Where(cond, args...).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check description: %w", err)
	}
	return count > 0, nil
}

// reconcileDescription brings the stored description row in line with the
// desired state:
//   - absent stored, desired set: insert
//   - present stored, desired nil: delete
//   - present stored, desired set: replace the text
//   - absent stored, desired nil: nothing to do
//
// Callers run this inside the parent row's transaction.
func reconcileDescription[T description](db *gorm.DB, exists bool, desired *T, cond string, args ...any) error {
	switch {
	case !exists && desired != nil:
		if err := db.Create(desired).Error; err != nil {
			return fmt.Errorf("failed to create description: %w", err)
		}
	case exists && desired == nil:
		var model T
		if err := db.Where(cond, args...).Delete(&model).Error; err != nil {
			return fmt.Errorf("failed to delete description: %w", err)
		}
	case exists && desired != nil:
		var model T
		if err := db.Model(&model).Where(cond, args...).Update("description", (*desired).Text()).Error; err != nil {
			return fmt.Errorf("failed to update description: %w", err)
		}
	}
	return nil
}
