package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/alpha53/virtualteacher/internal/models"
	"github.com/alpha53/virtualteacher/internal/repositories"
)

const exportSheet = "Sheet1"

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
	policy *AuthorizationPolicy
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
		policy: NewAuthorizationPolicy(),
	}
}

// ExportCourseCatalog renders the filtered course catalog as an xlsx sheet
func (s *exportService) ExportCourseCatalog(ctx context.Context, filters repositories.CourseFilters) ([]byte, error) {
	courses, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	headers := []string{"Title", "Topic", "Teacher", "Average Rating", "Published"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, course := range courses {
		values := []interface{}{
			course.Title,
			course.Topic.Name,
			course.Creator.Email,
			"",
			course.Published,
		}
		if course.AvgRating != nil {
			values[3] = *course.AvgRating
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	// Summary row below the listing: the platform-wide published count, not
	// just what the current filter matched.
	published, err := s.repo.Course().CountPublished(ctx)
	if err != nil {
		return nil, err
	}
	summaryRow := len(courses) + 3
	if err := f.SetCellValue(exportSheet, fmt.Sprintf("A%d", summaryRow), "Published courses"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(exportSheet, fmt.Sprintf("B%d", summaryRow), published); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render catalog export: %w", err)
	}

	s.logger.Info("course catalog exported",
		"courses", len(courses),
		"published", published)

	return buf.Bytes(), nil
}

// ExportGradebook renders a student-by-lecture grade matrix for a course,
// with the average and pass/fail verdict per student. Creator and admin
// only.
func (s *exportService) ExportGradebook(ctx context.Context, courseID uint, actor *models.User) ([]byte, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if err := s.policy.CanModifyCourse(actor, course); err != nil {
		return nil, err
	}

	lectures, err := s.repo.Lecture().GetAllByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	students, err := s.repo.Course().GetEnrolledStudents(ctx, courseID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	headers := []string{"Student"}
	for _, lecture := range lectures {
		headers = append(headers, lecture.Title)
	}
	headers = append(headers, "Average", "Passed")
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, student := range students {
		values := []interface{}{student.Email}

		var sum float64
		graded := 0
		for _, lecture := range lectures {
			solution, err := s.repo.Solution().Get(ctx, student.ID, lecture.ID)
			if err != nil {
				if repositories.IsNotFoundError(err) {
					values = append(values, "")
					continue
				}
				return nil, err
			}
			if solution.Grade == nil {
				values = append(values, "")
				continue
			}
			values = append(values, *solution.Grade)
			sum += *solution.Grade
			graded++
		}

		if graded == len(lectures) && len(lectures) > 0 {
			avg := sum / float64(len(lectures))
			values = append(values, avg, avg >= course.PassingGrade)
		} else {
			values = append(values, "", false)
		}

		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render gradebook export: %w", err)
	}

	s.logger.Info("gradebook exported",
		"course_id", courseID,
		"students", len(students),
		"lectures", len(lectures))

	return buf.Bytes(), nil
}
