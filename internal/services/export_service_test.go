package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/alpha53/virtualteacher/internal/models"
	"github.com/alpha53/virtualteacher/internal/repositories"
)

func strptr(s string) *string { return &s }

func newExportServiceForTest(t *testing.T) (ExportService, *fakeRepository) {
	t.Helper()

	repo := newFakeRepository()
	return NewExportService(repo, testLogger(t)), repo
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to open exported workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, ref string) string {
	t.Helper()

	value, err := f.GetCellValue("Sheet1", ref)
	if err != nil {
		t.Fatalf("GetCellValue(%s): %v", ref, err)
	}
	return value
}

func TestExportCourseCatalog(t *testing.T) {
	service, repo := newExportServiceForTest(t)
	teacher := repo.seedUser(models.RoleTeacher)
	student := repo.seedUser(models.RoleStudent)
	course := repo.seedCourse(teacher, "Go Basics", true)

	repo.seedEnrollment(student.ID, course.ID, false)
	if err := repo.Course().Rate(context.Background(), &models.Rating{
		CourseID: course.ID,
		UserID:   student.ID,
		Rating:   4,
	}); err != nil {
		t.Fatalf("Rate failed: %v", err)
	}

	data, err := service.ExportCourseCatalog(context.Background(), repositories.CourseFilters{})
	if err != nil {
		t.Fatalf("ExportCourseCatalog failed: %v", err)
	}

	f := openWorkbook(t, data)

	if got := cell(t, f, "A1"); got != "Title" {
		t.Errorf("A1 = %q, want Title", got)
	}
	if got := cell(t, f, "A2"); got != "Go Basics" {
		t.Errorf("A2 = %q", got)
	}
	if got := cell(t, f, "B2"); got != "Programming" {
		t.Errorf("B2 = %q", got)
	}
	if got := cell(t, f, "C2"); got != teacher.Email {
		t.Errorf("C2 = %q, want %q", got, teacher.Email)
	}
	if got := cell(t, f, "D2"); got != "4" {
		t.Errorf("D2 = %q, want 4", got)
	}
	if got := cell(t, f, "E2"); got != "TRUE" {
		t.Errorf("E2 = %q, want TRUE", got)
	}

	// Summary row sits one blank row below the single data row.
	if got := cell(t, f, "A4"); got != "Published courses" {
		t.Errorf("A4 = %q, want Published courses", got)
	}
	if got := cell(t, f, "B4"); got != "1" {
		t.Errorf("B4 = %q, want 1", got)
	}
}

func TestExportCourseCatalogSummaryCountsAllPublished(t *testing.T) {
	service, repo := newExportServiceForTest(t)
	teacher := repo.seedUser(models.RoleTeacher)
	repo.seedCourse(teacher, "Go Basics", true)
	repo.seedCourse(teacher, "Advanced Go", true)
	repo.seedCourse(teacher, "Watercolor Painting", false)

	published := true
	data, err := service.ExportCourseCatalog(context.Background(), repositories.CourseFilters{
		Title:     strptr("Go Basics"),
		Published: &published,
	})
	if err != nil {
		t.Fatalf("ExportCourseCatalog failed: %v", err)
	}

	f := openWorkbook(t, data)

	// One data row matched the filter; the summary still counts every
	// published course on the platform.
	if got := cell(t, f, "A2"); got != "Go Basics" {
		t.Errorf("A2 = %q", got)
	}
	if got := cell(t, f, "A3"); got != "" {
		t.Errorf("A3 = %q, want empty", got)
	}
	if got := cell(t, f, "B4"); got != "2" {
		t.Errorf("B4 = %q, want 2", got)
	}
}

func TestExportCourseCatalogUnratedCourse(t *testing.T) {
	service, repo := newExportServiceForTest(t)
	teacher := repo.seedUser(models.RoleTeacher)
	repo.seedCourse(teacher, "Go Basics", false)

	data, err := service.ExportCourseCatalog(context.Background(), repositories.CourseFilters{})
	if err != nil {
		t.Fatalf("ExportCourseCatalog failed: %v", err)
	}

	f := openWorkbook(t, data)

	// Unrated courses leave the rating cell empty.
	if got := cell(t, f, "D2"); got != "" {
		t.Errorf("D2 = %q, want empty", got)
	}
	if got := cell(t, f, "E2"); got != "FALSE" {
		t.Errorf("E2 = %q, want FALSE", got)
	}
}

func TestExportGradebook(t *testing.T) {
	service, repo := newExportServiceForTest(t)
	teacher := repo.seedUser(models.RoleTeacher)
	student := repo.seedUser(models.RoleStudent)
	course := repo.seedCourse(teacher, "Go Basics", true)
	lecture := repo.seedLecture(course.ID, "intro")
	repo.seedEnrollment(student.ID, course.ID, true)

	grade := 5.0
	repo.seedSolution(student.ID, lecture.ID, &grade)

	data, err := service.ExportGradebook(context.Background(), course.ID, teacher)
	if err != nil {
		t.Fatalf("ExportGradebook failed: %v", err)
	}

	f := openWorkbook(t, data)

	if got := cell(t, f, "A1"); got != "Student" {
		t.Errorf("A1 = %q", got)
	}
	if got := cell(t, f, "B1"); got != "intro" {
		t.Errorf("B1 = %q", got)
	}
	if got := cell(t, f, "A2"); got != student.Email {
		t.Errorf("A2 = %q, want %q", got, student.Email)
	}
	if got := cell(t, f, "B2"); got != "5" {
		t.Errorf("B2 = %q, want 5", got)
	}
	if got := cell(t, f, "C2"); got != "5" {
		t.Errorf("average C2 = %q, want 5", got)
	}
	if got := cell(t, f, "D2"); got != "TRUE" {
		t.Errorf("passed D2 = %q, want TRUE", got)
	}
}

func TestExportGradebookUngradedStudent(t *testing.T) {
	service, repo := newExportServiceForTest(t)
	teacher := repo.seedUser(models.RoleTeacher)
	student := repo.seedUser(models.RoleStudent)
	course := repo.seedCourse(teacher, "Go Basics", true)
	repo.seedLecture(course.ID, "intro")
	repo.seedEnrollment(student.ID, course.ID, true)

	data, err := service.ExportGradebook(context.Background(), course.ID, teacher)
	if err != nil {
		t.Fatalf("ExportGradebook failed: %v", err)
	}

	f := openWorkbook(t, data)

	if got := cell(t, f, "B2"); got != "" {
		t.Errorf("ungraded lecture B2 = %q, want empty", got)
	}
	if got := cell(t, f, "C2"); got != "" {
		t.Errorf("average C2 = %q, want empty", got)
	}
	if got := cell(t, f, "D2"); got != "FALSE" {
		t.Errorf("passed D2 = %q, want FALSE", got)
	}
}

func TestExportGradebookGated(t *testing.T) {
	service, repo := newExportServiceForTest(t)
	teacher := repo.seedUser(models.RoleTeacher)
	other := repo.seedUser(models.RoleTeacher)
	course := repo.seedCourse(teacher, "Go Basics", true)

	if _, err := service.ExportGradebook(context.Background(), course.ID, other); err == nil {
		t.Error("expected denial for non-creator")
	}
}
