package services

import (
	"context"
	"errors"
	"testing"

	"github.com/alpha53/virtualteacher/internal/models"
	"github.com/alpha53/virtualteacher/internal/validator"
)

func newLectureServiceForTest(t *testing.T) (LectureService, *fakeRepository) {
	t.Helper()

	repo := newFakeRepository()
	return NewLectureService(repo, testLogger(t), validator.New()), repo
}

func lectureRequest(title string) *LectureCreateRequest {
	return &LectureCreateRequest{
		Title:         title,
		VideoURL:      "https://videos.example.com/" + title,
		AssignmentURL: "https://assignments.example.com/" + title,
	}
}

func TestCreateLecture(t *testing.T) {
	service, repo := newLectureServiceForTest(t)
	teacher := repo.seedUser(models.RoleTeacher)
	course := repo.seedCourse(teacher, "Go Basics", true)

	lecture, err := service.Create(context.Background(), course.ID, lectureRequest("intro"), teacher)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if lecture.CourseID != course.ID {
		t.Errorf("course = %d, want %d", lecture.CourseID, course.ID)
	}
}

func TestCreateLectureNonCreatorDenied(t *testing.T) {
	service, repo := newLectureServiceForTest(t)
	teacher := repo.seedUser(models.RoleTeacher)
	other := repo.seedUser(models.RoleTeacher)
	course := repo.seedCourse(teacher, "Go Basics", true)

	_, err := service.Create(context.Background(), course.ID, lectureRequest("intro"), other)
	if err == nil || err.Error() != ReasonOnlyCreatorCanModify {
		t.Errorf("expected denial, got %v", err)
	}
}

func TestCreateLectureCourseMissing(t *testing.T) {
	service, repo := newLectureServiceForTest(t)
	teacher := repo.seedUser(models.RoleTeacher)

	_, err := service.Create(context.Background(), 999, lectureRequest("intro"), teacher)
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestUpdateLectureKeepsCourse(t *testing.T) {
	service, repo := newLectureServiceForTest(t)
	teacher := repo.seedUser(models.RoleTeacher)
	course := repo.seedCourse(teacher, "Go Basics", true)
	lecture := repo.seedLecture(course.ID, "intro")

	updated, err := service.Update(context.Background(), lecture.ID, &LectureUpdateRequest{
		Title:         "intro v2",
		VideoURL:      "https://videos.example.com/intro-v2",
		AssignmentURL: "https://assignments.example.com/intro-v2",
	}, teacher)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.CourseID != course.ID {
		t.Errorf("course changed to %d", updated.CourseID)
	}
	if updated.Title != "intro v2" {
		t.Errorf("title = %q", updated.Title)
	}
}

func TestDeleteLectureRemovesSolutions(t *testing.T) {
	service, repo := newLectureServiceForTest(t)
	teacher := repo.seedUser(models.RoleTeacher)
	student := repo.seedUser(models.RoleStudent)
	course := repo.seedCourse(teacher, "Go Basics", true)
	lecture := repo.seedLecture(course.ID, "intro")
	repo.seedSolution(student.ID, lecture.ID, nil)

	if err := service.Delete(context.Background(), lecture.ID, teacher); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := repo.Solution().Get(context.Background(), student.ID, lecture.ID); err == nil {
		t.Error("solutions should be gone with the lecture")
	}
}

func TestGetAssignmentURL(t *testing.T) {
	service, repo := newLectureServiceForTest(t)
	teacher := repo.seedUser(models.RoleTeacher)
	student := repo.seedUser(models.RoleStudent)
	outsider := repo.seedUser(models.RoleStudent)
	course := repo.seedCourse(teacher, "Go Basics", true)
	lecture := repo.seedLecture(course.ID, "intro")
	repo.seedEnrollment(student.ID, course.ID, true)

	url, err := service.GetAssignmentURL(context.Background(), lecture.ID, student)
	if err != nil {
		t.Fatalf("enrolled student should get the assignment: %v", err)
	}
	if url != lecture.AssignmentURL {
		t.Errorf("url = %q, want %q", url, lecture.AssignmentURL)
	}

	if _, err := service.GetAssignmentURL(context.Background(), lecture.ID, teacher); err != nil {
		t.Errorf("creator should get the assignment: %v", err)
	}

	_, err = service.GetAssignmentURL(context.Background(), lecture.ID, outsider)
	if err == nil || err.Error() != ReasonNotEnrolled {
		t.Errorf("expected denial for outsider, got %v", err)
	}
}
