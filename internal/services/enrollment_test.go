package services

import (
	"context"
	"testing"

	"github.com/alpha53/virtualteacher/internal/models"
)

func newEnrollmentServiceForTest(t *testing.T) (EnrollmentService, *fakeRepository) {
	t.Helper()

	repo := newFakeRepository()
	return NewEnrollmentService(repo, testLogger(t)), repo
}

func TestEnrollmentLifecycle(t *testing.T) {
	service, repo := newEnrollmentServiceForTest(t)
	teacher := repo.seedUser(models.RoleTeacher)
	student := repo.seedUser(models.RoleStudent)
	course := repo.seedCourse(teacher, "Go Basics", true)
	ctx := context.Background()

	if err := service.Enroll(ctx, student.ID, course.ID); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	enrolled, err := service.IsEnrolled(ctx, student.ID, course.ID)
	if err != nil || !enrolled {
		t.Fatalf("IsEnrolled = %v, %v, want true", enrolled, err)
	}
	completed, err := service.HasCompleted(ctx, student.ID, course.ID)
	if err != nil || completed {
		t.Fatalf("HasCompleted = %v, %v, want false", completed, err)
	}

	if err := service.Complete(ctx, student.ID, course.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	enrolled, _ = service.IsEnrolled(ctx, student.ID, course.ID)
	if enrolled {
		t.Error("completed enrollment should not count as ongoing")
	}
	completed, _ = service.HasCompleted(ctx, student.ID, course.ID)
	if !completed {
		t.Error("expected HasCompleted to be true")
	}
}

func TestCompleteWithoutEnrollmentIsNoOp(t *testing.T) {
	service, repo := newEnrollmentServiceForTest(t)
	teacher := repo.seedUser(models.RoleTeacher)
	student := repo.seedUser(models.RoleStudent)
	course := repo.seedCourse(teacher, "Go Basics", true)

	// Completing a non-existent enrollment touches zero rows and reports
	// no error.
	if err := service.Complete(context.Background(), student.ID, course.ID); err != nil {
		t.Errorf("Complete on missing enrollment: %v", err)
	}
}

func TestRemoveEnrollment(t *testing.T) {
	service, repo := newEnrollmentServiceForTest(t)
	teacher := repo.seedUser(models.RoleTeacher)
	student := repo.seedUser(models.RoleStudent)
	course := repo.seedCourse(teacher, "Go Basics", true)
	repo.seedEnrollment(student.ID, course.ID, true)

	if err := service.Remove(context.Background(), student.ID, course.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	enrolled, _ := service.IsEnrolled(context.Background(), student.ID, course.ID)
	if enrolled {
		t.Error("student should no longer be enrolled")
	}
}
