package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/alpha53/virtualteacher/internal/models"
	"github.com/alpha53/virtualteacher/internal/repositories"
)

// fakeRepository is an in-memory Repository for service tests. It mirrors
// the storage semantics the services rely on: not-found sentinels, ongoing
// versus completed enrollment rows, append-only ratings and the average
// rating attached to course reads.
type fakeRepository struct {
	mu sync.Mutex

	courses   map[uint]*models.Course
	users     map[uint]*models.User
	lectures  map[uint]*models.Lecture
	solutions map[uint]*models.Solution
	roles     map[uint]*models.Role
	ratings   []*models.Rating

	enrollments map[enrollmentKey]*models.Enrollment

	nextCourseID   uint
	nextUserID     uint
	nextLectureID  uint
	nextSolutionID uint
	nextRatingID   uint
}

type enrollmentKey struct {
	userID   uint
	courseID uint
}

func newFakeRepository() *fakeRepository {
	repo := &fakeRepository{
		courses:     make(map[uint]*models.Course),
		users:       make(map[uint]*models.User),
		lectures:    make(map[uint]*models.Lecture),
		solutions:   make(map[uint]*models.Solution),
		roles:       make(map[uint]*models.Role),
		enrollments: make(map[enrollmentKey]*models.Enrollment),
	}
	for i, roleType := range []string{models.RoleStudent, models.RoleTeacher, models.RolePendingTeacher, models.RoleAdmin} {
		id := uint(i + 1)
		repo.roles[id] = &models.Role{ID: id, Type: roleType}
	}
	return repo
}

func (r *fakeRepository) Course() repositories.CourseRepository     { return &fakeCourseRepo{r} }
func (r *fakeRepository) User() repositories.UserRepository         { return &fakeUserRepo{r} }
func (r *fakeRepository) Lecture() repositories.LectureRepository   { return &fakeLectureRepo{r} }
func (r *fakeRepository) Solution() repositories.SolutionRepository { return &fakeSolutionRepo{r} }

func (r *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *fakeRepository) Ping(ctx context.Context) error { return nil }
func (r *fakeRepository) Close() error                   { return nil }

// ===== seeding helpers =====

func (r *fakeRepository) roleByType(roleType string) *models.Role {
	for _, role := range r.roles {
		if strings.EqualFold(role.Type, roleType) {
			return role
		}
	}
	return nil
}

func (r *fakeRepository) seedUser(roleType string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	role := r.roleByType(roleType)
	r.nextUserID++
	user := &models.User{
		ID:        r.nextUserID,
		Email:     fmt.Sprintf("user%d@example.com", r.nextUserID),
		Password:  "secret-password",
		FirstName: "First",
		LastName:  "Last",
		RoleID:    role.ID,
		Role:      *role,
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeRepository) seedCourse(creator *models.User, title string, published bool) *models.Course {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextCourseID++
	course := &models.Course{
		ID:           r.nextCourseID,
		Title:        title,
		TopicID:      1,
		CreatorID:    creator.ID,
		Published:    published,
		PassingGrade: 3,
		Topic:        models.Topic{ID: 1, Name: "Programming"},
		Creator:      *creator,
	}
	r.courses[course.ID] = course
	return course
}

func (r *fakeRepository) seedLecture(courseID uint, title string) *models.Lecture {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextLectureID++
	lecture := &models.Lecture{
		ID:            r.nextLectureID,
		Title:         title,
		VideoURL:      "https://videos.example.com/" + title,
		AssignmentURL: "https://assignments.example.com/" + title,
		CourseID:      courseID,
	}
	r.lectures[lecture.ID] = lecture
	return lecture
}

func (r *fakeRepository) seedEnrollment(userID, courseID uint, ongoing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.enrollments[enrollmentKey{userID, courseID}] = &models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Ongoing:  ongoing,
	}
}

func (r *fakeRepository) seedSolution(userID, lectureID uint, grade *float64) *models.Solution {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSolutionID++
	solution := &models.Solution{
		ID:        r.nextSolutionID,
		UserID:    userID,
		LectureID: lectureID,
		FileURL:   "https://files.example.com/solution",
		Grade:     grade,
	}
	r.solutions[solution.ID] = solution
	return solution
}

func (r *fakeRepository) avgRating(courseID uint) *float64 {
	var sum float64
	var count int
	for _, rating := range r.ratings {
		if rating.CourseID == courseID {
			sum += rating.Rating
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := sum / float64(count)
	return &avg
}

func (r *fakeRepository) courseCopy(course *models.Course) *models.Course {
	copied := *course
	copied.AvgRating = r.avgRating(course.ID)
	if creator, ok := r.users[course.CreatorID]; ok {
		copied.Creator = *creator
	}
	return &copied
}

// ===== course repository =====

type fakeCourseRepo struct{ r *fakeRepository }

func (f *fakeCourseRepo) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	course, ok := f.r.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return f.r.courseCopy(course), nil
}

func (f *fakeCourseRepo) GetByTitle(ctx context.Context, title string) (*models.Course, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	for _, course := range f.r.courses {
		if course.Title == title {
			return f.r.courseCopy(course), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCourseRepo) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	var out []*models.Course
	for _, course := range f.r.courses {
		copied := f.r.courseCopy(course)
		if filters.Matches(copied) {
			out = append(out, copied)
		}
	}
	filters.Sort(out)
	return out, nil
}

func (f *fakeCourseRepo) GetByCreator(ctx context.Context, creatorID uint) ([]*models.Course, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	var out []*models.Course
	for _, course := range f.r.courses {
		if course.CreatorID == creatorID {
			out = append(out, f.r.courseCopy(course))
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) GetOngoingByUser(ctx context.Context, userID uint) ([]*models.Course, error) {
	return f.byEnrollment(userID, true), nil
}

func (f *fakeCourseRepo) GetCompletedByUser(ctx context.Context, userID uint) ([]*models.Course, error) {
	return f.byEnrollment(userID, false), nil
}

func (f *fakeCourseRepo) byEnrollment(userID uint, ongoing bool) []*models.Course {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	var out []*models.Course
	for key, enrollment := range f.r.enrollments {
		if key.userID == userID && enrollment.Ongoing == ongoing {
			if course, ok := f.r.courses[key.courseID]; ok {
				out = append(out, f.r.courseCopy(course))
			}
		}
	}
	return out
}

func (f *fakeCourseRepo) GetEnrolledStudents(ctx context.Context, courseID uint) ([]*models.User, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	var out []*models.User
	for key := range f.r.enrollments {
		if key.courseID == courseID {
			if user, ok := f.r.users[key.userID]; ok {
				copied := *user
				out = append(out, &copied)
			}
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	f.r.nextCourseID++
	course.ID = f.r.nextCourseID
	stored := *course
	f.r.courses[course.ID] = &stored
	return nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	if _, ok := f.r.courses[course.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *course
	f.r.courses[course.ID] = &stored
	return nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id uint) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	delete(f.r.courses, id)
	for key := range f.r.enrollments {
		if key.courseID == id {
			delete(f.r.enrollments, key)
		}
	}
	return nil
}

func (f *fakeCourseRepo) TransferCourses(ctx context.Context, fromTeacherID, toTeacherID uint) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	for _, course := range f.r.courses {
		if course.CreatorID == fromTeacherID {
			course.CreatorID = toTeacherID
		}
	}
	return nil
}

func (f *fakeCourseRepo) Rate(ctx context.Context, rating *models.Rating) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	f.r.nextRatingID++
	rating.ID = f.r.nextRatingID
	stored := *rating
	f.r.ratings = append(f.r.ratings, &stored)
	return nil
}

func (f *fakeCourseRepo) GetRatings(ctx context.Context, courseID uint) ([]*models.Rating, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	var out []*models.Rating
	for _, rating := range f.r.ratings {
		if rating.CourseID == courseID {
			copied := *rating
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) Enroll(ctx context.Context, userID, courseID uint) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	f.r.enrollments[enrollmentKey{userID, courseID}] = &models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Ongoing:  true,
	}
	return nil
}

func (f *fakeCourseRepo) Complete(ctx context.Context, userID, courseID uint) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	if enrollment, ok := f.r.enrollments[enrollmentKey{userID, courseID}]; ok {
		enrollment.Ongoing = false
	}
	return nil
}

func (f *fakeCourseRepo) RemoveStudent(ctx context.Context, userID, courseID uint) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	delete(f.r.enrollments, enrollmentKey{userID, courseID})
	return nil
}

func (f *fakeCourseRepo) IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	enrollment, ok := f.r.enrollments[enrollmentKey{userID, courseID}]
	return ok && enrollment.Ongoing, nil
}

func (f *fakeCourseRepo) HasCompleted(ctx context.Context, userID, courseID uint) (bool, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	enrollment, ok := f.r.enrollments[enrollmentKey{userID, courseID}]
	return ok && !enrollment.Ongoing, nil
}

func (f *fakeCourseRepo) CountPublished(ctx context.Context) (int64, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	var count int64
	for _, course := range f.r.courses {
		if course.Published {
			count++
		}
	}
	return count, nil
}

// ===== user repository =====

type fakeUserRepo struct{ r *fakeRepository }

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	user, ok := f.r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	for _, user := range f.r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	var out []*models.User
	for _, user := range f.r.users {
		copied := *user
		if filters.Matches(&copied) {
			out = append(out, &copied)
		}
	}
	filters.Sort(out)
	return out, nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	for _, user := range f.r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	f.r.nextUserID++
	user.ID = f.r.nextUserID
	stored := *user
	f.r.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	current, ok := f.r.users[user.ID]
	if !ok {
		return repositories.ErrNotFound
	}

	// Email and role stay as stored, matching the column list the real
	// repository updates.
	current.Password = user.Password
	current.FirstName = user.FirstName
	current.LastName = user.LastName
	current.PictureURL = user.PictureURL
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	if _, ok := f.r.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.r.users, id)
	for key := range f.r.enrollments {
		if key.userID == id {
			delete(f.r.enrollments, key)
		}
	}
	return nil
}

func (f *fakeUserRepo) GetRole(ctx context.Context, roleType string) (*models.Role, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	if role := f.r.roleByType(roleType); role != nil {
		copied := *role
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

// ===== lecture repository =====

type fakeLectureRepo struct{ r *fakeRepository }

func (f *fakeLectureRepo) GetByID(ctx context.Context, id uint) (*models.Lecture, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	lecture, ok := f.r.lectures[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *lecture
	return &copied, nil
}

func (f *fakeLectureRepo) GetAllByCourse(ctx context.Context, courseID uint) ([]*models.Lecture, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	var out []*models.Lecture
	for _, lecture := range f.r.lectures {
		if lecture.CourseID == courseID {
			copied := *lecture
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeLectureRepo) Create(ctx context.Context, lecture *models.Lecture) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	f.r.nextLectureID++
	lecture.ID = f.r.nextLectureID
	stored := *lecture
	f.r.lectures[lecture.ID] = &stored
	return nil
}

func (f *fakeLectureRepo) Update(ctx context.Context, lecture *models.Lecture) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	if _, ok := f.r.lectures[lecture.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *lecture
	f.r.lectures[lecture.ID] = &stored
	return nil
}

func (f *fakeLectureRepo) Delete(ctx context.Context, id uint) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	delete(f.r.lectures, id)
	for solutionID, solution := range f.r.solutions {
		if solution.LectureID == id {
			delete(f.r.solutions, solutionID)
		}
	}
	return nil
}

func (f *fakeLectureRepo) GetAssignmentURL(ctx context.Context, lectureID uint) (string, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	lecture, ok := f.r.lectures[lectureID]
	if !ok {
		return "", repositories.ErrNotFound
	}
	return lecture.AssignmentURL, nil
}

// ===== solution repository =====

type fakeSolutionRepo struct{ r *fakeRepository }

func (f *fakeSolutionRepo) Get(ctx context.Context, userID, lectureID uint) (*models.Solution, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	for _, solution := range f.r.solutions {
		if solution.UserID == userID && solution.LectureID == lectureID {
			copied := *solution
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeSolutionRepo) GetAllByLecture(ctx context.Context, lectureID uint) ([]*models.Solution, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	var out []*models.Solution
	for _, solution := range f.r.solutions {
		if solution.LectureID == lectureID {
			copied := *solution
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeSolutionRepo) GetAllByUser(ctx context.Context, userID uint) ([]*models.Solution, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	var out []*models.Solution
	for _, solution := range f.r.solutions {
		if solution.UserID == userID {
			copied := *solution
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeSolutionRepo) Add(ctx context.Context, solution *models.Solution) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	f.r.nextSolutionID++
	solution.ID = f.r.nextSolutionID
	stored := *solution
	f.r.solutions[solution.ID] = &stored
	return nil
}

func (f *fakeSolutionRepo) UpdateURL(ctx context.Context, userID, lectureID uint, fileURL string) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	for _, solution := range f.r.solutions {
		if solution.UserID == userID && solution.LectureID == lectureID {
			solution.FileURL = fileURL
			solution.Grade = nil
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeSolutionRepo) AddGrade(ctx context.Context, solutionID uint, grade float64) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()

	solution, ok := f.r.solutions[solutionID]
	if !ok {
		return repositories.ErrNotFound
	}
	solution.Grade = &grade
	return nil
}

// testLogger discards log output
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.DiscardHandler)
}
