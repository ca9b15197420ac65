package repositories

import (
	"testing"

	"github.com/alpha53/virtualteacher/internal/models"
)

func ptr[T any](v T) *T { return &v }

func catalogFixture() []*models.Course {
	return []*models.Course{
		{
			ID:        1,
			Title:     "Go Basics",
			Topic:     models.Topic{Name: "Programming"},
			Creator:   models.User{Email: "alice@example.com"},
			Published: true,
			AvgRating: ptr(4.5),
		},
		{
			ID:        2,
			Title:     "Advanced Go",
			Topic:     models.Topic{Name: "Programming"},
			Creator:   models.User{Email: "bob@example.com"},
			Published: true,
			AvgRating: ptr(3.0),
		},
		{
			ID:        3,
			Title:     "Watercolor Painting",
			Topic:     models.Topic{Name: "Art"},
			Creator:   models.User{Email: "alice@example.com"},
			Published: false,
			AvgRating: nil,
		},
	}
}

func filterCourses(filters CourseFilters, courses []*models.Course) []*models.Course {
	var out []*models.Course
	for _, course := range courses {
		if filters.Matches(course) {
			out = append(out, course)
		}
	}
	filters.Sort(out)
	return out
}

func courseIDs(courses []*models.Course) []uint {
	ids := make([]uint, len(courses))
	for i, course := range courses {
		ids[i] = course.ID
	}
	return ids
}

func TestCourseFiltersMatches(t *testing.T) {
	courses := catalogFixture()

	tests := []struct {
		name    string
		filters CourseFilters
		want    []uint
	}{
		{"no criteria", CourseFilters{}, []uint{1, 2, 3}},
		{"title substring", CourseFilters{Title: ptr("Go")}, []uint{1, 2}},
		{"title is case sensitive", CourseFilters{Title: ptr("go")}, nil},
		{"topic", CourseFilters{Topic: ptr("Art")}, []uint{3}},
		{"teacher email substring", CourseFilters{Teacher: ptr("alice")}, []uint{1, 3}},
		{"published only", CourseFilters{Published: ptr(true)}, []uint{1, 2}},
		{"min rating drops unrated", CourseFilters{MinRating: ptr(3.5)}, []uint{1}},
		{"zero min rating keeps unrated", CourseFilters{MinRating: ptr(0.0)}, []uint{1, 2, 3}},
		{"combined", CourseFilters{Title: ptr("Go"), MinRating: ptr(4.0)}, []uint{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := courseIDs(filterCourses(tt.filters, courses))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestCourseFiltersSort(t *testing.T) {
	tests := []struct {
		name    string
		filters CourseFilters
		want    []uint
	}{
		{"by title", CourseFilters{SortBy: "title"}, []uint{2, 1, 3}},
		{"by title desc", CourseFilters{SortBy: "title", SortOrder: "desc"}, []uint{3, 1, 2}},
		{"desc is case insensitive", CourseFilters{SortBy: "title", SortOrder: "DESC"}, []uint{3, 1, 2}},
		// Unrated courses sort below every rated one.
		{"by rating", CourseFilters{SortBy: "rating"}, []uint{3, 2, 1}},
		{"by rating desc", CourseFilters{SortBy: "rating", SortOrder: "desc"}, []uint{1, 2, 3}},
		// Unknown keys leave the input order untouched.
		{"unknown key", CourseFilters{SortBy: "created_at"}, []uint{1, 2, 3}},
		{"empty key", CourseFilters{}, []uint{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses := catalogFixture()
			tt.filters.Sort(courses)
			got := courseIDs(courses)
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func directoryFixture() []*models.User {
	return []*models.User{
		{ID: 1, Email: "alice@example.com", FirstName: "Alice", LastName: "Anders", Role: models.Role{Type: "Teacher"}},
		{ID: 2, Email: "bob@example.com", FirstName: "Bob", LastName: "Brown", Role: models.Role{Type: "Student"}},
		{ID: 3, Email: "carol@example.com", FirstName: "Carol", LastName: "Clark", Role: models.Role{Type: "Admin"}},
	}
}

func userIDs(users []*models.User) []uint {
	ids := make([]uint, len(users))
	for i, user := range users {
		ids[i] = user.ID
	}
	return ids
}

func TestUserFiltersMatches(t *testing.T) {
	users := directoryFixture()

	tests := []struct {
		name    string
		filters UserFilters
		want    []uint
	}{
		{"no criteria", UserFilters{}, []uint{1, 2, 3}},
		{"email substring", UserFilters{Email: ptr("bob")}, []uint{2}},
		{"first name", UserFilters{FirstName: ptr("Car")}, []uint{3}},
		{"role substring is case sensitive", UserFilters{RoleType: ptr("teacher")}, nil},
		{"role substring", UserFilters{RoleType: ptr("Teacher")}, []uint{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []uint
			for _, user := range users {
				if tt.filters.Matches(user) {
					got = append(got, user.ID)
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestUserFiltersSort(t *testing.T) {
	tests := []struct {
		name    string
		filters UserFilters
		want    []uint
	}{
		{"by email desc", UserFilters{SortBy: "email", SortOrder: "desc"}, []uint{3, 2, 1}},
		{"by last name", UserFilters{SortBy: "lastName"}, []uint{1, 2, 3}},
		{"by role type", UserFilters{SortBy: "roleType"}, []uint{3, 2, 1}},
		{"unknown key keeps order", UserFilters{SortBy: "id"}, []uint{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := directoryFixture()
			tt.filters.Sort(users)
			got := userIDs(users)
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
