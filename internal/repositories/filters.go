package repositories

import (
	"sort"
	"strings"

	"github.com/alpha53/virtualteacher/internal/models"
)

// CourseSortKey enumerates the sort keys the course listing accepts. Anything
// else leaves the result in storage order.
type CourseSortKey string

const (
	CourseSortNone   CourseSortKey = ""
	CourseSortTitle  CourseSortKey = "title"
	CourseSortRating CourseSortKey = "rating"
)

// Column returns the SQL expression the key orders by, or "" for keys the
// engine does not recognize.
func (k CourseSortKey) Column() string {
	switch k {
	case CourseSortTitle:
		return "title"
	case CourseSortRating:
		return "avg_rating"
	default:
		return ""
	}
}

// CourseFilters is the course listing specification. Absent (nil) fields do
// not constrain; present fields are combined with AND. String criteria are
// case-sensitive substring matches.
type CourseFilters struct {
	Title     *string
	Topic     *string
	Teacher   *string
	MinRating *float64
	Published *bool

	SortBy    string
	SortOrder string
}

// Matches reports whether the course satisfies every present criterion.
// A MinRating of zero also admits unrated courses (nil average).
func (f CourseFilters) Matches(c *models.Course) bool {
	if f.Title != nil && !strings.Contains(c.Title, *f.Title) {
		return false
	}
	if f.Topic != nil && !strings.Contains(c.Topic.Name, *f.Topic) {
		return false
	}
	if f.Teacher != nil && !strings.Contains(c.Creator.Email, *f.Teacher) {
		return false
	}
	if f.Published != nil && c.Published != *f.Published {
		return false
	}
	if f.MinRating != nil {
		if c.AvgRating == nil {
			if *f.MinRating != 0 {
				return false
			}
		} else if *c.AvgRating < *f.MinRating {
			return false
		}
	}
	return true
}

// Sort orders the slice in place by the requested key. Unrecognized keys sort
// nothing. Descending order applies only when SortOrder equals "desc",
// compared case-insensitively.
func (f CourseFilters) Sort(courses []*models.Course) {
	key := CourseSortKey(f.SortBy)
	if key.Column() == "" {
		return
	}
	desc := strings.EqualFold(f.SortOrder, "desc")
	sort.SliceStable(courses, func(i, j int) bool {
		a, b := courses[i], courses[j]
		if desc {
			a, b = b, a
		}
		switch key {
		case CourseSortTitle:
			return a.Title < b.Title
		case CourseSortRating:
			return ratingOrZero(a) < ratingOrZero(b)
		}
		return false
	})
}

// Unrated courses sort below every rated one.
func ratingOrZero(c *models.Course) float64 {
	if c.AvgRating == nil {
		return -1
	}
	return *c.AvgRating
}

// UserSortKey enumerates the sort keys the user listing accepts.
type UserSortKey string

const (
	UserSortNone      UserSortKey = ""
	UserSortEmail     UserSortKey = "email"
	UserSortFirstName UserSortKey = "firstName"
	UserSortLastName  UserSortKey = "lastName"
	UserSortRoleType  UserSortKey = "roleType"
)

func (k UserSortKey) Column() string {
	switch k {
	case UserSortEmail:
		return "email"
	case UserSortFirstName:
		return "first_name"
	case UserSortLastName:
		return "last_name"
	case UserSortRoleType:
		return "role"
	default:
		return ""
	}
}

// UserFilters is the user listing specification; same semantics as
// CourseFilters.
type UserFilters struct {
	Email     *string
	FirstName *string
	LastName  *string
	RoleType  *string

	SortBy    string
	SortOrder string
}

func (f UserFilters) Matches(u *models.User) bool {
	if f.Email != nil && !strings.Contains(u.Email, *f.Email) {
		return false
	}
	if f.FirstName != nil && !strings.Contains(u.FirstName, *f.FirstName) {
		return false
	}
	if f.LastName != nil && !strings.Contains(u.LastName, *f.LastName) {
		return false
	}
	if f.RoleType != nil && !strings.Contains(u.Role.Type, *f.RoleType) {
		return false
	}
	return true
}

func (f UserFilters) Sort(users []*models.User) {
	key := UserSortKey(f.SortBy)
	if key.Column() == "" {
		return
	}
	desc := strings.EqualFold(f.SortOrder, "desc")
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if desc {
			a, b = b, a
		}
		switch key {
		case UserSortEmail:
			return a.Email < b.Email
		case UserSortFirstName:
			return a.FirstName < b.FirstName
		case UserSortLastName:
			return a.LastName < b.LastName
		case UserSortRoleType:
			return a.Role.Type < b.Role.Type
		}
		return false
	})
}
