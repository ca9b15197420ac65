package services

import "errors"

// Sentinel errors consumed with errors.Is in the transport layer
var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrLectureNotFound  = errors.New("lecture not found")
	ErrSolutionNotFound = errors.New("solution not found")
	ErrRoleNotFound     = errors.New("role not found")

	ErrDuplicateCourseTitle = errors.New("course title already exists")
	ErrDuplicateEmail       = errors.New("email already exists")

	ErrCourseNotPublished = errors.New("course is not published")
	ErrValidationFailed   = errors.New("validation failed")
)

// PermissionError carries who tried what and the fixed denial reason shown
// to the caller.
type PermissionError struct {
	UserID     uint
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return e.Reason
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsPermissionError reports whether err is a permission denial
func IsPermissionError(err error) bool {
	var permErr *PermissionError
	return errors.As(err, &permErr)
}
