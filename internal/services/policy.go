package services

import (
	"github.com/alpha53/virtualteacher/internal/models"
)

// Fixed denial reasons. These are part of the API surface; clients match on
// the exact text.
const (
	ReasonOnlyTeacherOrAdminCanCreate = "Only teacher or admin can create course."
	ReasonOnlyCreatorCanModify        = "Only  creator or admin can modify a course."
	ReasonEmailUpdate                 = "Email cannot be updated."
	ReasonRoleUpdate                  = "Role cannot be updated."
	ReasonDeleteUser                  = "You are not authorized to delete this user."
	ReasonDeleteTeacher               = "Teachers cannot be deleted until all courses created by them are transferred."
	ReasonPendingValidation           = "Your registration is being reviewed and currently you cannot update profile details."
	ReasonOnlyStudentsCanEnroll       = "Only students can enroll in a course."
	ReasonRateCompletedOnly           = "Only students who have completed the course can rate it."
	ReasonNotEnrolled                 = "You must be enrolled in the course to submit a solution."
	ReasonOnlyCreatorCanGrade         = "Only the course creator or admin can grade solutions."
	ReasonOnlyAdminCanTransfer        = "Only admin can transfer courses between teachers."
	ReasonNotAuthorizedToView         = "You are not authorized to view these solutions."
)

// AuthorizationPolicy holds the pure permission decisions of the domain.
// Every method returns nil when allowed and a *PermissionError otherwise;
// nothing here touches storage.
type AuthorizationPolicy struct{}

func NewAuthorizationPolicy() *AuthorizationPolicy {
	return &AuthorizationPolicy{}
}

// CanCreateCourse allows teachers and admins
func (p *AuthorizationPolicy) CanCreateCourse(actor *models.User) error {
	if actor.Role.Is(models.RoleTeacher) || actor.Role.Is(models.RoleAdmin) {
		return nil
	}
	return NewPermissionError(actor.ID, 0, "course", "create", ReasonOnlyTeacherOrAdminCanCreate)
}

// CanModifyCourse allows the course creator and admins. The creator must
// come from the stored course row, never from the request payload.
func (p *AuthorizationPolicy) CanModifyCourse(actor *models.User, course *models.Course) error {
	if course.CreatorID == actor.ID || actor.Role.Is(models.RoleAdmin) {
		return nil
	}
	return NewPermissionError(actor.ID, course.ID, "course", "modify", ReasonOnlyCreatorCanModify)
}

func (p *AuthorizationPolicy) CanDeleteCourse(actor *models.User, course *models.Course) error {
	if course.CreatorID == actor.ID || actor.Role.Is(models.RoleAdmin) {
		return nil
	}
	return NewPermissionError(actor.ID, course.ID, "course", "delete", ReasonOnlyCreatorCanModify)
}

// CanUpdateProfile gates profile edits. The email is immutable, pending
// teachers are frozen until reviewed, and the role may not change. The role
// comparison is deliberately case-sensitive: "admin" for "Admin" is a
// mismatch.
func (p *AuthorizationPolicy) CanUpdateProfile(actor *models.User, desiredEmail, desiredRole string) error {
	if actor.Email != desiredEmail {
		return NewPermissionError(actor.ID, actor.ID, "user", "update", ReasonEmailUpdate)
	}
	if actor.Role.Is(models.RolePendingTeacher) {
		return NewPermissionError(actor.ID, actor.ID, "user", "update", ReasonPendingValidation)
	}
	if actor.Role.Type != desiredRole {
		return NewPermissionError(actor.ID, actor.ID, "user", "update", ReasonRoleUpdate)
	}
	return nil
}

// CanDeleteUser allows self-deletion and admins
func (p *AuthorizationPolicy) CanDeleteUser(actor *models.User, targetID uint) error {
	if actor.ID == targetID || actor.Role.Is(models.RoleAdmin) {
		return nil
	}
	return NewPermissionError(actor.ID, targetID, "user", "delete", ReasonDeleteUser)
}

// CanDeleteTeacher blocks deleting a teacher who still owns courses
func (p *AuthorizationPolicy) CanDeleteTeacher(target *models.User, createdCourses int) error {
	if target.Role.Is(models.RoleTeacher) && createdCourses > 0 {
		return NewPermissionError(target.ID, target.ID, "user", "delete", ReasonDeleteTeacher)
	}
	return nil
}

// CanEnroll allows students only
func (p *AuthorizationPolicy) CanEnroll(actor *models.User, courseID uint) error {
	if actor.Role.Is(models.RoleStudent) {
		return nil
	}
	return NewPermissionError(actor.ID, courseID, "course", "enroll", ReasonOnlyStudentsCanEnroll)
}

// CanGradeSolution allows the course creator and admins
func (p *AuthorizationPolicy) CanGradeSolution(actor *models.User, course *models.Course) error {
	if course.CreatorID == actor.ID || actor.Role.Is(models.RoleAdmin) {
		return nil
	}
	return NewPermissionError(actor.ID, course.ID, "solution", "grade", ReasonOnlyCreatorCanGrade)
}

// CanTransferCourses allows admins only
func (p *AuthorizationPolicy) CanTransferCourses(actor *models.User) error {
	if actor.Role.Is(models.RoleAdmin) {
		return nil
	}
	return NewPermissionError(actor.ID, 0, "course", "transfer", ReasonOnlyAdminCanTransfer)
}
