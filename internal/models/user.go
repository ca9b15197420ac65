package models

import (
	"strings"
	"time"
)

// Role types as stored in the roles table. Comparison is case-insensitive
// everywhere (the database seeds may use any casing).
const (
	RoleStudent        = "Student"
	RoleTeacher        = "Teacher"
	RolePendingTeacher = "PendingTeacher"
	RoleAdmin          = "Admin"
)

type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Type string `json:"type" gorm:"column:role;uniqueIndex;not null"`
}

func (Role) TableName() string {
	return "roles"
}

// Is reports whether the role matches the given type, ignoring case.
func (r Role) Is(roleType string) bool {
	return strings.EqualFold(r.Type, roleType)
}

type User struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	Email      string  `json:"email" gorm:"uniqueIndex;not null"`
	Password   string  `json:"-" gorm:"not null"`
	FirstName  string  `json:"first_name" gorm:"column:first_name;not null"`
	LastName   string  `json:"last_name" gorm:"column:last_name;not null"`
	PictureURL *string `json:"picture_url,omitempty" gorm:"column:profile_picture"`
	RoleID     uint    `json:"role_id" gorm:"not null"`
	Verified   bool    `json:"verified" gorm:"default:false"`

	// Relations
	Role Role `json:"role" gorm:"foreignKey:RoleID"`

	// Ongoing courses, attached by the repository on single-user lookups.
	Courses []Course `json:"courses,omitempty" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
