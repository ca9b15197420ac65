package models

import (
	"time"

	"gorm.io/datatypes"
)

type Topic struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"column:topic;uniqueIndex;not null"`
}

func (Topic) TableName() string {
	return "topics"
}

type Course struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Title        string         `json:"title" gorm:"uniqueIndex;not null;size:200"`
	TopicID      uint           `json:"topic_id" gorm:"not null"`
	StartDate    datatypes.Date `json:"start_date"`
	CreatorID    uint           `json:"creator_id" gorm:"not null"`
	Published    bool           `json:"published" gorm:"default:false"`
	PassingGrade float64        `json:"passing_grade" gorm:"default:3"`

	// Relations
	Topic       Topic              `json:"topic" gorm:"foreignKey:TopicID"`
	Creator     User               `json:"creator" gorm:"foreignKey:CreatorID"`
	Description *CourseDescription `json:"description,omitempty" gorm:"foreignKey:CourseID"`

	// Scanned from AVG(ratings.rating); nil when the course has no ratings.
	AvgRating *float64 `json:"avg_rating,omitempty" gorm:"->;-:migration"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

type CourseDescription struct {
	CourseID uint   `json:"course_id" gorm:"primaryKey"`
	Body     string `json:"description" gorm:"column:description;type:text;not null"`
}

func (CourseDescription) TableName() string {
	return "course_description"
}

func (d CourseDescription) Text() string {
	return d.Body
}

// Rating rows are append-only: re-rating a course adds another row and the
// average simply widens.
type Rating struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	CourseID uint    `json:"course_id" gorm:"not null;index"`
	UserID   uint    `json:"user_id" gorm:"not null"`
	Rating   float64 `json:"rating" gorm:"not null"`
	Comment  *string `json:"comment,omitempty" gorm:"size:500"`

	User User `json:"user" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"created_at"`
}

func (Rating) TableName() string {
	return "ratings"
}

// Enrollment links a user to a course. Ongoing is true while the student is
// taking the course and flips to false on completion; the two states are
// mutually exclusive for a row.
type Enrollment struct {
	UserID   uint `json:"user_id" gorm:"primaryKey"`
	CourseID uint `json:"course_id" gorm:"primaryKey"`
	Ongoing  bool `json:"ongoing" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Enrollment) TableName() string {
	return "course_user"
}
