package models

import "time"

type Lecture struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	Title         string `json:"title" gorm:"not null;size:200"`
	VideoURL      string `json:"video_url" gorm:"column:video_url;not null"`
	AssignmentURL string `json:"assignment_url" gorm:"column:assignment_url;not null"`
	CourseID      uint   `json:"course_id" gorm:"not null;index"`

	Description *LectureDescription `json:"description,omitempty" gorm:"foreignKey:LectureID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lecture) TableName() string {
	return "lectures"
}

type LectureDescription struct {
	LectureID uint   `json:"lecture_id" gorm:"primaryKey"`
	Body      string `json:"description" gorm:"column:description;type:text;not null"`
}

func (LectureDescription) TableName() string {
	return "lecture_description"
}

func (d LectureDescription) Text() string {
	return d.Body
}

type Solution struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	UserID    uint     `json:"user_id" gorm:"not null;index"`
	LectureID uint     `json:"lecture_id" gorm:"not null;index"`
	FileURL   string   `json:"file_url" gorm:"column:file_url;not null"`
	Grade     *float64 `json:"grade,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Solution) TableName() string {
	return "solutions"
}
