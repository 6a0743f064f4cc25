package models

import "time"

const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255" json:"email,omitempty"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:10;not null" json:"role"`
	Interests    []Subject `gorm:"many2many:student_interests" json:"interests,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
