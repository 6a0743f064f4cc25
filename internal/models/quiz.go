package models

import "time"

type Quiz struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	OwnerID   uint       `gorm:"not null;index" json:"owner_id"`
	Owner     User       `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	SubjectID *uint      `gorm:"index" json:"subject_id,omitempty"`
	Subject   *Subject   `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
