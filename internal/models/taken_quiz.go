package models

import "time"

// TakenQuiz is one completed attempt. Rows are written once and never updated;
// a student may have several attempts for the same quiz.
type TakenQuiz struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	Student   User      `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	QuizID    uint      `gorm:"not null;index" json:"quiz_id"`
	Quiz      Quiz      `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
	Score     float64   `gorm:"not null" json:"score"`
	Date      time.Time `gorm:"not null;index" json:"date"`
}
