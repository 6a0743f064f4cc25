package models

// StudentAnswer records a single selected answer of a student's attempt.
type StudentAnswer struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	StudentID uint   `gorm:"not null;index" json:"student_id"`
	AnswerID  uint   `gorm:"not null;index" json:"answer_id"`
	Answer    Answer `gorm:"foreignKey:AnswerID" json:"answer,omitempty"`
}
