package services

import (
	"fmt"
	"math"
	"time"

	"github.com/andreyPromaster/Course/internal/models"

	"gorm.io/gorm"
)

type AttemptService struct {
	db *gorm.DB
}

func NewAttemptService(db *gorm.DB) *AttemptService {
	return &AttemptService{db: db}
}

func (s *AttemptService) student(studentID uint) (*models.User, error) {
	var student models.User
	err := s.db.Where("id = ? AND role = ?", studentID, models.RoleStudent).First(&student).Error
	if err != nil {
		return nil, ErrStudentNotFound
	}
	return &student, nil
}

// AvailableQuizzes lists quizzes in the student's interest subjects that have
// at least one question and were not taken yet.
func (s *AttemptService) AvailableQuizzes(studentID uint) ([]QuizSummary, error) {
	if _, err := s.student(studentID); err != nil {
		return nil, err
	}

	quizzes := []QuizSummary{}
	err := s.db.Model(&models.Quiz{}).
		Select("quizzes.*, "+
			"(SELECT COUNT(*) FROM questions WHERE questions.quiz_id = quizzes.id) AS questions_count, "+
			"(SELECT COUNT(*) FROM taken_quizzes WHERE taken_quizzes.quiz_id = quizzes.id) AS taken_count").
		Where("quizzes.subject_id IN (SELECT subject_id FROM student_interests WHERE user_id = ?)", studentID).
		Where("quizzes.id NOT IN (SELECT quiz_id FROM taken_quizzes WHERE student_id = ?)", studentID).
		Where("(SELECT COUNT(*) FROM questions WHERE questions.quiz_id = quizzes.id) > 0").
		Order("quizzes.created_at DESC").
		Find(&quizzes).Error
	if err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (s *AttemptService) TakenQuizzes(studentID uint) ([]models.TakenQuiz, error) {
	if _, err := s.student(studentID); err != nil {
		return nil, err
	}

	taken := []models.TakenQuiz{}
	err := s.db.Where("student_id = ?", studentID).
		Preload("Quiz").
		Preload("Quiz.Subject").
		Order("date DESC").
		Find(&taken).Error
	if err != nil {
		return nil, err
	}
	return taken, nil
}

// SubmitAttempt grades a one-shot submission: exactly one selected answer per
// question of the quiz. The selected-answer rows and the attempt row are
// written in a single transaction.
func (s *AttemptService) SubmitAttempt(studentID, quizID uint, answerIDs []uint) (*models.TakenQuiz, error) {
	if _, err := s.student(studentID); err != nil {
		return nil, err
	}

	var quiz models.Quiz
	err := s.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Preload("Questions.Answers").First(&quiz, quizID).Error
	if err != nil {
		return nil, ErrQuizNotFound
	}

	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("%w: quiz has no questions", ErrValidation)
	}

	type answerInfo struct {
		questionID uint
		isCorrect  bool
	}
	answerSet := make(map[uint]answerInfo)
	for _, q := range quiz.Questions {
		for _, a := range q.Answers {
			answerSet[a.ID] = answerInfo{questionID: a.QuestionID, isCorrect: a.IsCorrect}
		}
	}

	answered := make(map[uint]bool)
	correct := 0
	for _, id := range answerIDs {
		info, ok := answerSet[id]
		if !ok {
			return nil, fmt.Errorf("%w: answer %d does not belong to this quiz", ErrValidation, id)
		}
		if answered[info.questionID] {
			return nil, fmt.Errorf("%w: multiple answers selected for one question", ErrValidation)
		}
		answered[info.questionID] = true
		if info.isCorrect {
			correct++
		}
	}
	if len(answered) != len(quiz.Questions) {
		return nil, fmt.Errorf("%w: every question must be answered", ErrValidation)
	}

	score := math.Round(float64(correct)/float64(len(quiz.Questions))*100*100) / 100

	tx := s.db.Begin()
	for _, id := range answerIDs {
		sa := models.StudentAnswer{StudentID: studentID, AnswerID: id}
		if err := tx.Create(&sa).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	taken := models.TakenQuiz{
		StudentID: studentID,
		QuizID:    quizID,
		Score:     score,
		Date:      time.Now(),
	}
	if err := tx.Create(&taken).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &taken, nil
}

func (s *AttemptService) Interests(studentID uint) ([]models.Subject, error) {
	student, err := s.student(studentID)
	if err != nil {
		return nil, err
	}

	subjects := []models.Subject{}
	if err := s.db.Model(student).Order("name ASC").Association("Interests").Find(&subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (s *AttemptService) UpdateInterests(studentID uint, subjectIDs []uint) ([]models.Subject, error) {
	student, err := s.student(studentID)
	if err != nil {
		return nil, err
	}

	subjects := []models.Subject{}
	if len(subjectIDs) == 0 {
		if err := s.db.Model(student).Association("Interests").Clear(); err != nil {
			return nil, err
		}
		return subjects, nil
	}

	if err := s.db.Where("id IN ?", subjectIDs).Find(&subjects).Error; err != nil {
		return nil, err
	}
	if len(subjects) != len(subjectIDs) {
		return nil, ErrSubjectNotFound
	}

	if err := s.db.Model(student).Association("Interests").Replace(&subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}
