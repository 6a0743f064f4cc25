package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andreyPromaster/Course/internal/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

// ListFilter holds the raw query parameters of the quiz list. Unknown subject
// and ordering values are ignored rather than rejected, so stale client URLs
// keep working.
type ListFilter struct {
	Query    string
	Subject  string
	Ordering string
}

type QuizSummary struct {
	models.Quiz
	QuestionsCount int64 `json:"questions_count"`
	TakenCount     int64 `json:"taken_count"`
}

func (s *QuizService) ListQuizzes(ownerID uint, filter ListFilter) ([]QuizSummary, error) {
	q := s.db.Model(&models.Quiz{}).
		Select("quizzes.*, " +
			"(SELECT COUNT(*) FROM questions WHERE questions.quiz_id = quizzes.id) AS questions_count, " +
			"(SELECT COUNT(*) FROM taken_quizzes WHERE taken_quizzes.quiz_id = quizzes.id) AS taken_count").
		Where("quizzes.owner_id = ?", ownerID)

	if filter.Query != "" {
		q = q.Where("LOWER(quizzes.name) LIKE ?", "%"+strings.ToLower(filter.Query)+"%")
	}
	if filter.Subject != "" {
		if subjectID, err := strconv.Atoi(filter.Subject); err == nil {
			q = q.Where("quizzes.subject_id = ?", subjectID)
		}
	}

	switch filter.Ordering {
	case "name":
		q = q.Order("quizzes.name ASC")
	case "-name":
		q = q.Order("quizzes.name DESC")
	default:
		q = q.Order("quizzes.created_at DESC")
	}

	quizzes := []QuizSummary{}
	if err := q.Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (s *QuizService) ListSubjects() ([]models.Subject, error) {
	var subjects []models.Subject
	if err := s.db.Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (s *QuizService) CreateQuiz(ownerID uint, name string, subjectID *uint) (*models.Quiz, error) {
	if subjectID != nil {
		var subject models.Subject
		if err := s.db.First(&subject, *subjectID).Error; err != nil {
			return nil, ErrSubjectNotFound
		}
	}

	quiz := models.Quiz{
		OwnerID:   ownerID,
		SubjectID: subjectID,
		Name:      name,
	}
	if err := s.db.Create(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *QuizService) GetQuiz(quizID, ownerID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.Where("id = ? AND owner_id = ?", quizID, ownerID).
		Preload("Subject").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&quiz).Error
	if err != nil {
		return nil, ErrQuizNotFound
	}
	return &quiz, nil
}

func (s *QuizService) UpdateQuiz(quizID, ownerID uint, name string, subjectID *uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := s.db.Where("id = ? AND owner_id = ?", quizID, ownerID).First(&quiz).Error; err != nil {
		return nil, ErrQuizNotFound
	}

	if subjectID != nil {
		var subject models.Subject
		if err := s.db.First(&subject, *subjectID).Error; err != nil {
			return nil, ErrSubjectNotFound
		}
	}

	quiz.Name = name
	quiz.SubjectID = subjectID
	if err := s.db.Save(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *QuizService) DeleteQuiz(quizID, ownerID uint) error {
	var quiz models.Quiz
	if err := s.db.Where("id = ? AND owner_id = ?", quizID, ownerID).First(&quiz).Error; err != nil {
		return ErrQuizNotFound
	}

	tx := s.db.Begin()
	steps := []error{
		tx.Where("answer_id IN (SELECT id FROM answers WHERE question_id IN (SELECT id FROM questions WHERE quiz_id = ?))", quizID).
			Delete(&models.StudentAnswer{}).Error,
		tx.Where("question_id IN (SELECT id FROM questions WHERE quiz_id = ?)", quizID).
			Delete(&models.Answer{}).Error,
		tx.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error,
		tx.Where("quiz_id = ?", quizID).Delete(&models.TakenQuiz{}).Error,
		tx.Delete(&quiz).Error,
	}
	for _, err := range steps {
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}

func (s *QuizService) CreateQuestion(quizID, ownerID uint, text string) (*models.Question, error) {
	var quiz models.Quiz
	if err := s.db.Where("id = ? AND owner_id = ?", quizID, ownerID).First(&quiz).Error; err != nil {
		return nil, ErrQuizNotFound
	}

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: question text must not be empty", ErrValidation)
	}

	question := models.Question{
		QuizID: quizID,
		Text:   text,
	}
	if err := s.db.Create(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

type AnswerInput struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// UpdateQuestion replaces the question text and its whole answer set in one
// transaction: either both are persisted or neither is.
func (s *QuizService) UpdateQuestion(questionID, ownerID uint, text string, answers []AnswerInput) (*models.Question, error) {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		return nil, ErrQuestionNotFound
	}

	var quiz models.Quiz
	if err := s.db.Where("id = ? AND owner_id = ?", question.QuizID, ownerID).First(&quiz).Error; err != nil {
		return nil, ErrQuestionNotFound
	}

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: question text must not be empty", ErrValidation)
	}
	if err := validateAnswerSet(answers); err != nil {
		return nil, err
	}

	tx := s.db.Begin()

	question.Text = text
	if err := tx.Save(&question).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Where("question_id = ?", questionID).Delete(&models.Answer{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, a := range answers {
		answer := models.Answer{
			QuestionID: questionID,
			Text:       a.Text,
			IsCorrect:  a.IsCorrect,
		}
		if err := tx.Create(&answer).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.db.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&question, questionID)
	return &question, nil
}

func (s *QuizService) DeleteQuestion(questionID, ownerID uint) error {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		return ErrQuestionNotFound
	}

	var quiz models.Quiz
	if err := s.db.Where("id = ? AND owner_id = ?", question.QuizID, ownerID).First(&quiz).Error; err != nil {
		return ErrQuestionNotFound
	}

	tx := s.db.Begin()
	steps := []error{
		tx.Where("answer_id IN (SELECT id FROM answers WHERE question_id = ?)", questionID).
			Delete(&models.StudentAnswer{}).Error,
		tx.Where("question_id = ?", questionID).Delete(&models.Answer{}).Error,
		tx.Delete(&question).Error,
	}
	for _, err := range steps {
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}

func validateAnswerSet(answers []AnswerInput) error {
	if len(answers) < 2 || len(answers) > 10 {
		return fmt.Errorf("%w: a question must have 2 to 10 answers", ErrValidation)
	}
	correct := 0
	for _, a := range answers {
		if strings.TrimSpace(a.Text) == "" {
			return fmt.Errorf("%w: answer text must not be empty", ErrValidation)
		}
		if a.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("%w: exactly one answer must be marked as correct", ErrValidation)
	}
	return nil
}
