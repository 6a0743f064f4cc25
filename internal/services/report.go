package services

import (
	"github.com/andreyPromaster/Course/internal/models"

	"gorm.io/gorm"
)

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

type QuizResults struct {
	Quiz         models.Quiz        `json:"quiz"`
	TakenQuizzes []models.TakenQuiz `json:"taken_quizzes"`
	TotalTaken   int64              `json:"total_taken"`
	AverageScore float64            `json:"average_score"`
}

func (s *ReportService) Results(quizID, ownerID uint) (*QuizResults, error) {
	var quiz models.Quiz
	if err := s.db.Where("id = ? AND owner_id = ?", quizID, ownerID).Preload("Subject").First(&quiz).Error; err != nil {
		return nil, ErrQuizNotFound
	}

	taken := []models.TakenQuiz{}
	err := s.db.Where("quiz_id = ?", quizID).
		Preload("Student").
		Order("date DESC").
		Find(&taken).Error
	if err != nil {
		return nil, err
	}

	var avg float64
	err = s.db.Model(&models.TakenQuiz{}).
		Where("quiz_id = ?", quizID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}

	return &QuizResults{
		Quiz:         quiz,
		TakenQuizzes: taken,
		TotalTaken:   int64(len(taken)),
		AverageScore: avg,
	}, nil
}

type QuestionAnswers struct {
	Question string          `json:"question"`
	Answers  []models.Answer `json:"answers"`
}

type StudentAnswersReview struct {
	Quiz            models.Quiz       `json:"quiz"`
	Student         models.User       `json:"student"`
	Questions       []QuestionAnswers `json:"questions"`
	StudentsAnswers []models.Answer   `json:"students_answers"`
}

// StudentsAnswers builds the per-question candidate answers of the teacher's
// quiz plus the flat list of answers this student selected. A student who
// never attempted the quiz yields an empty selection, not an error.
func (s *ReportService) StudentsAnswers(quizID, ownerID, studentID uint) (*StudentAnswersReview, error) {
	var quiz models.Quiz
	err := s.db.Where("id = ? AND owner_id = ?", quizID, ownerID).
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

	var student models.User
	if err := s.db.Where("id = ? AND role = ?", studentID, models.RoleStudent).First(&student).Error; err != nil {
		return nil, ErrStudentNotFound
	}

	questions := make([]QuestionAnswers, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, QuestionAnswers{Question: q.Text, Answers: q.Answers})
	}

	selected := []models.Answer{}
	err = s.db.Select("answers.*").
		Joins("JOIN student_answers ON student_answers.answer_id = answers.id").
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("student_answers.student_id = ? AND questions.quiz_id = ?", studentID, quizID).
		Order("answers.id ASC").
		Find(&selected).Error
	if err != nil {
		return nil, err
	}

	return &StudentAnswersReview{
		Quiz:            quiz,
		Student:         student,
		Questions:       questions,
		StudentsAnswers: selected,
	}, nil
}

// AnalyticsByDay returns parallel label/count slices of attempts on the
// teacher's quizzes grouped by calendar day, ascending. Days without attempts
// are absent rather than zero-filled.
func (s *ReportService) AnalyticsByDay(ownerID uint) ([]string, []int64, error) {
	var taken []models.TakenQuiz
	err := s.db.Select("taken_quizzes.*").
		Joins("JOIN quizzes ON quizzes.id = taken_quizzes.quiz_id").
		Where("quizzes.owner_id = ?", ownerID).
		Order("taken_quizzes.date ASC").
		Find(&taken).Error
	if err != nil {
		return nil, nil, err
	}

	labels := []string{}
	data := []int64{}
	for _, t := range taken {
		label := t.Date.Format("01/02/2006")
		if n := len(labels); n > 0 && labels[n-1] == label {
			data[n-1]++
			continue
		}
		labels = append(labels, label)
		data = append(data, 1)
	}
	return labels, data, nil
}
