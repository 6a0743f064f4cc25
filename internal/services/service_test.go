package services

import (
	"testing"
	"time"

	"github.com/andreyPromaster/Course/internal/database"
	"github.com/andreyPromaster/Course/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// one connection so the in-memory database is shared across sessions
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedSubject(t *testing.T, db *gorm.DB, name string) *models.Subject {
	t.Helper()
	subject := &models.Subject{Name: name, Color: "#007bff"}
	require.NoError(t, db.Create(subject).Error)
	return subject
}

func seedQuiz(t *testing.T, db *gorm.DB, ownerID uint, name string, subjectID *uint) *models.Quiz {
	t.Helper()
	quiz := &models.Quiz{OwnerID: ownerID, Name: name, SubjectID: subjectID}
	require.NoError(t, db.Create(quiz).Error)
	return quiz
}

// seedQuestion creates a question with the given answer texts; the answer at
// correctIdx is the correct one.
func seedQuestion(t *testing.T, db *gorm.DB, quizID uint, text string, answerTexts []string, correctIdx int) *models.Question {
	t.Helper()
	question := &models.Question{QuizID: quizID, Text: text}
	require.NoError(t, db.Create(question).Error)
	for i, at := range answerTexts {
		answer := &models.Answer{QuestionID: question.ID, Text: at, IsCorrect: i == correctIdx}
		require.NoError(t, db.Create(answer).Error)
	}
	require.NoError(t, db.Preload("Answers").First(question, question.ID).Error)
	return question
}

func seedTakenQuiz(t *testing.T, db *gorm.DB, studentID, quizID uint, score float64, date time.Time) *models.TakenQuiz {
	t.Helper()
	taken := &models.TakenQuiz{StudentID: studentID, QuizID: quizID, Score: score, Date: date}
	require.NoError(t, db.Create(taken).Error)
	return taken
}
