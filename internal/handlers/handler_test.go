package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andreyPromaster/Course/internal/database"
	"github.com/andreyPromaster/Course/internal/middleware"
	"github.com/andreyPromaster/Course/internal/models"
	"github.com/andreyPromaster/Course/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	authService := services.NewAuthService(db, testSecret)
	quizService := services.NewQuizService(db)
	attemptService := services.NewAttemptService(db)
	reportService := services.NewReportService(db)

	authHandler := NewAuthHandler(authService)
	quizHandler := NewQuizHandler(quizService)
	questionHandler := NewQuestionHandler(quizService)
	reportHandler := NewReportHandler(quizService, reportService)
	studentHandler := NewStudentHandler(attemptService)

	r := gin.New()
	api := r.Group("/api/v1")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/subjects", quizHandler.ListSubjects)

	quizzes := api.Group("/quizzes")
	quizzes.Use(middleware.JWTAuth(authService), middleware.RequireTeacher())
	{
		quizzes.GET("", quizHandler.ListQuizzes)
		quizzes.POST("", quizHandler.CreateQuiz)
		quizzes.GET("/:id", quizHandler.GetQuiz)
		quizzes.PUT("/:id", quizHandler.UpdateQuiz)
		quizzes.DELETE("/:id", quizHandler.DeleteQuiz)
		quizzes.POST("/:id/questions", questionHandler.CreateQuestion)
		quizzes.GET("/:id/results", reportHandler.QuizResults)
		quizzes.GET("/:id/students/:student_id/answers", reportHandler.StudentsAnswers)
		quizzes.GET("/:id/pdf", reportHandler.ExportQuizPDF)
	}

	questions := api.Group("/questions")
	questions.Use(middleware.JWTAuth(authService), middleware.RequireTeacher())
	{
		questions.PUT("/:id", questionHandler.UpdateQuestion)
		questions.DELETE("/:id", questionHandler.DeleteQuestion)
	}

	analytics := api.Group("/analytics")
	analytics.Use(middleware.JWTAuth(authService), middleware.RequireTeacher())
	{
		analytics.GET("/taken-quizzes", reportHandler.AnalyticsTakenQuizzes)
	}

	student := api.Group("/student")
	student.Use(middleware.JWTAuth(authService), middleware.RequireStudent())
	{
		student.GET("/quizzes", studentHandler.AvailableQuizzes)
		student.GET("/taken", studentHandler.TakenQuizzes)
		student.POST("/quizzes/:id/attempt", studentHandler.SubmitAttempt)
		student.GET("/interests", studentHandler.GetInterests)
		student.PUT("/interests", studentHandler.UpdateInterests)
	}

	return r, db
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerAccount(t *testing.T, r *gin.Engine, username, role string) string {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"password": "password123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAuthEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	registerAccount(t, r, "teacher1", "teacher")

	// duplicate username
	w := doRequest(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "teacher1", "password": "password123", "role": "teacher",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// role outside the closed set never reaches the service
	w = doRequest(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "admin1", "password": "password123", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "teacher1", "password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "teacher1", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestQuizLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerAccount(t, r, "teacher1", "teacher")

	w := doRequest(t, r, http.MethodPost, "/api/v1/quizzes", token, gin.H{"name": "Algebra"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var quiz models.Quiz
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quiz))

	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/v1/quizzes/%d/questions", quiz.ID), token, gin.H{"text": "2+2=?"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var question models.Question
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &question))

	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/v1/questions/%d", question.ID), token, gin.H{
		"text": "2+2=?",
		"answers": []gin.H{
			{"text": "3", "is_correct": false},
			{"text": "4", "is_correct": true},
			{"text": "5", "is_correct": false},
			{"text": "6", "is_correct": false},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// an answer set with two correct answers is rejected
	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/v1/questions/%d", question.ID), token, gin.H{
		"text": "2+2=?",
		"answers": []gin.H{
			{"text": "4", "is_correct": true},
			{"text": "four", "is_correct": true},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/v1/quizzes/%d", quiz.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.Quiz
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	require.Len(t, fetched.Questions, 1)
	assert.Len(t, fetched.Questions[0].Answers, 4)

	w = doRequest(t, r, http.MethodGet, "/api/v1/quizzes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []services.QuizSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].QuestionsCount)

	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/v1/quizzes/%d/pdf", quiz.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Algebra.pdf")
	assert.Equal(t, "%PDF", w.Body.String()[:4])

	w = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/quizzes/%d", quiz.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/v1/quizzes/%d", quiz.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthorization(t *testing.T) {
	r, _ := newTestRouter(t)
	teacherToken := registerAccount(t, r, "teacher1", "teacher")
	otherToken := registerAccount(t, r, "teacher2", "teacher")
	studentToken := registerAccount(t, r, "student1", "student")

	w := doRequest(t, r, http.MethodPost, "/api/v1/quizzes", teacherToken, gin.H{"name": "Algebra"})
	require.Equal(t, http.StatusCreated, w.Code)
	var quiz models.Quiz
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quiz))

	// someone else's quiz reads as missing, not forbidden
	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/v1/quizzes/%d", quiz.ID), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// wrong role
	w = doRequest(t, r, http.MethodGet, "/api/v1/quizzes", studentToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doRequest(t, r, http.MethodGet, "/api/v1/student/quizzes", teacherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// no or garbage token
	w = doRequest(t, r, http.MethodGet, "/api/v1/quizzes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doRequest(t, r, http.MethodGet, "/api/v1/quizzes", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStudentFlow(t *testing.T) {
	r, db := newTestRouter(t)
	teacherToken := registerAccount(t, r, "teacher1", "teacher")
	studentToken := registerAccount(t, r, "student1", "student")

	math := models.Subject{Name: "Mathematics", Color: "#007bff"}
	require.NoError(t, db.Create(&math).Error)

	w := doRequest(t, r, http.MethodPost, "/api/v1/quizzes", teacherToken, gin.H{
		"name": "Algebra", "subject_id": math.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var quiz models.Quiz
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quiz))

	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/v1/quizzes/%d/questions", quiz.ID), teacherToken, gin.H{"text": "2+2=?"})
	require.Equal(t, http.StatusCreated, w.Code)
	var question models.Question
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &question))

	w = doRequest(t, r, http.MethodPut, fmt.Sprintf("/api/v1/questions/%d", question.ID), teacherToken, gin.H{
		"text": "2+2=?",
		"answers": []gin.H{
			{"text": "3", "is_correct": false},
			{"text": "4", "is_correct": true},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &question))

	// nothing available until the subject is an interest
	w = doRequest(t, r, http.MethodGet, "/api/v1/student/quizzes", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var available []services.QuizSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &available))
	assert.Empty(t, available)

	w = doRequest(t, r, http.MethodPut, "/api/v1/student/interests", studentToken, gin.H{
		"subject_ids": []uint{math.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, r, http.MethodGet, "/api/v1/student/quizzes", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &available))
	require.Len(t, available, 1)
	assert.Equal(t, "Algebra", available[0].Name)

	var correct *models.Answer
	for i := range question.Answers {
		if question.Answers[i].Text == "4" {
			correct = &question.Answers[i]
		}
	}
	require.NotNil(t, correct)

	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/v1/student/quizzes/%d/attempt", quiz.ID), studentToken, gin.H{
		"answer_ids": []uint{correct.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var taken models.TakenQuiz
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &taken))
	assert.Equal(t, float64(100), taken.Score)

	// taken quizzes drop out of the available list
	w = doRequest(t, r, http.MethodGet, "/api/v1/student/quizzes", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &available))
	assert.Empty(t, available)

	w = doRequest(t, r, http.MethodGet, "/api/v1/student/taken", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []models.TakenQuiz
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "Algebra", history[0].Quiz.Name)

	// teacher side of the same attempt
	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/v1/quizzes/%d/results", quiz.ID), teacherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var results services.QuizResults
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	assert.Equal(t, int64(1), results.TotalTaken)
	assert.Equal(t, float64(100), results.AverageScore)

	w = doRequest(t, r, http.MethodGet, "/api/v1/analytics/taken-quizzes", teacherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var analytics AnalyticsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analytics))
	require.Len(t, analytics.Labels, 1)
	assert.Equal(t, []int64{1}, analytics.Data)
}
