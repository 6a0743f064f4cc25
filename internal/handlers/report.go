package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/andreyPromaster/Course/internal/pdf"
	"github.com/andreyPromaster/Course/internal/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	quizService   *services.QuizService
	reportService *services.ReportService
}

func NewReportHandler(quizService *services.QuizService, reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{quizService: quizService, reportService: reportService}
}

type AnalyticsResponse struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

// QuizResults godoc
// @Summary      Quiz results
// @Description  Attempts of an own quiz with total count and average score
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Success      200 {object} services.QuizResults
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/results [get]
func (h *ReportHandler) QuizResults(c *gin.Context) {
	userID := c.GetUint("user_id")
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid quiz id"})
		return
	}

	results, err := h.reportService.Results(uint(quizID), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// StudentsAnswers godoc
// @Summary      Review a student's answers
// @Description  Candidate answers per question of an own quiz plus the answers the student selected
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Param        student_id path int true "Student ID"
// @Success      200 {object} services.StudentAnswersReview
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/students/{student_id}/answers [get]
func (h *ReportHandler) StudentsAnswers(c *gin.Context) {
	userID := c.GetUint("user_id")
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid quiz id"})
		return
	}
	studentID, err := strconv.ParseUint(c.Param("student_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid student id"})
		return
	}

	review, err := h.reportService.StudentsAnswers(uint(quizID), userID, uint(studentID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// ExportQuizPDF godoc
// @Summary      Export a quiz as PDF
// @Description  Render an own quiz into a PDF document, generated in memory
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/pdf [get]
func (h *ReportHandler) ExportQuizPDF(c *gin.Context) {
	userID := c.GetUint("user_id")
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid quiz id"})
		return
	}

	quiz, err := h.quizService.GetQuiz(uint(quizID), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	document, err := pdf.RenderQuiz(quiz)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.pdf\"", safeFilename(quiz.Name)))
	c.Data(http.StatusOK, "application/pdf", document)
}

// AnalyticsTakenQuizzes godoc
// @Summary      Attempt analytics
// @Description  Attempt counts on the teacher's quizzes grouped by calendar day
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} AnalyticsResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/analytics/taken-quizzes [get]
func (h *ReportHandler) AnalyticsTakenQuizzes(c *gin.Context) {
	userID := c.GetUint("user_id")

	labels, data, err := h.reportService.AnalyticsByDay(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, AnalyticsResponse{Labels: labels, Data: data})
}

// safeFilename keeps the download name header-safe regardless of what the quiz
// is called.
func safeFilename(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, name)
	if mapped == "" {
		return "quiz"
	}
	return mapped
}
