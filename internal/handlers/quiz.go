package handlers

import (
	"net/http"
	"strconv"

	"github.com/andreyPromaster/Course/internal/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

type QuizRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=255" example:"Algebra basics"`
	SubjectID *uint  `json:"subject_id" example:"1"`
}

// ListQuizzes godoc
// @Summary      List own quizzes
// @Description  Get the teacher's quizzes with question and attempt counts. Supports q (name contains), subject (id) and ordering (name or -name) query parameters; unknown values are ignored.
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Name filter"
// @Param        subject query int false "Subject ID"
// @Param        ordering query string false "name or -name"
// @Success      200 {array} services.QuizSummary
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/quizzes [get]
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	userID := c.GetUint("user_id")

	filter := services.ListFilter{
		Query:    c.Query("q"),
		Subject:  c.Query("subject"),
		Ordering: c.Query("ordering"),
	}

	quizzes, err := h.quizService.ListQuizzes(userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

// ListSubjects godoc
// @Summary      List subjects
// @Description  Get all subjects for filtering and categorization
// @Tags         subjects
// @Produce      json
// @Success      200 {array} Subject
// @Router       /api/v1/subjects [get]
func (h *QuizHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.quizService.ListSubjects()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, subjects)
}

// CreateQuiz godoc
// @Summary      Create a quiz
// @Description  Create a new quiz owned by the authenticated teacher
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body QuizRequest true "Quiz data"
// @Success      201 {object} Quiz
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quiz, err := h.quizService.CreateQuiz(userID, req.Name, req.SubjectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// GetQuiz godoc
// @Summary      Get a quiz
// @Description  Get own quiz with all questions and answers
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Success      200 {object} Quiz
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
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

	c.JSON(http.StatusOK, quiz)
}

// UpdateQuiz godoc
// @Summary      Update a quiz
// @Description  Update name and subject of an own quiz
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Param        request body QuizRequest true "Quiz data"
// @Success      200 {object} Quiz
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id} [put]
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	userID := c.GetUint("user_id")
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid quiz id"})
		return
	}

	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quiz, err := h.quizService.UpdateQuiz(uint(quizID), userID, req.Name, req.SubjectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// DeleteQuiz godoc
// @Summary      Delete a quiz
// @Description  Delete an own quiz together with its questions, answers and attempts
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	userID := c.GetUint("user_id")
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid quiz id"})
		return
	}

	if err := h.quizService.DeleteQuiz(uint(quizID), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "quiz deleted"})
}
