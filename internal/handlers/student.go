package handlers

import (
	"net/http"
	"strconv"

	"github.com/andreyPromaster/Course/internal/services"

	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	attemptService *services.AttemptService
}

func NewStudentHandler(attemptService *services.AttemptService) *StudentHandler {
	return &StudentHandler{attemptService: attemptService}
}

type SubmitAttemptRequest struct {
	AnswerIDs []uint `json:"answer_ids" binding:"required"`
}

type UpdateInterestsRequest struct {
	SubjectIDs []uint `json:"subject_ids"`
}

// AvailableQuizzes godoc
// @Summary      List available quizzes
// @Description  Quizzes in the student's interest subjects that were not taken yet
// @Tags         student
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} services.QuizSummary
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/student/quizzes [get]
func (h *StudentHandler) AvailableQuizzes(c *gin.Context) {
	userID := c.GetUint("user_id")

	quizzes, err := h.attemptService.AvailableQuizzes(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

// TakenQuizzes godoc
// @Summary      Attempt history
// @Description  The student's completed attempts, newest first
// @Tags         student
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} TakenQuiz
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/student/taken [get]
func (h *StudentHandler) TakenQuizzes(c *gin.Context) {
	userID := c.GetUint("user_id")

	taken, err := h.attemptService.TakenQuizzes(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, taken)
}

// SubmitAttempt godoc
// @Summary      Submit a quiz attempt
// @Description  Grade a one-shot submission with one selected answer per question
// @Tags         student
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Param        request body SubmitAttemptRequest true "Selected answer IDs"
// @Success      201 {object} TakenQuiz
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/student/quizzes/{id}/attempt [post]
func (h *StudentHandler) SubmitAttempt(c *gin.Context) {
	userID := c.GetUint("user_id")
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid quiz id"})
		return
	}

	var req SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	taken, err := h.attemptService.SubmitAttempt(userID, uint(quizID), req.AnswerIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, taken)
}

// GetInterests godoc
// @Summary      Get interests
// @Description  The student's interest subjects
// @Tags         student
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Subject
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/student/interests [get]
func (h *StudentHandler) GetInterests(c *gin.Context) {
	userID := c.GetUint("user_id")

	subjects, err := h.attemptService.Interests(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

// UpdateInterests godoc
// @Summary      Update interests
// @Description  Replace the student's interest subjects
// @Tags         student
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateInterestsRequest true "Subject IDs"
// @Success      200 {array} Subject
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/student/interests [put]
func (h *StudentHandler) UpdateInterests(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req UpdateInterestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	subjects, err := h.attemptService.UpdateInterests(userID, req.SubjectIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}
