package handlers

import (
	"net/http"
	"strconv"

	"github.com/andreyPromaster/Course/internal/services"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	quizService *services.QuizService
}

func NewQuestionHandler(quizService *services.QuizService) *QuestionHandler {
	return &QuestionHandler{quizService: quizService}
}

type CreateQuestionRequest struct {
	Text string `json:"text" binding:"required" example:"What is 2+2?"`
}

type AnswerPayload struct {
	Text      string `json:"text" binding:"required" example:"4"`
	IsCorrect bool   `json:"is_correct" example:"true"`
}

type UpdateQuestionRequest struct {
	Text    string          `json:"text" binding:"required" example:"What is 2+2?"`
	Answers []AnswerPayload `json:"answers" binding:"required"`
}

// CreateQuestion godoc
// @Summary      Add a question
// @Description  Add a question to an own quiz; answers are set afterwards via question update
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Param        request body CreateQuestionRequest true "Question data"
// @Success      201 {object} Question
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	userID := c.GetUint("user_id")
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid quiz id"})
		return
	}

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.quizService.CreateQuestion(uint(quizID), userID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion godoc
// @Summary      Update a question
// @Description  Atomically replace the question text and its full answer set (2-10 answers, exactly one correct)
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Param        request body UpdateQuestionRequest true "Question and answers"
// @Success      200 {object} Question
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	userID := c.GetUint("user_id")
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	answers := make([]services.AnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, services.AnswerInput{Text: a.Text, IsCorrect: a.IsCorrect})
	}

	question, err := h.quizService.UpdateQuestion(uint(questionID), userID, req.Text, answers)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary      Delete a question
// @Description  Delete a question of an own quiz together with its answers
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	userID := c.GetUint("user_id")
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	if err := h.quizService.DeleteQuestion(uint(questionID), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "question deleted"})
}
