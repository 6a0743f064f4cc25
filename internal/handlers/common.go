package handlers

import (
	"errors"
	"net/http"

	"github.com/andreyPromaster/Course/internal/models"
	"github.com/andreyPromaster/Course/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve models in annotations.
type Quiz = models.Quiz
type Question = models.Question
type Subject = models.Subject
type TakenQuiz = models.TakenQuiz

// respondError maps service errors onto HTTP statuses. Ownership failures
// arrive as not-found sentinels and stay 404 so nothing leaks about foreign
// objects.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrQuizNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrSubjectNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
