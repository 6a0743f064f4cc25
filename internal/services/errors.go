package services

import "errors"

// Not-found errors deliberately cover both "row absent" and "row owned by
// someone else" so a response never reveals whether a foreign object exists.
var (
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrValidation         = errors.New("validation failed")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)
