package services

import (
	"testing"

	"github.com/andreyPromaster/Course/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginValidate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret")

	token, err := svc.Register("alice", "alice@example.com", "password123", models.RoleTeacher)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, role, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, role)
	assert.NotZero(t, userID)

	loginToken, err := svc.Login("alice", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret")

	_, err := svc.Register("bob", "", "password123", models.RoleStudent)
	require.NoError(t, err)

	_, err = svc.Register("bob", "", "otherpassword", models.RoleTeacher)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterUnknownRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret")

	_, err := svc.Register("carol", "", "password123", "admin")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret")

	_, err := svc.Register("dave", "", "password123", models.RoleStudent)
	require.NoError(t, err)

	_, err = svc.Login("dave", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret")

	_, _, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(db, "other-secret")
	token, err := other.GenerateToken(1, models.RoleTeacher)
	require.NoError(t, err)

	_, _, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
