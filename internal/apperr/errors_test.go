package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/modelcatalog/internal/apperr"
)

func TestError_Error(t *testing.T) {
	err := apperr.Validation("photos required")
	assert.Equal(t, "photos required", err.Error())
}

func TestError_ErrorWithCause(t *testing.T) {
	err := apperr.Network(errors.New("connection refused"))

	assert.Contains(t, err.Error(), "backend unavailable")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestError_IsMatchesSentinelByCode(t *testing.T) {
	err := fmt.Errorf("add model: %w", apperr.Validation("hairColor required"))

	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.NotErrorIs(t, err, apperr.ErrNetwork)
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := apperr.Network(cause)

	assert.ErrorIs(t, err, cause)
}

func TestCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, apperr.Code(apperr.Validation("x")))
	assert.Equal(t, http.StatusUnauthorized, apperr.Code(apperr.ErrAuth))
	assert.Equal(t, http.StatusBadGateway, apperr.Code(fmt.Errorf("wrap: %w", apperr.Network(nil))))
	assert.Equal(t, http.StatusInternalServerError, apperr.Code(errors.New("plain")))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "not found", apperr.Message(apperr.ErrNotFound))
	assert.Equal(t, "internal server error", apperr.Message(errors.New("plain")))
}

func TestWithMessage_KeepsOriginal(t *testing.T) {
	modified := apperr.ErrNotFound.WithMessage("Model not found")

	assert.Equal(t, "Model not found", modified.Message)
	assert.Equal(t, "not found", apperr.ErrNotFound.Message)
}
