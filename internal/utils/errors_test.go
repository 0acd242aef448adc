package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(E(CodeInvalidArgument, "op", "bad", nil)))
	assert.Equal(t, http.StatusConflict, HTTPStatus(E(CodeConflict, "op", "taken", nil)))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(E(CodeUnavailable, "op", "down", nil)))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("wrap: %w", ErrNotFound)))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrDuplicate))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestPublicMessage(t *testing.T) {
	err := fmt.Errorf("ctx: %w", E(CodeNotFound, "SkillService.Toggle", "skill not found", ErrNotFound))
	assert.Equal(t, "skill not found", PublicMessage(err, "fallback"))
	assert.Equal(t, "fallback", PublicMessage(errors.New("raw"), "fallback"))
	assert.True(t, IsCode(err, CodeNotFound))
	assert.True(t, errors.Is(err, ErrNotFound))
}
