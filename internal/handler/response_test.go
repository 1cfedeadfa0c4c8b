package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/itemgraph/internal/apperror"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"validation", apperror.ValidationFailed("name", "too long"), http.StatusBadRequest, "validation_error"},
		{"not found", apperror.NotFound("item", "x"), http.StatusNotFound, "not_found"},
		{"referential integrity", apperror.ReferentialIntegrity("targetId", "x"), http.StatusUnprocessableEntity, "referential_integrity"},
		{"wrapped referential integrity", fmt.Errorf("creating relation: %w", apperror.ReferentialIntegrity("sourceId", "x")), http.StatusUnprocessableEntity, "referential_integrity"},
		{"dangling reference", apperror.DanglingReference("r1", "x"), http.StatusInternalServerError, "dangling_reference"},
		{"unavailable", apperror.Unavailable(errors.New("disk gone")), http.StatusServiceUnavailable, "unavailable"},
		{"AppError with unknown sentinel", &apperror.AppError{Err: errors.New("other"), Message: "m"}, http.StatusInternalServerError, "internal_error"},
		{"plain error", errors.New("sqlite: no such table"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, errType, _ := classify(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantType, errType)
		})
	}
}

func TestClassify_HidesInternalMessages(t *testing.T) {
	_, _, message := classify(errors.New("sqlite: near \"SELEC\": syntax error"))
	assert.Equal(t, "An internal error occurred", message)
}
