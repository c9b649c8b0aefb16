package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/complaintbox/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseComplaintID(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		err  error
	}{
		{`42`, 42, nil},
		{`"42"`, 42, nil},
		{`" 42 "`, 42, nil},
		{`42.0`, 42, nil},
		{``, 0, errIDMissing},
		{`null`, 0, errIDMissing},
		{`""`, 0, errIDMissing},
		{`0`, 0, errIDMissing},
		{`0.0`, 0, errIDMissing},
		{`-0`, 0, errIDMissing},
		{`"0"`, 0, nil},
		{`-3`, -3, nil},
		{`42.5`, 0, errIDInvalid},
		{`"4x"`, 0, errIDInvalid},
		{`"42.0"`, 0, errIDInvalid},
		{`true`, 0, errIDInvalid},
		{`{}`, 0, errIDInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			id, err := parseComplaintID(json.RawMessage(tt.raw))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestReason(t *testing.T) {
	sentinel := errors.New("sentinel")
	assert.Equal(t, "Complaint not found", reason(fmt.Errorf("%w: Complaint not found", sentinel), sentinel, "fallback"))
	assert.Equal(t, "fallback", reason(sentinel, sentinel, "fallback"))
}

func TestErrorResponder_MapsSentinels(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: category is required", models.ErrValidation), http.StatusBadRequest},
		{models.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("%w: Complaint not found", models.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: Email already registered", models.ErrConflict), http.StatusBadRequest},
		{fmt.Errorf("%w: Cannot set status back to Pending", models.ErrInvalidState), http.StatusBadRequest},
		{fmt.Errorf("%w: pool closed", models.ErrInternalServer), http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			newErrorResponder("production").write(w, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
