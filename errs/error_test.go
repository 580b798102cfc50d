package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeAndMessage(t *testing.T) {
	err := Errorf(ENOTFOUND, "User %d does not exist.", 7)
	assert.Equal(t, ENOTFOUND, ErrorCode(err))
	assert.Equal(t, "User 7 does not exist.", ErrorMessage(err))

	wrapped := fmt.Errorf("loading profile: %w", err)
	assert.Equal(t, ENOTFOUND, ErrorCode(wrapped))

	plain := errors.New("connection refused")
	assert.Equal(t, EINTERNAL, ErrorCode(plain))
	assert.Equal(t, "Internal error.", ErrorMessage(plain))

	assert.Equal(t, "", ErrorCode(nil))
}

func TestReturnError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"invalid", Errorf(EINVALID, "Passwords do not match."), http.StatusBadRequest, "Passwords do not match."},
		{"unauthorized", Errorf(EUNAUTHORIZED, "Unauthorized."), http.StatusUnauthorized, "Unauthorized."},
		{"forbidden", Errorf(EFORBIDDEN, "No."), http.StatusForbidden, "No."},
		{"not found", Errorf(ENOTFOUND, "Gone."), http.StatusNotFound, "Gone."},
		{"conflict", Errorf(ECONFLICT, "Taken."), http.StatusConflict, "Taken."},
		{"method not allowed", Errorf(ENOTALLOWED, "Method not allowed."), http.StatusMethodNotAllowed, "Method not allowed."},
		{"internal", errors.New("pq: relation does not exist"), http.StatusInternalServerError, "Internal error."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/tweets", nil)
			w := httptest.NewRecorder()

			ReturnError(w, r, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}
