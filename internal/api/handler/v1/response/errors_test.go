package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventboard/eventboard-api/internal/apperr"
)

func TestRenderError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
	}{
		{
			name:       "not found",
			err:        apperr.NotFound("event %d not found", 7),
			wantCode:   http.StatusNotFound,
			wantStatus: "NOT_FOUND",
		},
		{
			name:       "conflict",
			err:        apperr.Conflict("the participant limit has been reached"),
			wantCode:   http.StatusConflict,
			wantStatus: "CONFLICT",
		},
		{
			name:       "forbidden",
			err:        apperr.Forbidden("cannot publish the event"),
			wantCode:   http.StatusForbidden,
			wantStatus: "FORBIDDEN",
		},
		{
			name:       "validation",
			err:        apperr.Validation("event date must be in the future"),
			wantCode:   http.StatusBadRequest,
			wantStatus: "BAD_REQUEST",
		},
		{
			name:       "unclassified errors are internal",
			err:        errors.New("connection refused"),
			wantCode:   http.StatusInternalServerError,
			wantStatus: "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(recorder)

			RenderError(ctx, tt.err)

			assert.Equal(t, tt.wantCode, recorder.Code)

			var body Err
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.NotEmpty(t, body.Timestamp)
		})
	}
}

func TestRenderErrorWrapped(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)

	wrapped := apperr.Wrap(errors.New("row locked"), apperr.KindConflict, "request already decided")
	RenderError(ctx, wrapped)

	assert.Equal(t, http.StatusConflict, recorder.Code)
}
