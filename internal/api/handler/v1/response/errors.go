package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eventboard/eventboard-api/internal/apperr"
)

const timestampLayout = "2006-01-02 15:04:05"

// Err is the error body every endpoint renders.
type Err struct {
	StatusCode int `json:"-"`

	Errors    []string `json:"errors,omitempty"`
	Message   string   `json:"message"`
	Reason    string   `json:"reason"`
	Status    string   `json:"status"`
	Timestamp string   `json:"timestamp"`
}

func newErr(statusCode int, status, reason, message string) *Err {
	return &Err{
		StatusCode: statusCode,
		Message:    message,
		Reason:     reason,
		Status:     status,
		Timestamp:  time.Now().Format(timestampLayout),
	}
}

func ErrNotFound(message string) *Err {
	return newErr(http.StatusNotFound, "NOT_FOUND", "The required object was not found.", message)
}

func ErrConflict(message string) *Err {
	return newErr(http.StatusConflict, "CONFLICT", "For the requested operation the conditions are not met.", message)
}

func ErrForbidden(message string) *Err {
	return newErr(http.StatusForbidden, "FORBIDDEN", "For the requested operation the conditions are not met.", message)
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, "BAD_REQUEST", "Incorrectly made request.", err.Error())
}

func ErrInternalServerError(err error) *Err {
	zap.S().Error(err)

	return newErr(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred.",
		"something went wrong")
}

func ErrUnauthorized(message string) *Err {
	return newErr(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is required.", message)
}

func RenderErr(ctx *gin.Context, err *Err) {
	ctx.AbortWithStatusJSON(err.StatusCode, err)
}

// RenderError maps a service error to the wire format by its kind. Anything
// without a kind is a 500.
func RenderError(ctx *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		RenderErr(ctx, ErrInternalServerError(err))
		return
	}

	switch appErr.Kind {
	case apperr.KindNotFound:
		RenderErr(ctx, ErrNotFound(appErr.Reason))
	case apperr.KindConflict:
		RenderErr(ctx, ErrConflict(appErr.Reason))
	case apperr.KindForbidden:
		RenderErr(ctx, ErrForbidden(appErr.Reason))
	case apperr.KindValidation:
		RenderErr(ctx, ErrBadRequest(errors.New(appErr.Reason)))
	default:
		RenderErr(ctx, ErrInternalServerError(err))
	}
}
