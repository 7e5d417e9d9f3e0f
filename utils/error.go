package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"appointly/models"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindPrecondition
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindPrecondition:
		return "precondition"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// AppError is an error carrying the category the HTTP layer maps to a status.
// Message is safe to show to callers; Err is kept for logs.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewUnauthorizedError(msg string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: msg}
}

func NewForbiddenError(msg string) *AppError {
	return &AppError{Kind: KindForbidden, Message: msg}
}

func NewNotFoundError(msg string, err error) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg, Err: err}
}

func NewPreconditionError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindPrecondition, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(msg string, err error) *AppError {
	return &AppError{Kind: KindConflict, Message: msg, Err: err}
}

func NewInternalError(msg string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindPrecondition:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError, models.APIResponse{
					Success: false,
					Message: "Internal Server Error",
				})
			}
		}()
		c.Next()
	}
}

// RespondError writes err in the uniform envelope. Internal errors are logged
// and their detail hidden from the caller.
func RespondError(c *gin.Context, err error) {
	status := HTTPStatus(err)
	msg := "Internal Server Error"

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		msg = appErr.Message
		GetLogger().Debug("request rejected",
			zap.String("path", c.Request.URL.Path),
			zap.String("kind", appErr.Kind.String()),
			zap.Error(err))
	} else {
		GetLogger().Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, models.APIResponse{Success: false, Message: msg})
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, models.APIResponse{Success: false, Message: message})
}

// RespondOK writes a successful envelope.
func RespondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.APIResponse{Success: true, Message: message, Data: data})
}
