package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/outfit-advisor/internal/infra/identity"
	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

// fromDomainError maps application error codes onto HTTP statuses.
func fromDomainError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	var appErr *apperrors.AppError
	message := "something went wrong"
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	switch code {
	case apperrors.CodeInvalidInput:
		return NewHTTPError(http.StatusBadRequest, "invalid_request", message, err)
	case apperrors.CodeNotFound:
		return NewHTTPError(http.StatusNotFound, code, message, err)
	case apperrors.CodePreferencesMissing:
		return NewHTTPError(http.StatusConflict, code, "set your style preferences first", err)
	case apperrors.CodeWeatherUnavailable, apperrors.CodeConfiguration:
		return NewHTTPError(http.StatusServiceUnavailable, code, message, err)
	case apperrors.CodeGenerationUnavailable:
		return NewHTTPError(http.StatusBadGateway, code, "could not generate outfits, try again", err)
	case apperrors.CodePersistence:
		return NewHTTPError(http.StatusInternalServerError, code, message, err)
	case identity.CodeInvalidToken:
		return NewHTTPError(http.StatusUnauthorized, code, message, err)
	default:
		return asHTTPError(err)
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
