// Package response renders API results and errors in one shape.
package response

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"brgyalert/backend/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorBody is the JSON envelope of every failed request.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
}

var kindStatusMap = map[apperr.Kind]int{
	apperr.KindValidation:      http.StatusUnprocessableEntity,
	apperr.KindUnauthenticated: http.StatusUnauthorized,
	apperr.KindForbidden:       http.StatusForbidden,
	apperr.KindNotFound:        http.StatusNotFound,
	apperr.KindConflict:        http.StatusBadRequest,
	apperr.KindRateLimited:     http.StatusTooManyRequests,
	apperr.KindInternal:        http.StatusInternalServerError,
}

// GetStatus maps an error kind to its HTTP status. Unknown kinds are 500.
func GetStatus(kind apperr.Kind) int {
	if status, ok := kindStatusMap[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error aborts the request with err rendered as an ErrorBody. Internal causes
// are logged and never sent to the client.
func Error(c *gin.Context, err error) {
	appErr := apperr.From(err)
	if appErr == nil {
		appErr = apperr.Internal(errors.New("nil error rendered"))
	}
	if appErr.Kind == apperr.KindInternal {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), appErr)
	}
	abort(c, GetStatus(appErr.Kind), appErr.Kind, appErr.Message)
}

// BindError reports a request body that could not be decoded or failed its
// binding rules. Rule failures are validation errors (422); malformed JSON is 400.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		abort(c, http.StatusUnprocessableEntity, apperr.KindValidation, describe(verrs))
		return
	}
	abort(c, http.StatusBadRequest, apperr.KindValidation, "malformed request body")
}

func abort(c *gin.Context, status int, kind apperr.Kind, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: ErrorDetail{Kind: kind, Message: message}})
}

func describe(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeField(fe))
	}
	return strings.Join(msgs, "; ")
}

func describeField(fe validator.FieldError) string {
	field := fieldName(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "phone":
		return field + " must contain only digits, spaces and + - ( )"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// fieldName prefers the JSON name registered on the validator.
func fieldName(fe validator.FieldError) string {
	if name := fe.Field(); name != "" {
		return name
	}
	return strings.ToLower(fe.StructField())
}
