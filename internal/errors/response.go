package errors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`   // error code, see codes.go
	Message string `json:"message"` // human readable message
}

// RespondWithError writes the standard error payload.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Shortcuts for the common responses.

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have permission to access this resource"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "An internal error occurred, please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// StatusForCode maps an error code to the HTTP status of its category.
func StatusForCode(code string) int {
	switch code {
	case CategoryNotEmpty, VehicleAlreadyInGarage, FitmentAlreadyExists, ResourceConflict:
		return http.StatusConflict
	case CartEmpty, CartInvalidQuantity, ProductOutOfStock, ProductInactive,
		OrderInvalidTransition, OrderAddressRequired, OrderInvalidShipping,
		CategoryCycle, UploadInvalidFileType, UploadFileTooLarge:
		return http.StatusBadRequest
	}

	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "_EXISTS"):
		return http.StatusConflict
	case strings.HasPrefix(code, "VALIDATION_"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "AUTHZ_"):
		return http.StatusForbidden
	case strings.HasPrefix(code, "AUTH_"):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// HandleError classifies a raw database or infrastructure error and
// writes the mapped status, code and message. Controllers use it for
// errors their service layer has no sentinel for.
func HandleError(c *gin.Context, err error, context string) {
	info := ParseError(err, context)
	RespondWithError(c, StatusForCode(info.Code), info.Code, info.Message)
}

// ValidationError carries per-field messages for multi-field validation
// failures.
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "Invalid input",
		Fields:  fields,
	})
}
