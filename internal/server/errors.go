package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/roomledger/roomledger/internal/audit/domain"
	billingdomain "github.com/roomledger/roomledger/internal/billing/domain"
	catalogdomain "github.com/roomledger/roomledger/internal/catalog/domain"
	contractdomain "github.com/roomledger/roomledger/internal/contract/domain"
	maintenancedomain "github.com/roomledger/roomledger/internal/maintenance/domain"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	roomdomain "github.com/roomledger/roomledger/internal/room/domain"
	tenantdomain "github.com/roomledger/roomledger/internal/tenant/domain"
	usagedomain "github.com/roomledger/roomledger/internal/usage/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isPropertyValidationError(err),
		isRoomValidationError(err),
		isTenantValidationError(err),
		isContractValidationError(err),
		isCatalogValidationError(err),
		isUsageValidationError(err),
		isBillingValidationError(err),
		isMaintenanceValidationError(err),
		errors.Is(err, auditdomain.ErrInvalidAction),
		errors.Is(err, auditdomain.ErrInvalidTimeRange):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, contractdomain.ErrCodeExists),
		errors.Is(err, contractdomain.ErrInvalidTransition),
		errors.Is(err, catalogdomain.ErrLocked),
		errors.Is(err, billingdomain.ErrIssueBlocked):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, propertydomain.ErrNotFound),
		errors.Is(err, roomdomain.ErrNotFound),
		errors.Is(err, tenantdomain.ErrNotFound),
		errors.Is(err, contractdomain.ErrNotFound),
		errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, maintenancedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isPropertyValidationError(err error) bool {
	switch err {
	case propertydomain.ErrInvalidName,
		propertydomain.ErrInvalidID:
		return true
	default:
		return false
	}
}

func isRoomValidationError(err error) bool {
	switch err {
	case roomdomain.ErrInvalidName,
		roomdomain.ErrInvalidID,
		roomdomain.ErrInvalidStatus,
		roomdomain.ErrInvalidProperty:
		return true
	default:
		return false
	}
}

func isTenantValidationError(err error) bool {
	switch err {
	case tenantdomain.ErrInvalidName,
		tenantdomain.ErrInvalidID,
		tenantdomain.ErrInvalidDate:
		return true
	default:
		return false
	}
}

func isContractValidationError(err error) bool {
	switch err {
	case contractdomain.ErrInvalidCode,
		contractdomain.ErrInvalidRoom,
		contractdomain.ErrInvalidTenant,
		contractdomain.ErrInvalidStatus,
		contractdomain.ErrInvalidDate,
		contractdomain.ErrInvalidRate,
		contractdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}

func isCatalogValidationError(err error) bool {
	switch err {
	case catalogdomain.ErrInvalidName,
		catalogdomain.ErrInvalidPrice,
		catalogdomain.ErrInvalidMethod:
		return true
	default:
		return false
	}
}

func isUsageValidationError(err error) bool {
	switch err {
	case usagedomain.ErrInvalidContract,
		usagedomain.ErrInvalidMonth:
		return true
	default:
		return false
	}
}

func isBillingValidationError(err error) bool {
	switch err {
	case billingdomain.ErrInvalidMonth,
		billingdomain.ErrInvalidContract,
		billingdomain.ErrInvalidCount:
		return true
	default:
		return false
	}
}

func isMaintenanceValidationError(err error) bool {
	switch err {
	case maintenancedomain.ErrInvalidRequest,
		maintenancedomain.ErrInvalidID,
		maintenancedomain.ErrInvalidRoom,
		maintenancedomain.ErrInvalidStatus,
		maintenancedomain.ErrInvalidPriority:
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}
