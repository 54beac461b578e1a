package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a classified error ready to be sent to a client.
type ErrorInfo struct {
	Code    string
	Message string
}

// Status returns the HTTP status that goes with the code.
func (e ErrorInfo) Status() int {
	switch e.Code {
	case ResourceNotFound, ClientNotFound, BenefitNotFound, CommercialNotFound, FeedbackNotFound, ClientParentNotFound:
		return http.StatusNotFound
	case ResourceAlreadyExists, ClientTaxIDExists, ResourceConflict:
		return http.StatusConflict
	case ValidationInvalidInput, ValidationRequired, ValidationInvalidFormat:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ParseError classifies GORM and driver errors (PostgreSQL and SQLite wording)
// into a code and message. context names the operation, e.g. "client".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "An unexpected error occurred"}
	}

	errStr := err.Error()
	lower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(lower, "duplicate key"),
		strings.Contains(lower, "unique constraint"):
		return parseDuplicateKeyError(lower)

	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(lower, "foreign key constraint"):
		return parseForeignKeyError(lower)

	case strings.Contains(lower, "violates not-null constraint"),
		strings.Contains(lower, "not null constraint failed"):
		return ErrorInfo{Code: ValidationRequired, Message: fmt.Sprintf("A required %s field is missing", context)}

	case strings.Contains(lower, "check constraint"):
		return ErrorInfo{Code: ValidationInvalidInput, Message: fmt.Sprintf("Invalid %s data", context)}

	case strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "no such host"),
		strings.Contains(lower, "timeout"):
		return ErrorInfo{Code: InternalDatabaseError, Message: "Database is unreachable: " + errStr}
	}

	return ErrorInfo{Code: InternalServerError, Message: errStr}
}

func parseDuplicateKeyError(lower string) ErrorInfo {
	if strings.Contains(lower, "tax_id") {
		return ErrorInfo{Code: ClientTaxIDExists, Message: "A client with this tax ID already exists"}
	}
	if strings.Contains(lower, "plan_slot") || strings.Contains(lower, "plan_number") {
		return ErrorInfo{Code: ResourceConflict, Message: "Duplicate plan number for the same plan type"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "Record already exists"}
}

func parseForeignKeyError(lower string) ErrorInfo {
	if strings.Contains(lower, "still referenced") {
		return ErrorInfo{Code: ResourceConflict, Message: "Record is still referenced by other data"}
	}
	if strings.Contains(lower, "tax_id") || strings.Contains(lower, "fk_") {
		return ErrorInfo{Code: ClientParentNotFound, Message: "Referenced client does not exist"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "Referenced record does not exist"}
}

func notFoundMessage(context string) string {
	if context == "" {
		return "Record not found"
	}
	return strings.ToUpper(context[:1]) + context[1:] + " not found"
}
