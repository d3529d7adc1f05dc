package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AppError is the application-level error envelope. UserMessage is what the
// learner sees; Message is what the log sees. Validation errors never carry
// a UserMessage because the dialog re-prompts locally instead.
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func NewValidationError(msg string) *AppError {
	return &AppError{
		Code:     "E100",
		Message:  msg,
		Severity: SeverityLow,
		cause:    nil,
	}
}

func NewDatabaseError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:     "E200",
		Message:  fmt.Sprintf("Database error: %s", underlyingMsg),
		Severity: SeverityHigh,
		cause:    cause,
	}
}

func NewExternalAPIError(apiName string, cause error) *AppError {
	return &AppError{
		Code:     "E300",
		Message:  fmt.Sprintf("External API error: %s", apiName),
		Severity: SeverityMedium,
		cause:    cause,
	}
}
