package journal

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

const (
	notificationDuration = 3000
	genericFailure       = "Something went wrong. Please try again."
)

// Notification is the transient toast shown after an action.
type Notification struct {
	Header     string   `json:"header"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	DurationMS int      `json:"duration_ms"`
}

func notify(header, message string, severity Severity) *Notification {
	return &Notification{Header: header, Message: message, Severity: severity, DurationMS: notificationDuration}
}

// ValidationError is a user input problem. Nothing was written.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ErrorHandler renders every error as a notification payload. Storage
// faults get a generic message; their detail stays in the logs.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := genericFailure

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			message = fe.Message
		}
	}

	return c.Status(code).JSON(Response{Notification: notify("Error", message, SeverityDanger)})
}
