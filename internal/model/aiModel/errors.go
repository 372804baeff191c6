package aiModel

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeUnknown          ErrorCode = "UNKNOWN"
	CodeServiceDisabled  ErrorCode = "SERVICE_DISABLED"
	CodeAPIKeyBlocked    ErrorCode = "API_KEY_SERVICE_BLOCKED"
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	CodeUnavailable      ErrorCode = "UNAVAILABLE"
	CodeInvalidOutput    ErrorCode = "INVALID_OUTPUT"
	CodeInvalidInput     ErrorCode = "INVALID_INPUT"
)

const defaultUserMessage = "An unexpected error occurred. Please try again."

var userMessages = map[ErrorCode]string{
	CodeServiceDisabled:  "The Concept Search is being set up. This can take a few minutes. Please try again shortly.",
	CodeAPIKeyBlocked:    "The request is blocked. Please check your API key restrictions in the Google Cloud Console and ensure the \"Generative Language API\" is allowed.",
	CodePermissionDenied: "The AI service rejected the request. Please check the API key permissions.",
	CodeUnavailable:      "The AI service is unreachable right now. Please try again.",
	CodeInvalidOutput:    "The AI returned an unexpected answer. Please try again.",
	CodeInvalidInput:     "Please check your input and try again.",
}

type GenerationError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed [%s]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("generation failed [%s]: %s", e.Code, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func NewGenerationError(code ErrorCode, message string, err error) *GenerationError {
	return &GenerationError{Code: code, Message: message, Err: err}
}

func CodeOf(err error) ErrorCode {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Code
	}
	return CodeUnknown
}

// UserMessage picks the text shown to the user, unknown codes get the generic one.
func UserMessage(err error) string {
	if msg, ok := userMessages[CodeOf(err)]; ok {
		return msg
	}
	return defaultUserMessage
}
