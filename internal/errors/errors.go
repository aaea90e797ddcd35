package errors

import "fmt"

// ErrorCode identifies a category of chat service error.
type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"     // 400
	ErrMessageTooLong     ErrorCode = "MESSAGE_TOO_LONG"    // 400
	ErrNotFound           ErrorCode = "NOT_FOUND"           // 404
	ErrContextTooLong     ErrorCode = "CONTEXT_TOO_LONG"    // 413
	ErrInvalidCredentials ErrorCode = "INVALID_CREDENTIALS" // 502
	ErrGenerationFailure  ErrorCode = "GENERATION_FAILURE"  // 502
	ErrRateLimited        ErrorCode = "RATE_LIMITED"        // 503
	ErrInternal           ErrorCode = "INTERNAL"            // 500
)

// ChatError is a structured error carrying a code, an HTTP status, and a
// message safe to show to the end user. Cause holds the underlying technical
// error for logging; it is never serialized into responses.
type ChatError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Cause   error
}

// Error implements the error interface.
func (e *ChatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *ChatError) Unwrap() error {
	return e.Cause
}

// NewInvalidRequest creates a 400 error for invalid input.
func NewInvalidRequest(msg string) *ChatError {
	return &ChatError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewMessageTooLong creates a 400 error for an over-length message. The
// message is a soft redirect rather than a hard rejection: the user is asked
// to shorten, not told the request was malformed.
func NewMessageTooLong(limit int) *ChatError {
	return &ChatError{
		Code:    ErrMessageTooLong,
		Status:  400,
		Message: fmt.Sprintf("Your message is too long. Please keep it under %d characters.", limit),
		Details: map[string]any{"limit": limit},
	}
}

// NewNotFound creates a 404 error for an unknown conversation.
func NewNotFound(id string) *ChatError {
	return &ChatError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("conversation not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewInvalidCredentials creates a 502 error for a misconfigured provider
// credential. Not retryable by the user.
func NewInvalidCredentials(cause error) *ChatError {
	return &ChatError{
		Code:    ErrInvalidCredentials,
		Status:  502,
		Message: "Configuration error. Please contact support.",
		Cause:   cause,
	}
}

// NewRateLimited creates a 503 error for provider throttling.
func NewRateLimited(cause error) *ChatError {
	return &ChatError{
		Code:    ErrRateLimited,
		Status:  503,
		Message: "High demand. Please try again in a moment.",
		Cause:   cause,
	}
}

// NewContextTooLong creates a 413 error for an assembled context that
// exceeded the provider limit. The windowing policy should prevent this, so
// it is surfaced rather than silently truncated.
func NewContextTooLong(cause error) *ChatError {
	return &ChatError{
		Code:    ErrContextTooLong,
		Status:  413,
		Message: "Conversation too long. Please start a new chat.",
		Cause:   cause,
	}
}

// NewGenerationFailure creates a 502 error for any other provider or network
// failure during generation.
func NewGenerationFailure(cause error) *ChatError {
	return &ChatError{
		Code:    ErrGenerationFailure,
		Status:  502,
		Message: "Sorry, I'm having trouble. Please try again.",
		Cause:   cause,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ChatError {
	return &ChatError{
		Code:    ErrInternal,
		Status:  500,
		Message: "Something went wrong. Please try again.",
		Cause:   err,
	}
}

// Is checks if an error is a ChatError with the given code.
func Is(err error, code ErrorCode) bool {
	if cErr, ok := err.(*ChatError); ok {
		return cErr.Code == code
	}
	return false
}
