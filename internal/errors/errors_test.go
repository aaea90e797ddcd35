package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestConstructorsCarryCodeAndStatus(t *testing.T) {
	cause := stderrors.New("boom")

	tests := []struct {
		name   string
		err    *ChatError
		code   ErrorCode
		status int
	}{
		{"invalid request", NewInvalidRequest("bad"), ErrInvalidRequest, 400},
		{"message too long", NewMessageTooLong(1000), ErrMessageTooLong, 400},
		{"not found", NewNotFound("abc"), ErrNotFound, 404},
		{"context too long", NewContextTooLong(cause), ErrContextTooLong, 413},
		{"invalid credentials", NewInvalidCredentials(cause), ErrInvalidCredentials, 502},
		{"generation failure", NewGenerationFailure(cause), ErrGenerationFailure, 502},
		{"rate limited", NewRateLimited(cause), ErrRateLimited, 503},
		{"internal", NewInternal(cause), ErrInternal, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.Status != tt.status {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.status)
			}
			if tt.err.Message == "" {
				t.Error("Message is empty")
			}
		})
	}
}

func TestMessageTooLongMentionsLimit(t *testing.T) {
	err := NewMessageTooLong(1000)
	if !strings.Contains(err.Message, "1000") {
		t.Errorf("Message = %q, want the limit included", err.Message)
	}
	if err.Details["limit"] != 1000 {
		t.Errorf("Details[limit] = %v, want 1000", err.Details["limit"])
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("underlying")
	err := NewGenerationFailure(cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}

	var cErr *ChatError
	if !stderrors.As(error(err), &cErr) {
		t.Error("errors.As should match *ChatError")
	}
}

func TestIs(t *testing.T) {
	err := NewNotFound("abc")
	if !Is(err, ErrNotFound) {
		t.Error("Is(err, ErrNotFound) = false, want true")
	}
	if Is(err, ErrInternal) {
		t.Error("Is(err, ErrInternal) = true, want false")
	}
	if Is(stderrors.New("plain"), ErrNotFound) {
		t.Error("Is(plain error) = true, want false")
	}
}
