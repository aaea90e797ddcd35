package llm

import (
	stderrors "errors"
	"testing"

	"github.com/spurcommerce/spurchat/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.ErrorCode
	}{
		{"invalid api key code", stderrors.New("error, status code: 401, message: invalid_api_key"), errors.ErrInvalidCredentials},
		{"incorrect api key text", stderrors.New("Incorrect API key provided"), errors.ErrInvalidCredentials},
		{"rate limit status", stderrors.New("error, status code: 429"), errors.ErrRateLimited},
		{"rate limit text", stderrors.New("Rate limit reached for gpt-4o-mini"), errors.ErrRateLimited},
		{"too many requests", stderrors.New("Too Many Requests"), errors.ErrRateLimited},
		{"context length code", stderrors.New("context_length_exceeded"), errors.ErrContextTooLong},
		{"context length text", stderrors.New("This model's maximum context length is 128000 tokens"), errors.ErrContextTooLong},
		{"network error", stderrors.New("dial tcp: connection refused"), errors.ErrGenerationFailure},
		{"unknown provider error", stderrors.New("error, status code: 500, message: server_error"), errors.ErrGenerationFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Code != tt.want {
				t.Errorf("Classify(%v).Code = %s, want %s", tt.err, got.Code, tt.want)
			}
			if !stderrors.Is(got, tt.err) {
				t.Error("classified error should wrap the cause")
			}
		})
	}
}

func TestClassifyNil(t *testing.T) {
	if got := Classify(nil); got != nil {
		t.Errorf("Classify(nil) = %v, want nil", got)
	}
}

func TestNew(t *testing.T) {
	c := New("sk-test", "gpt-4o-mini")
	if c == nil {
		t.Fatal("New() returned nil")
	}
	if string(c.model) != "gpt-4o-mini" {
		t.Errorf("model = %s, want gpt-4o-mini", c.model)
	}
}
