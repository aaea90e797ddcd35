// Package llm wraps the OpenAI completion API behind the three operations
// the chat engine needs: generation, query rewriting, and summarization.
// Provider failures are mapped into the service error taxonomy here; callers
// never see raw SDK errors.
package llm

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/spurcommerce/spurchat/internal/conv"
	"github.com/spurcommerce/spurchat/internal/errors"
)

// Per-operation call parameters. Generation gets headroom for a full
// support answer; rewriting and summarization are kept tight and cool.
const (
	generateMaxTokens    = 350
	generateTemperature  = 0.7
	rewriteMaxTokens     = 100
	rewriteTemperature   = 0.3
	summarizeMaxTokens   = 200
	summarizeTemperature = 0.4
)

// Client is a stateless gateway to the OpenAI chat completion API. It is
// constructed once at process start and shared across requests.
type Client struct {
	api   openai.Client
	model openai.ChatModel
}

// New creates a gateway for the given API key and model.
func New(apiKey, model string) *Client {
	return &Client{
		api:   openai.NewClient(option.WithAPIKey(apiKey)),
		model: openai.ChatModel(model),
	}
}

// Generate produces a support reply for the assembled context window. The
// fixed Spur system prompt is prepended here; entries arrive in order:
// optional summary note, recent turns, then the current user query.
func (c *Client) Generate(ctx context.Context, entries []conv.ContextEntry) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(entries)+1)
	msgs = append(msgs, openai.SystemMessage(supportSystemPrompt))
	for _, e := range entries {
		msgs = append(msgs, messageParam(e))
	}
	return c.complete(ctx, msgs, generateMaxTokens, generateTemperature)
}

// Rewrite returns a cleaned-up version of a user message with the same
// intent. Callers treat any failure as "use the original".
func (c *Client) Rewrite(ctx context.Context, text string) (string, error) {
	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(rewriteSystemPrompt),
		openai.UserMessage(text),
	}
	return c.complete(ctx, msgs, rewriteMaxTokens, rewriteTemperature)
}

// Summarize compresses a transcript of "sender: text" lines into a compact
// handover summary.
func (c *Client) Summarize(ctx context.Context, transcript []string) (string, error) {
	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(summarizeSystemPrompt),
		openai.UserMessage(summarizeUserPrefix + strings.Join(transcript, "\n")),
	}
	return c.complete(ctx, msgs, summarizeMaxTokens, summarizeTemperature)
}

func (c *Client) complete(ctx context.Context, msgs []openai.ChatCompletionMessageParamUnion, maxTokens int64, temperature float64) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    msgs,
		MaxTokens:   openai.Int(maxTokens),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", Classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.NewGenerationFailure(stderrors.New("completion returned no choices"))
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.NewGenerationFailure(stderrors.New("completion returned empty text"))
	}
	return text, nil
}

func messageParam(e conv.ContextEntry) openai.ChatCompletionMessageParamUnion {
	switch e.Role {
	case conv.RoleSystem:
		return openai.SystemMessage(e.Content)
	case conv.RoleAssistant:
		return openai.AssistantMessage(e.Content)
	default:
		return openai.UserMessage(e.Content)
	}
}

// Classify maps a provider error onto the service taxonomy. The SDK does not
// expose stable error types for every failure mode, so this inspects the
// error text for the provider's error codes and HTTP statuses.
func Classify(err error) *errors.ChatError {
	if err == nil {
		return nil
	}
	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "invalid_api_key"),
		strings.Contains(s, "incorrect api key"),
		strings.Contains(s, "401"):
		return errors.NewInvalidCredentials(err)
	case strings.Contains(s, "429"),
		strings.Contains(s, "rate limit"),
		strings.Contains(s, "too many requests"):
		return errors.NewRateLimited(err)
	case strings.Contains(s, "context_length_exceeded"),
		strings.Contains(s, "maximum context length"):
		return errors.NewContextTooLong(err)
	default:
		return errors.NewGenerationFailure(err)
	}
}
