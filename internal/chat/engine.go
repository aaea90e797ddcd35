// Package chat implements the context window manager: the component that
// decides what history to hand the LLM, when to compress older turns into a
// summary, and which path (canned answer or generation) answers a message.
package chat

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/spurcommerce/spurchat/internal/config"
	"github.com/spurcommerce/spurchat/internal/conv"
	"github.com/spurcommerce/spurchat/internal/db"
	"github.com/spurcommerce/spurchat/internal/errors"
	"github.com/spurcommerce/spurchat/internal/faq"
)

// Gateway is the LLM collaborator the engine depends on. The production
// implementation is *llm.Client; tests substitute a stub with call counters.
type Gateway interface {
	Generate(ctx context.Context, entries []conv.ContextEntry) (string, error)
	Rewrite(ctx context.Context, text string) (string, error)
	Summarize(ctx context.Context, transcript []string) (string, error)
}

// Engine orchestrates one chat round trip. Collaborator handles are injected
// once at construction and shared across requests; the engine itself owns no
// persistent state beyond the per-conversation summary locks.
type Engine struct {
	database *sql.DB
	gateway  Gateway
	cfg      *config.Config
	log      *slog.Logger

	mu           sync.Mutex
	summaryLocks map[string]*sync.Mutex
}

// NewEngine creates an engine over the given store, gateway, and config.
func NewEngine(database *sql.DB, gateway Gateway, cfg *config.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		database:     database,
		gateway:      gateway,
		cfg:          cfg,
		log:          logger,
		summaryLocks: make(map[string]*sync.Mutex),
	}
}

// RespondOutput is the result of one chat round trip.
type RespondOutput struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`
}

// ValidateMessage enforces the boundary contract on an incoming message:
// non-empty after trimming and within the configured length cap. It returns
// the trimmed text. Boundaries call this before handing text to Respond so
// over-length messages never reach the LLM.
func ValidateMessage(message string, maxChars int) (string, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "", errors.NewInvalidRequest("message is required and must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > maxChars {
		return "", errors.NewMessageTooLong(maxChars)
	}
	return trimmed, nil
}

// Respond handles one user message end to end: session resolution, user-turn
// persistence, FAQ short-circuit, normalization, context assembly, generation,
// and reply persistence. The user turn is stored before any further
// processing, so the transcript keeps the question even when generation
// fails afterwards.
func (e *Engine) Respond(ctx context.Context, sessionID, message string) (*RespondOutput, error) {
	text, err := ValidateMessage(message, e.cfg.MaxMessageChars)
	if err != nil {
		return nil, err
	}

	convID, err := e.resolveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := db.InsertMessage(ctx, e.database, convID, conv.SenderUser, text); err != nil {
		return nil, err
	}

	// Recognized simple queries skip the LLM entirely: no normalization, no
	// summarization check, no generation call.
	if answer, ok := faq.Match(text); ok {
		if _, err := db.InsertMessage(ctx, e.database, convID, conv.SenderAI, answer); err != nil {
			return nil, err
		}
		return &RespondOutput{Reply: answer, SessionID: convID}, nil
	}

	cleaned := e.normalize(ctx, text)

	entries, err := e.buildContext(ctx, convID)
	if err != nil {
		return nil, err
	}
	entries = append(entries, conv.ContextEntry{Role: conv.RoleUser, Content: cleaned})

	reply, err := e.gateway.Generate(ctx, entries)
	if err != nil {
		var cErr *errors.ChatError
		if !stderrors.As(err, &cErr) {
			err = errors.NewGenerationFailure(err)
		}
		e.log.Error("generation failed", "conversation", convID, "err", err)
		return nil, err
	}

	if _, err := db.InsertMessage(ctx, e.database, convID, conv.SenderAI, reply); err != nil {
		return nil, err
	}
	return &RespondOutput{Reply: reply, SessionID: convID}, nil
}

// resolveSession reuses a valid existing conversation id and creates a fresh
// conversation otherwise. An unknown or garbage id behaves exactly like an
// absent one.
func (e *Engine) resolveSession(ctx context.Context, sessionID string) (string, error) {
	if sessionID != "" {
		_, err := db.GetConversation(ctx, e.database, sessionID)
		if err == nil {
			return sessionID, nil
		}
		if !errors.Is(err, errors.ErrNotFound) {
			return "", err
		}
	}
	return db.CreateConversation(ctx, e.database)
}

// History returns the ordered transcript for an existing session.
func (e *Engine) History(ctx context.Context, sessionID string) ([]conv.Message, error) {
	if _, err := db.GetConversation(ctx, e.database, sessionID); err != nil {
		return nil, err
	}
	return db.ListMessages(ctx, e.database, sessionID)
}

// Conversation returns the stored conversation record for a session.
func (e *Engine) Conversation(ctx context.Context, sessionID string) (*conv.Conversation, error) {
	return db.GetConversation(ctx, e.database, sessionID)
}
