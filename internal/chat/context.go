package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/spurcommerce/spurchat/internal/conv"
	"github.com/spurcommerce/spurchat/internal/db"
)

// FallbackSummary is persisted when the summarization call fails.
// Summarization is an optimization, not a correctness requirement, so a
// failed call never aborts the request.
const FallbackSummary = "Previous conversation about Spur store inquiries."

// buildContext assembles the context window for a generation call: an
// optional leading summary note followed by at most KeepRecent recent turns.
// When the conversation has grown past SummarizeAfter messages and carries no
// summary yet, the older turns are compressed first.
func (e *Engine) buildContext(ctx context.Context, conversationID string) ([]conv.ContextEntry, error) {
	c, err := db.GetConversation(ctx, e.database, conversationID)
	if err != nil {
		return nil, err
	}
	msgs, err := db.ListMessages(ctx, e.database, conversationID)
	if err != nil {
		return nil, err
	}

	var entries []conv.ContextEntry
	switch {
	case c.Summary != nil:
		// An existing summary is reused as-is; it is never refreshed even as
		// new messages accumulate past the threshold again.
		entries = append(entries, conv.SummaryEntry(*c.Summary))
	case len(msgs) > e.cfg.SummarizeAfter:
		entries = append(entries, conv.SummaryEntry(e.summarizeOlder(ctx, conversationID, msgs)))
	}

	recent := msgs
	if len(recent) > e.cfg.KeepRecent {
		recent = recent[len(recent)-e.cfg.KeepRecent:]
	}
	for _, m := range recent {
		entries = append(entries, conv.ContextEntry{Role: m.Sender.Role(), Content: m.Text})
	}
	return entries, nil
}

// summarizeOlder compresses all but the most recent KeepRecent turns into a
// single summary and persists it. The read-check-act sequence is guarded by a
// per-conversation lock plus a set-if-absent store write, so concurrent
// requests for the same conversation trigger at most one summarization.
func (e *Engine) summarizeOlder(ctx context.Context, conversationID string, msgs []conv.Message) string {
	lock := e.summaryLock(conversationID)
	lock.Lock()
	defer lock.Unlock()

	// A racer may have summarized while we waited on the lock.
	if c, err := db.GetConversation(ctx, e.database, conversationID); err == nil && c.Summary != nil {
		return *c.Summary
	}

	older := msgs[:len(msgs)-e.cfg.KeepRecent]
	summary, err := e.gateway.Summarize(ctx, conv.Transcript(older))
	if err != nil || strings.TrimSpace(summary) == "" {
		e.log.Warn("summarization failed, storing fallback",
			"conversation", conversationID, "turns", len(older), "err", err)
		summary = FallbackSummary
	}

	won, err := db.SetSummaryIfAbsent(ctx, e.database, conversationID, summary)
	if err != nil {
		e.log.Warn("failed to persist summary", "conversation", conversationID, "err", err)
		return summary
	}
	if !won {
		if c, err := db.GetConversation(ctx, e.database, conversationID); err == nil && c.Summary != nil {
			return *c.Summary
		}
	}
	return summary
}

func (e *Engine) summaryLock(conversationID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.summaryLocks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		e.summaryLocks[conversationID] = lock
	}
	return lock
}
