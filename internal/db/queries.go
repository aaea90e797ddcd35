package db

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/spurcommerce/spurchat/internal/conv"
	"github.com/spurcommerce/spurchat/internal/errors"
)

// CreateConversation inserts a new conversation with a fresh opaque id and
// returns it. The summary starts out NULL.
func CreateConversation(ctx context.Context, db *sql.DB) (string, error) {
	id := uuid.NewString()
	now := time.Now().UnixMilli()

	_, err := db.ExecContext(ctx,
		"INSERT INTO conversations (id, created_at, summary) VALUES (?, ?, NULL)",
		id, now,
	)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return id, nil
}

// GetConversation retrieves a conversation by id.
func GetConversation(ctx context.Context, db *sql.DB, id string) (*conv.Conversation, error) {
	var (
		c       conv.Conversation
		summary sql.NullString
	)
	err := db.QueryRowContext(ctx,
		"SELECT id, created_at, summary FROM conversations WHERE id = ?", id,
	).Scan(&c.ID, &c.CreatedAt, &summary)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if summary.Valid {
		c.Summary = &summary.String
	}
	return &c, nil
}

// InsertMessage appends a message to a conversation and returns it. Message
// ids are ULIDs: within equal timestamps they sort in insertion order, which
// keeps the transcript totally ordered.
func InsertMessage(ctx context.Context, db *sql.DB, conversationID string, sender conv.Sender, text string) (*conv.Message, error) {
	if !sender.Valid() {
		return nil, errors.NewInvalidRequest("sender must be \"user\" or \"ai\"")
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	m := &conv.Message{
		ID:             id,
		ConversationID: conversationID,
		Sender:         sender,
		Text:           text,
		Timestamp:      time.Now().UnixMilli(),
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO messages (id, conversation_id, sender, text, timestamp) VALUES (?, ?, ?, ?, ?)",
		m.ID, m.ConversationID, m.Sender, m.Text, m.Timestamp,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return m, nil
}

// ListMessages returns all messages of a conversation ordered by timestamp,
// ties broken by id (insertion order).
func ListMessages(ctx context.Context, db *sql.DB, conversationID string) ([]conv.Message, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, conversation_id, sender, text, timestamp
		 FROM messages
		 WHERE conversation_id = ?
		 ORDER BY timestamp ASC, id ASC`,
		conversationID,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var msgs []conv.Message
	for rows.Next() {
		var m conv.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Text, &m.Timestamp); err != nil {
			return nil, errors.NewInternal(err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return msgs, nil
}

// CountMessages returns the number of stored messages in a conversation.
func CountMessages(ctx context.Context, db *sql.DB, conversationID string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE conversation_id = ?", conversationID,
	).Scan(&n)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// SetSummary unconditionally replaces a conversation's summary.
func SetSummary(ctx context.Context, db *sql.DB, conversationID, summary string) error {
	result, err := db.ExecContext(ctx,
		"UPDATE conversations SET summary = ? WHERE id = ?",
		summary, conversationID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return checkAffected(result, conversationID)
}

// SetSummaryIfAbsent sets a conversation's summary only if none is stored
// yet. Returns true if this call won the write; false means another writer
// already set a summary, making the summarization trigger idempotent under
// concurrent requests for the same conversation.
func SetSummaryIfAbsent(ctx context.Context, db *sql.DB, conversationID, summary string) (bool, error) {
	result, err := db.ExecContext(ctx,
		"UPDATE conversations SET summary = ? WHERE id = ? AND summary IS NULL",
		summary, conversationID,
	)
	if err != nil {
		return false, errors.NewInternal(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return affected > 0, nil
}

// checkAffected converts a zero-row update into a not-found error.
func checkAffected(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if affected == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

// generateULID returns a new lexicographically sortable message id.
func generateULID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
