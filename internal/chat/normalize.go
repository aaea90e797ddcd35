package chat

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Messages shorter than this are not worth a rewrite round trip.
const minNormalizeChars = 10

// normalize returns a best-effort cleaned-up version of a user message with
// the same intent. Any failure falls back to the original text; normalization
// must never block or fail the main flow. The result is used only for the
// generation call and is not persisted.
func (e *Engine) normalize(ctx context.Context, text string) string {
	if utf8.RuneCountInString(text) < minNormalizeChars {
		return text
	}

	cleaned, err := e.gateway.Rewrite(ctx, text)
	if err != nil {
		e.log.Debug("rewrite failed, keeping original", "err", err)
		return text
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return text
	}
	return cleaned
}
