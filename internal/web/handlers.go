package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/spurcommerce/spurchat/internal/chat"
	"github.com/spurcommerce/spurchat/internal/config"
	"github.com/spurcommerce/spurchat/internal/conv"
	"github.com/spurcommerce/spurchat/internal/errors"
)

// maxBodyBytes caps the request body well above the message length limit.
const maxBodyBytes = 10 << 10

// Handlers contains HTTP route handlers for the chat service.
type Handlers struct {
	engine   *chat.Engine
	cfg      *config.Config
	renderer *Renderer
	log      *slog.Logger
}

// messageRequest is the body of POST /chat/message.
type messageRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// HandleMessage handles POST /chat/message, one full chat round trip.
func (h *Handlers) HandleMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewInvalidRequest("request body must be a JSON object with a \"message\" string"))
		return
	}

	// Reject invalid input here so over-length or empty messages never reach
	// the engine, let alone the LLM.
	if _, err := chat.ValidateMessage(req.Message, h.cfg.MaxMessageChars); err != nil {
		writeError(w, err)
		return
	}

	out, err := h.engine.Respond(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.log.Error("chat round trip failed", "path", r.URL.Path, "err", err)
		writeError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, out)
}

// HandleHistory handles GET /chat/history?session=. Read-only ordered
// transcript of a session.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		writeError(w, errors.NewInvalidRequest("session query parameter is required"))
		return
	}

	msgs, err := h.engine.History(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// HandleHealth handles GET /chat/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UnixMilli(),
	})
}

// HandleWidget handles GET /, the embedded chat widget page.
func (h *Handlers) HandleWidget(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "chat", ChatPageData{
		PageData: PageData{
			Title:   "Support",
			Version: h.renderer.version,
		},
	})
}

// HandleTranscript handles GET /transcript/{id}, a server-rendered view of
// a full conversation; assistant turns are rendered from markdown.
func (h *Handlers) HandleTranscript(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("conversation id is required"))
		return
	}

	conversation, err := h.engine.Conversation(r.Context(), id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	msgs, err := h.engine.History(r.Context(), id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	turns := make([]TranscriptTurn, 0, len(msgs))
	for _, m := range msgs {
		t := TranscriptTurn{Message: m}
		if m.Sender == conv.SenderAI {
			t.HTML = renderMarkdown(m.Text)
		}
		turns = append(turns, t)
	}

	h.renderer.renderPage(w, r, "transcript", TranscriptPageData{
		PageData: PageData{
			Title:   "Transcript",
			Version: h.renderer.version,
		},
		Conversation: conversation,
		Turns:        turns,
	})
}
