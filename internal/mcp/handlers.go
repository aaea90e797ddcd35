package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spurcommerce/spurchat/internal/chat"
	"github.com/spurcommerce/spurchat/internal/config"
	"github.com/spurcommerce/spurchat/internal/errors"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	engine *chat.Engine
	cfg    *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(engine *chat.Engine, cfg *config.Config) *Handlers {
	return &Handlers{engine: engine, cfg: cfg}
}

// SendRequest represents the arguments for chat_send.
type SendRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// HistoryRequest represents the arguments for chat_history.
type HistoryRequest struct {
	SessionID string `json:"session_id"`
}

// Tool definitions

var sendToolDef = mcp.NewTool("chat_send",
	mcp.WithDescription("Send a message to the Spur support assistant and get its reply. "+
		"Omit session_id to start a new conversation; pass the returned sessionId to continue one."),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("The user message to answer."),
	),
	mcp.WithString("session_id",
		mcp.Description("Existing conversation id to continue. Unknown ids start a fresh conversation."),
	),
)

var historyToolDef = mcp.NewTool("chat_history",
	mcp.WithDescription("Fetch the full ordered transcript of an existing conversation."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("The conversation id to read."),
	),
)

// HandleSend handles the chat_send tool call.
func (h *Handlers) HandleSend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SendRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if _, err := chat.ValidateMessage(input.Message, h.cfg.MaxMessageChars); err != nil {
		return errorResult(err), nil
	}

	out, err := h.engine.Respond(ctx, input.SessionID, input.Message)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(out)
}

// HandleHistory handles the chat_history tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.SessionID == "" {
		return errorResult(errors.NewInvalidRequest("session_id is required")), nil
	}

	msgs, err := h.engine.History(ctx, input.SessionID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"messages": msgs})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if cErr, ok := err.(*errors.ChatError); ok {
		errorObj := map[string]any{
			"code":    cErr.Code,
			"message": cErr.Message,
			"status":  cErr.Status,
		}
		if cErr.Code != errors.ErrInternal && cErr.Details != nil {
			errorObj["details"] = cErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
