package web

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spurcommerce/spurchat/internal/chat"
	"github.com/spurcommerce/spurchat/internal/config"
	"github.com/spurcommerce/spurchat/internal/conv"
	"github.com/spurcommerce/spurchat/internal/db"
	"github.com/spurcommerce/spurchat/internal/errors"
)

// stubGateway answers every call with fixed text.
type stubGateway struct {
	reply       string
	generateErr error
}

func (s *stubGateway) Generate(context.Context, []conv.ContextEntry) (string, error) {
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return s.reply, nil
}

func (s *stubGateway) Rewrite(_ context.Context, text string) (string, error) {
	return text, nil
}

func (s *stubGateway) Summarize(context.Context, []string) (string, error) {
	return "summary", nil
}

func testServer(t *testing.T) (http.Handler, *stubGateway) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })

	gw := &stubGateway{reply: "All orders ship within a week."}
	cfg := config.DefaultConfig()
	engine := chat.NewEngine(database, gw, cfg, nil)
	srv := NewServer(engine, cfg, "test", "127.0.0.1", 0)
	return srv.Handler, gw
}

func postMessage(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return out
}

func TestHandleMessage(t *testing.T) {
	h, gw := testServer(t)

	rec := postMessage(t, h, `{"message": "when will my damaged replacement order actually arrive here"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	out := decodeJSON(t, rec)
	if out["reply"] != gw.reply {
		t.Errorf("reply = %v, want %q", out["reply"], gw.reply)
	}
	if out["sessionId"] == "" || out["sessionId"] == nil {
		t.Error("sessionId should be set")
	}
}

func TestHandleMessage_SessionContinuity(t *testing.T) {
	h, _ := testServer(t)

	rec := postMessage(t, h, `{"message": "first question about my package delivery being delayed again"}`)
	first := decodeJSON(t, rec)
	sessionID, _ := first["sessionId"].(string)
	if sessionID == "" {
		t.Fatal("first response has no sessionId")
	}

	body := fmt.Sprintf(`{"message": "second question about the same delayed package order", "sessionId": %q}`, sessionID)
	rec = postMessage(t, h, body)
	second := decodeJSON(t, rec)
	if second["sessionId"] != sessionID {
		t.Errorf("sessionId = %v, want %q", second["sessionId"], sessionID)
	}
}

func TestHandleMessage_EmptyMessage(t *testing.T) {
	h, _ := testServer(t)

	rec := postMessage(t, h, `{"message": "   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	out := decodeJSON(t, rec)
	errObj, _ := out["error"].(map[string]any)
	if errObj == nil || errObj["code"] != "INVALID_REQUEST" {
		t.Errorf("error = %v, want code INVALID_REQUEST", out["error"])
	}
}

func TestHandleMessage_TooLong(t *testing.T) {
	h, _ := testServer(t)

	body := fmt.Sprintf(`{"message": %q}`, strings.Repeat("x", 1001))
	rec := postMessage(t, h, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	out := decodeJSON(t, rec)
	errObj, _ := out["error"].(map[string]any)
	if errObj == nil || errObj["code"] != "MESSAGE_TOO_LONG" {
		t.Fatalf("error = %v, want code MESSAGE_TOO_LONG", out["error"])
	}
	msg, _ := errObj["message"].(string)
	if !strings.Contains(msg, "too long") {
		t.Errorf("message = %q, want a friendly redirect", msg)
	}
}

func TestHandleMessage_MalformedBody(t *testing.T) {
	h, _ := testServer(t)

	rec := postMessage(t, h, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleMessage_ProviderFailure(t *testing.T) {
	h, gw := testServer(t)
	gw.generateErr = errors.NewInvalidCredentials(stderrors.New("bad key"))

	rec := postMessage(t, h, `{"message": "why has my recent purchase not reached me yet after so long"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	out := decodeJSON(t, rec)
	errObj, _ := out["error"].(map[string]any)
	if errObj == nil || errObj["code"] != "INVALID_CREDENTIALS" {
		t.Fatalf("error = %v, want code INVALID_CREDENTIALS", out["error"])
	}
	// Fixed user-safe message; the technical cause stays out of the response
	if errObj["message"] != "Configuration error. Please contact support." {
		t.Errorf("message = %v", errObj["message"])
	}
	if strings.Contains(rec.Body.String(), "bad key") {
		t.Error("response leaks the underlying cause")
	}
}

func TestHandleHistory(t *testing.T) {
	h, gw := testServer(t)

	rec := postMessage(t, h, `{"message": "where exactly is my package right now please tell me"}`)
	out := decodeJSON(t, rec)
	sessionID, _ := out["sessionId"].(string)

	req := httptest.NewRequest(http.MethodGet, "/chat/history?session="+sessionID, nil)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec2.Code)
	}

	hist := decodeJSON(t, rec2)
	msgs, _ := hist["messages"].([]any)
	if len(msgs) != 2 {
		t.Errorf("len(messages) = %d, want 2", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["sender"] != "user" {
		t.Errorf("messages[0].sender = %v, want user", first["sender"])
	}
	second, _ := msgs[1].(map[string]any)
	if second["text"] != gw.reply {
		t.Errorf("messages[1].text = %v, want %q", second["text"], gw.reply)
	}
}

func TestHandleHistory_MissingSession(t *testing.T) {
	h, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/chat/history", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleHistory_UnknownSession(t *testing.T) {
	h, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/chat/history?session=nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/chat/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	out := decodeJSON(t, rec)
	if out["status"] != "ok" {
		t.Errorf("status field = %v, want ok", out["status"])
	}
	if out["timestamp"] == nil {
		t.Error("timestamp should be set")
	}
}

func TestHandleWidget(t *testing.T) {
	h, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "chat-form") {
		t.Error("widget page should contain the chat form")
	}
	if csp := rec.Header().Get("Content-Security-Policy"); csp == "" {
		t.Error("security headers should be set")
	}
}

func TestHandleTranscript(t *testing.T) {
	h, _ := testServer(t)

	rec := postMessage(t, h, `{"message": "what happened to the order I placed two weeks ago"}`)
	out := decodeJSON(t, rec)
	sessionID, _ := out["sessionId"].(string)

	req := httptest.NewRequest(http.MethodGet, "/transcript/"+sessionID, nil)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec2.Code, rec2.Body.String())
	}
	if !strings.Contains(rec2.Body.String(), sessionID) {
		t.Error("transcript page should show the conversation id")
	}
}

func TestHandleTranscript_UnknownID(t *testing.T) {
	h, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/transcript/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
