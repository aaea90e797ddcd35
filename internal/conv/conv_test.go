package conv

import "testing"

func TestSenderValid(t *testing.T) {
	if !SenderUser.Valid() || !SenderAI.Valid() {
		t.Error("known senders should be valid")
	}
	if Sender("assistant").Valid() {
		t.Error("unknown sender should be invalid")
	}
}

func TestSenderRole(t *testing.T) {
	if got := SenderUser.Role(); got != RoleUser {
		t.Errorf("SenderUser.Role() = %s, want %s", got, RoleUser)
	}
	if got := SenderAI.Role(); got != RoleAssistant {
		t.Errorf("SenderAI.Role() = %s, want %s", got, RoleAssistant)
	}
}

func TestTranscript(t *testing.T) {
	msgs := []Message{
		{Sender: SenderUser, Text: "where is my order"},
		{Sender: SenderAI, Text: "It ships in 3-5 days."},
	}

	lines := Transcript(msgs)
	if len(lines) != 2 {
		t.Fatalf("len = %d, want 2", len(lines))
	}
	if lines[0] != "user: where is my order" {
		t.Errorf("lines[0] = %q", lines[0])
	}
	if lines[1] != "ai: It ships in 3-5 days." {
		t.Errorf("lines[1] = %q", lines[1])
	}
}

func TestSummaryEntry(t *testing.T) {
	e := SummaryEntry("  customer asked about refunds  ")
	if e.Role != RoleSystem {
		t.Errorf("Role = %s, want %s", e.Role, RoleSystem)
	}
	want := "Previous conversation summary: customer asked about refunds"
	if e.Content != want {
		t.Errorf("Content = %q, want %q", e.Content, want)
	}
}
