package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
)

func TestBoardsForClass(t *testing.T) {
	assert.Equal(t, []string{BoardSEBA, BoardCBSE}, BoardsForClass(1))
	assert.Equal(t, []string{BoardSEBA, BoardCBSE}, BoardsForClass(10))
	assert.Equal(t, []string{BoardAHSEC, BoardCBSE}, BoardsForClass(11))
	assert.Equal(t, []string{BoardAHSEC, BoardCBSE}, BoardsForClass(12))
}

func TestNormalizeBoard(t *testing.T) {
	tests := []struct {
		name  string
		class int
		board string
		want  string
	}{
		{"valid secondary board kept", 8, "SEBA", "SEBA"},
		{"case and spacing tolerated", 8, " cbse ", "CBSE"},
		{"seba snaps when moving to class 11", 11, "SEBA", "AHSEC"},
		{"ahsec snaps when moving down to class 10", 10, "AHSEC", "SEBA"},
		{"cbse survives the class 10 to 11 switch", 11, "CBSE", "CBSE"},
		{"unknown board falls back", 5, "ICSE", "SEBA"},
		{"empty board falls back", 12, "", "AHSEC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBoard(tt.class, tt.board))
		})
	}
}

func TestClampClass(t *testing.T) {
	assert.Equal(t, 1, ClampClass(0))
	assert.Equal(t, 1, ClampClass(-3))
	assert.Equal(t, 7, ClampClass(7))
	assert.Equal(t, 12, ClampClass(13))
}

func TestReplyKeywordMatching(t *testing.T) {
	r := NewResponder()

	reply := r.Reply("Hello there", 6, "SEBA")
	assert.Contains(t, reply, "Hello!")
	assert.Contains(t, reply, "Class 6")
	assert.Contains(t, reply, "SEBA")

	reply = r.Reply("I need help with MATH homework", 9, "CBSE")
	assert.Contains(t, reply, "Math")
	assert.Contains(t, reply, "Class 9")

	reply = r.Reply("explain this science experiment", 11, "CBSE")
	assert.Contains(t, reply, "Science")
	assert.Contains(t, reply, "CBSE")

	reply = r.Reply("what is photosynthesis", 4, "SEBA")
	assert.Contains(t, reply, "interesting question")
	assert.Contains(t, reply, "Class 4")
}

func TestReplyNormalizesScope(t *testing.T) {
	r := NewResponder()

	// An out-of-range class and an invalid board are corrected before the
	// reply is built.
	reply := r.Reply("hi", 15, "SEBA")
	assert.Contains(t, reply, "Class 12")
	assert.Contains(t, reply, "AHSEC")
}

func TestTranscript(t *testing.T) {
	at := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	messages := []models.ChatMessage{
		{Role: models.ChatRoleUser, Content: "hello", CreatedAt: at},
		{Role: models.ChatRoleAssistant, Content: "Hello! How can I help?", CreatedAt: at.Add(time.Second)},
	}

	out := Transcript(messages)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "You: hello")
	assert.Contains(t, lines[1], "AI Tutor: Hello! How can I help?")
	assert.Contains(t, lines[0], "2026-02-10 09:30")
}
