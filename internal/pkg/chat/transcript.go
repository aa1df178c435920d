package chat

import (
	"fmt"
	"strings"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
)

// Transcript renders a conversation as plain text for download. Messages are
// expected in chronological order.
func Transcript(messages []models.ChatMessage) string {
	var b strings.Builder
	for _, m := range messages {
		label := "You"
		if m.Role == models.ChatRoleAssistant {
			label = "AI Tutor"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", m.CreatedAt.Format("2006-01-02 15:04"), label, m.Content)
	}
	return b.String()
}
