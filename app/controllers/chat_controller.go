package controllers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sujit-baniya/flash"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
	"github.com/Rothin8/smart-study-ai-solution/app/repository"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/chat"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/session"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/usercontext"
)

const (
	keyChatClass = "chat_class"
	keyChatBoard = "chat_board"

	chatHistoryPageSize = 200
)

var chatResponder = chat.NewResponder()

// chatScope reads the student's class and board from the session, falling
// back to class 1 and its first board.
func chatScope(c *fiber.Ctx) (int, string) {
	class := chat.MinClass
	if v := session.GetSessionValue(c, keyChatClass); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			class = chat.ClampClass(parsed)
		}
	}
	board := chat.NormalizeBoard(class, session.GetSessionValue(c, keyChatBoard))
	return class, board
}

// HandleChat renders the tutoring chat with the stored history.
func HandleChat(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	messages, err := repository.GetGlobalRepositories().Chat.GetByUserID(uc.UserID, 0, chatHistoryPageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load chat history")
	}

	class, board := chatScope(c)

	return render(c, "chat/index", fiber.Map{
		"Title":    "AI Tutor | Smart Study AI Solution",
		"Messages": messages,
		"Class":    class,
		"Board":    board,
		"Boards":   chat.BoardsForClass(class),
		"Classes":  classRange(),
	})
}

// HandleChatMessage stores the student message, produces the assistant reply
// and stores that too.
func HandleChatMessage(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	content := c.FormValue("message")
	if content == "" {
		return c.Redirect("/chat", fiber.StatusSeeOther)
	}

	class, board := chatScope(c)
	repos := repository.GetGlobalRepositories()

	userMsg := &models.ChatMessage{
		UUID:    uuid.New().String(),
		UserID:  uc.UserID,
		Role:    models.ChatRoleUser,
		Content: content,
		Class:   class,
		Board:   board,
	}
	if err := repos.Chat.Create(userMsg); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to store message")
	}

	reply := chatResponder.Reply(content, class, board)
	assistantMsg := &models.ChatMessage{
		UUID:    uuid.New().String(),
		UserID:  uc.UserID,
		Role:    models.ChatRoleAssistant,
		Content: reply,
		Class:   class,
		Board:   board,
	}
	if err := repos.Chat.Create(assistantMsg); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to store reply")
	}

	return c.Redirect("/chat", fiber.StatusSeeOther)
}

// HandleChatSettings updates the class/board scope. An invalid board for the
// chosen class snaps to the first valid one.
func HandleChatSettings(c *fiber.Ctx) error {
	class := chat.MinClass
	if parsed, err := strconv.Atoi(c.FormValue("class")); err == nil {
		class = chat.ClampClass(parsed)
	}
	board := chat.NormalizeBoard(class, c.FormValue("board"))

	_ = session.SetSessionValue(c, keyChatClass, strconv.Itoa(class))
	_ = session.SetSessionValue(c, keyChatBoard, board)

	return c.Redirect("/chat", fiber.StatusSeeOther)
}

// HandleChatClear deletes the user's chat history.
func HandleChatClear(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	fm := fiber.Map{
		"type": "error",
	}

	if err := repository.GetGlobalRepositories().Chat.DeleteByUserID(uc.UserID); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/chat")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "Chat history cleared.",
	}

	return flash.WithSuccess(c, fm).Redirect("/chat")
}

// HandleChatExport downloads the full history as a plain-text transcript.
func HandleChatExport(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	messages, err := repository.GetGlobalRepositories().Chat.GetByUserID(uc.UserID, 0, 10000)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load chat history")
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="chat-transcript.txt"`)
	return c.SendString(chat.Transcript(messages))
}

func classRange() []int {
	classes := make([]int, 0, chat.MaxClass)
	for i := chat.MinClass; i <= chat.MaxClass; i++ {
		classes = append(classes, i)
	}
	return classes
}
