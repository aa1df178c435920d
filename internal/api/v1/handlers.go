package apiv1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Rothin8/smart-study-ai-solution/app/models"
	"github.com/Rothin8/smart-study-ai-solution/app/repository"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/chat"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/statistics"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/subscription"
	"github.com/Rothin8/smart-study-ai-solution/internal/pkg/usercontext"
)

// APIServer implements the JSON API surface.
type APIServer struct {
	subs      *subscription.Service
	responder *chat.Responder
}

// NewAPIServer creates a new API server instance
func NewAPIServer(subs *subscription.Service) *APIServer {
	return &APIServer{
		subs:      subs,
		responder: chat.NewResponder(),
	}
}

// Pong is the health check response body.
type Pong struct {
	Ping string `json:"ping"`
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetMe returns the authenticated user's context.
func (s *APIServer) GetMe(c *fiber.Ctx) error {
	return c.JSON(usercontext.GetUserContext(c))
}

// GetSubscription resolves the caller's effective subscription status.
func (s *APIServer) GetSubscription(c *fiber.Ctx) error {
	status, err := s.subs.Resolve(c.Context(), usercontext.GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "failed to resolve subscription",
		})
	}
	return c.JSON(fiber.Map{
		"tier":       status.Tier,
		"active":     status.Active(),
		"expires_at": status.ExpiresAt,
	})
}

type chatMessageRequest struct {
	Message string `json:"message"`
	Class   int    `json:"class"`
	Board   string `json:"board"`
}

// PostChatMessage stores a student message and returns the assistant reply.
func (s *APIServer) PostChatMessage(c *fiber.Ctx) error {
	var req chatMessageRequest
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "message is required",
		})
	}

	userID := usercontext.GetUserID(c)
	class := chat.ClampClass(req.Class)
	board := chat.NormalizeBoard(class, req.Board)

	repos := repository.GetGlobalRepositories()
	userMsg := &models.ChatMessage{
		UUID:    uuid.New().String(),
		UserID:  userID,
		Role:    models.ChatRoleUser,
		Content: req.Message,
		Class:   class,
		Board:   board,
	}
	if err := repos.Chat.Create(userMsg); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "failed to store message",
		})
	}

	reply := s.responder.Reply(req.Message, class, board)
	assistantMsg := &models.ChatMessage{
		UUID:    uuid.New().String(),
		UserID:  userID,
		Role:    models.ChatRoleAssistant,
		Content: reply,
		Class:   class,
		Board:   board,
	}
	if err := repos.Chat.Create(assistantMsg); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "failed to store reply",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": assistantMsg,
		"class":   class,
		"board":   board,
	})
}

// GetChatMessages returns the caller's chat history in chronological order.
func (s *APIServer) GetChatMessages(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 100)
	if limit < 1 || limit > 500 {
		limit = 100
	}

	repos := repository.GetGlobalRepositories()
	messages, err := repos.Chat.GetByUserID(userID, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "failed to load chat history",
		})
	}
	total, err := repos.Chat.CountByUserID(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "failed to count chat history",
		})
	}

	return c.JSON(fiber.Map{
		"messages": messages,
		"total":    total,
	})
}

// DeleteChatMessage removes a single message by UUID.
func (s *APIServer) DeleteChatMessage(c *fiber.Ctx) error {
	msgUUID := c.Params("uuid")
	if msgUUID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "uuid missing",
		})
	}

	err := repository.GetGlobalRepositories().Chat.DeleteByUUID(usercontext.GetUserID(c), msgUUID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "message not found",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetChatExport returns the plain-text transcript.
func (s *APIServer) GetChatExport(c *fiber.Ctx) error {
	messages, err := repository.GetGlobalRepositories().Chat.GetByUserID(usercontext.GetUserID(c), 0, 10000)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "failed to load chat history",
		})
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="chat-transcript.txt"`)
	return c.SendString(chat.Transcript(messages))
}

// GetAdminUsers lists users with subscriptions for the admin SPA widgets.
func (s *APIServer) GetAdminUsers(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	users, err := repository.GetGlobalRepositories().User.GetWithSubscriptions(offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "failed to load users",
		})
	}
	return c.JSON(fiber.Map{"users": users})
}

// GetAdminAnalytics returns the dashboard counters and the monthly series.
func (s *APIServer) GetAdminAnalytics(c *fiber.Ctx) error {
	data, err := statistics.GetDashboardData()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "failed to load analytics",
		})
	}
	months := c.QueryInt("months", 6)
	series, err := statistics.GetMonthlySeries(months)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal",
			"message": "failed to load analytics",
		})
	}
	return c.JSON(fiber.Map{
		"totals": data,
		"series": series,
	})
}
