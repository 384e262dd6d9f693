package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/jetset/internal/models"
	"github.com/dharmasatrya/jetset/internal/orchestrator"
)

type ChatService interface {
	HandleChat(ctx context.Context, message, conversationID string) *orchestrator.Reply
	Reset(ctx context.Context, conversationID string) error
}

type ChatHandler struct {
	service ChatService
	logger  *slog.Logger
}

func NewChatHandler(service ChatService) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  slog.Default().With(slog.String("component", "handler")),
	}
}

// Register mounts the chat routes on e.
func (h *ChatHandler) Register(e *echo.Echo) {
	api := e.Group("/api")
	api.POST("/chat", h.Chat)
	api.POST("/reset", h.Reset)
	e.GET("/health", HealthHandler)
}

func (h *ChatHandler) Chat(c echo.Context) error {
	var req models.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	req.Message = strings.TrimSpace(req.Message)
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	h.logger.Info("chat message received",
		slog.String("conversation_id", req.ConversationID),
		slog.Int("length", len(req.Message)),
	)

	reply := h.service.HandleChat(c.Request().Context(), req.Message, req.ConversationID)

	return c.JSON(http.StatusOK, models.ChatResponse{
		Response:       reply.Text,
		ConversationID: reply.ConversationID,
		Intent:         string(reply.Intent),
		FlightData:     reply.Flights,
		ErrorCode:      string(reply.ErrorCode),
	})
}

func (h *ChatHandler) Reset(c echo.Context) error {
	var req models.ResetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}
	req.ConversationID = strings.TrimSpace(req.ConversationID)
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := h.service.Reset(c.Request().Context(), req.ConversationID); err != nil {
		h.logger.Error("reset conversation failed",
			slog.String("conversation_id", req.ConversationID),
			slog.String("error", err.Error()),
		)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "reset_error",
			Message: "Failed to reset conversation",
			Code:    http.StatusInternalServerError,
		})
	}

	return c.JSON(http.StatusOK, models.ResetResponse{
		Status:  "success",
		Message: "Conversation reset",
	})
}
