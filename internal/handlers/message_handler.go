package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/unilink-app/unilink/backend/internal/chat"
	"github.com/unilink-app/unilink/backend/internal/models"
	"github.com/unilink-app/unilink/backend/internal/repositories"
)

// MessageHandler handles HTTP requests for room messages
type MessageHandler struct {
	chatService *chat.Service
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(chatService *chat.Service) *MessageHandler {
	return &MessageHandler{chatService: chatService}
}

// RegisterMessageRoutes registers message-related routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/send-message", h.SendMessage)
	g.GET("/messages", h.GetMessages)
	g.DELETE("/delete-message", h.DeleteMessage)
	g.DELETE("/delete-all-messages", h.DeleteAllMessages)
}

// SendMessage persists a message to an existing room and fans it out to the
// other connected members.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	view, err := h.chatService.SendMessage(c.Request().Context(), userID, req.RoomName, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrContentRequired), errors.Is(err, chat.ErrRoomNameRequired):
			return errorJSON(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, repositories.ErrRoomNotFound):
			return errorJSON(c, http.StatusNotFound, "Room not found")
		case errors.Is(err, repositories.ErrUserNotFound):
			return errorJSON(c, http.StatusNotFound, "User not found")
		default:
			return errorJSON(c, http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": view})
}

// GetMessages returns a room's message history in ascending order.
func (h *MessageHandler) GetMessages(c echo.Context) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}

	roomName := c.QueryParam("roomName")
	var limit int64
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			return errorJSON(c, http.StatusBadRequest, "Invalid limit")
		}
		limit = parsed
	}

	views, err := h.chatService.History(c.Request().Context(), roomName, limit)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrRoomNameRequired):
			return errorJSON(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, repositories.ErrRoomNotFound):
			return errorJSON(c, http.StatusNotFound, "Room not found")
		default:
			return errorJSON(c, http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": views})
}

// DeleteMessage removes a single message from a room.
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	roomName := c.QueryParam("roomName")
	messageID := c.QueryParam("messageId")

	if err := h.chatService.DeleteMessage(c.Request().Context(), userID, roomName, messageID); err != nil {
		switch {
		case errors.Is(err, chat.ErrRoomNameRequired), errors.Is(err, chat.ErrInvalidMessageID):
			return errorJSON(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, repositories.ErrRoomNotFound):
			return errorJSON(c, http.StatusNotFound, "Room not found")
		default:
			return errorJSON(c, http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Message deleted"})
}

// DeleteAllMessages wipes a room's history.
func (h *MessageHandler) DeleteAllMessages(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	roomName := c.QueryParam("roomName")

	if err := h.chatService.DeleteAllMessages(c.Request().Context(), userID, roomName); err != nil {
		switch {
		case errors.Is(err, chat.ErrRoomNameRequired):
			return errorJSON(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, repositories.ErrRoomNotFound):
			return errorJSON(c, http.StatusNotFound, "Room not found")
		default:
			return errorJSON(c, http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Messages deleted"})
}
