package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"board-api/internal/repository"
)

// MessageHandler implementa el CRUD de mensajes.
type MessageHandler struct {
	logger *zap.Logger
}

func NewMessageHandler(logger *zap.Logger) *MessageHandler {
	return &MessageHandler{logger: logger}
}

// ListMessages maneja GET /messages.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	rc := RequestContextFrom(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	params := repository.ListMessagesParams{Limit: limit, Offset: offset}
	if raw := c.Query("userId"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId must be an integer"})
			return
		}
		params.UserID = &userID
	}

	messages, err := rc.Messages.List(c.Request.Context(), params)
	if err != nil {
		handleStorageError(c, h.logger, err, "message not found", "could not list messages")
		return
	}
	c.JSON(http.StatusOK, messages)
}

// GetMessage maneja GET /messages/:messageId.
func (h *MessageHandler) GetMessage(c *gin.Context) {
	rc := RequestContextFrom(c)

	id := c.Param("messageId")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}

	message, err := rc.Messages.GetByID(c.Request.Context(), id)
	if err != nil {
		handleStorageError(c, h.logger, err, "message not found", "could not get message")
		return
	}
	c.JSON(http.StatusOK, message)
}

// CreateMessage maneja POST /messages. El dueño no viene en el body: se
// toma del usuario actual resuelto en el contexto del request.
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	rc := RequestContextFrom(c)

	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	me := rc.CurrentUser(c.Request.Context())
	if me == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no authenticated user"})
		return
	}

	message, err := rc.Messages.Create(c.Request.Context(), text, me.ID)
	if err != nil {
		handleStorageError(c, h.logger, err, "message not found", "could not create message")
		return
	}
	c.JSON(http.StatusCreated, message)
}

// UpdateMessage maneja PUT /messages/:messageId.
func (h *MessageHandler) UpdateMessage(c *gin.Context) {
	rc := RequestContextFrom(c)

	id := c.Param("messageId")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	message, err := rc.Messages.Update(c.Request.Context(), id, text)
	if err != nil {
		handleStorageError(c, h.logger, err, "message not found", "could not update message")
		return
	}
	c.JSON(http.StatusOK, message)
}

// DeleteMessage maneja DELETE /messages/:messageId.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	rc := RequestContextFrom(c)

	id := c.Param("messageId")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}

	if err := rc.Messages.Delete(c.Request.Context(), id); err != nil {
		handleStorageError(c, h.logger, err, "message not found", "could not delete message")
		return
	}
	c.Status(http.StatusNoContent)
}
