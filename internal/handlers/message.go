package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/robaadekings/Robert-portifolio-website/internal/services"
	"github.com/robaadekings/Robert-portifolio-website/pkg/response"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// Create stores a contact form submission
// POST /api/messages
func (h *MessageHandler) Create(c *gin.Context) {
	var req services.CreateMessageRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	msg, err := h.messageService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, msg)
}

// List returns every message, newest first
// GET /api/messages
func (h *MessageHandler) List(c *gin.Context) {
	messages, err := h.messageService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, messages)
}

// Delete removes a message
// DELETE /api/messages/:id
func (h *MessageHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "message")
	if !ok {
		return
	}

	if err := h.messageService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Message deleted")
}

// MarkRead flags a message as read
// PATCH /api/messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c, "id", "message")
	if !ok {
		return
	}

	msg, err := h.messageService.MarkRead(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, msg)
}
