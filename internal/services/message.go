package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/robaadekings/Robert-portifolio-website/internal/models"
	"github.com/robaadekings/Robert-portifolio-website/pkg/response"
	"gorm.io/gorm"
)

type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// CreateMessageRequest is a contact form submission. Fields are stored as
// sent; the wire format is the only validation.
type CreateMessageRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

// Create stores a new unread message.
func (s *MessageService) Create(ctx context.Context, req *CreateMessageRequest) (*models.Message, error) {
	msg := models.Message{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
		IsRead:  false,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, response.NewUpstreamFailure("failed to save message", err)
	}
	return &msg, nil
}

// List returns every message, newest first.
func (s *MessageService) List(ctx context.Context) ([]models.Message, error) {
	messages := []models.Message{}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// Delete removes a single message.
func (s *MessageService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Message{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("Message not found")
	}
	return nil
}

// MarkRead flags a message as read. Marking an already-read message is a no-op.
func (s *MessageService) MarkRead(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	if err := s.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("Message not found")
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	if msg.IsRead {
		return &msg, nil
	}

	if err := s.db.WithContext(ctx).Model(&msg).Update("is_read", true).Error; err != nil {
		return nil, fmt.Errorf("mark message read: %w", err)
	}
	msg.IsRead = true
	return &msg, nil
}
