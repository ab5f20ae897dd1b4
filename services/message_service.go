package services

import (
	"context"
	"log"
	"strings"

	"github.com/weddingbook/marketplace-api/models"
	"gorm.io/gorm"
)

// SendMessageInput starts a conversation about a package, a booking, or both
type SendMessageInput struct {
	PackageID *uint
	BookingID *uint
	Content   string
}

// ReplyInput answers an existing message
type ReplyInput struct {
	MessageID uint
	Content   string
}

// ThreadView is the conversation screen: every contact, the selected one, and its messages
type ThreadView struct {
	Contacts []Contact       `json:"contacts"`
	Selected *Contact        `json:"selected"`
	Messages []models.Message `json:"messages"`
}

// MessageService decides who may send, reply to, and delete messages
type MessageService struct {
	db       *gorm.DB
	bookings *BookingService
}

// NewMessageService creates a message service
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db, bookings: NewBookingService(db, nil)}
}

// Send persists a fresh message once its recipient has been resolved
func (s *MessageService) Send(ctx context.Context, requester Identity, in SendMessageInput) (*models.Message, error) {
	ref := MessageRef{PackageID: in.PackageID, BookingID: in.BookingID}
	if err := ref.validate(); err != nil {
		return nil, err
	}
	content, err := requireContent(in.Content)
	if err != nil {
		return nil, err
	}

	if _, err := loadAccount(ctx, s.db, requester.AccountID); err != nil {
		return nil, err
	}

	res, err := ResolveRecipient(ctx, s.db, requester, ref)
	if err != nil {
		return nil, err
	}

	msg := models.Message{
		PackageID:   res.PackageID(),
		BookingID:   res.BookingID(),
		SenderID:    requester.AccountID,
		RecipientID: res.RecipientID(),
		Content:     content,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, StorageError("create message", err)
	}

	log.Printf("Message %d sent from %d to %d", msg.ID, msg.SenderID, msg.RecipientID)
	return &msg, nil
}

// Reply answers a message the requester sent or received. The reply goes to the
// other party and stays attached to the original's package and booking.
func (s *MessageService) Reply(ctx context.Context, requester Identity, in ReplyInput) (*models.Message, error) {
	if err := requireID(in.MessageID, "message_id", "Message"); err != nil {
		return nil, err
	}
	content, err := requireContent(in.Content)
	if err != nil {
		return nil, err
	}

	original, err := s.load(ctx, in.MessageID)
	if err != nil {
		return nil, err
	}
	if !original.Involves(requester.AccountID) {
		return nil, UnauthorizedError("Unauthorized to reply to this message")
	}

	reply := models.Message{
		PackageID:   original.PackageID,
		BookingID:   original.BookingID,
		SenderID:    requester.AccountID,
		RecipientID: original.OtherParty(requester.AccountID),
		Content:     content,
	}
	if err := s.db.WithContext(ctx).Create(&reply).Error; err != nil {
		return nil, StorageError("create reply", err)
	}

	log.Printf("Message %d replied to %d by %d", reply.ID, original.ID, requester.AccountID)
	return &reply, nil
}

// Delete removes a message for good. Only its sender may do so.
func (s *MessageService) Delete(ctx context.Context, requester Identity, messageID uint) error {
	if err := requireID(messageID, "message_id", "Message"); err != nil {
		return err
	}

	msg, err := s.load(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != requester.AccountID {
		return UnauthorizedError("Unauthorized to delete this message")
	}

	if err := s.db.WithContext(ctx).Delete(&models.Message{}, msg.ID).Error; err != nil {
		return StorageError("delete message", err)
	}

	log.Printf("Message %d deleted by %d", msg.ID, requester.AccountID)
	return nil
}

// ListForAccount returns every message the requester sent or received, oldest first
func (s *MessageService) ListForAccount(ctx context.Context, requester Identity) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Preload("Sender").
		Preload("Recipient").
		Preload("Package").
		Preload("Booking").
		Where("sender_id = ? OR recipient_id = ?", requester.AccountID, requester.AccountID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, StorageError("list messages", err)
	}
	return messages, nil
}

// ListThread builds the viewer's contacts and the messages for the one named by
// contactKey, falling back to the first contact when the key is empty or unknown.
func (s *MessageService) ListThread(ctx context.Context, viewer Identity, contactKey string) (*ThreadView, error) {
	bookings, err := s.bookings.ListForViewer(ctx, viewer)
	if err != nil {
		return nil, err
	}
	messages, err := s.ListForAccount(ctx, viewer)
	if err != nil {
		return nil, err
	}

	contacts := BuildContacts(viewer, bookings)
	selected := SelectContact(contacts, contactKey)

	return &ThreadView{
		Contacts: contacts,
		Selected: selected,
		Messages: FilterThread(messages, selected),
	}, nil
}

func (s *MessageService) load(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	if err := s.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		if isNotFound(err) {
			return nil, NotFoundError("MESSAGE_NOT_FOUND", "Message not found", "message_id")
		}
		return nil, StorageError("load message", err)
	}
	return &msg, nil
}

func requireContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", BusinessRuleError("EMPTY_CONTENT", "Message content cannot be empty", "content")
	}
	return trimmed, nil
}
