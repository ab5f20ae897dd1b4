package models

import (
	"time"
)

// Message is a note between two accounts about a package or booking
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PackageID   *uint     `gorm:"index" json:"package_id"`
	Package     *Package  `gorm:"foreignKey:PackageID" json:"package,omitempty"`
	BookingID   *uint     `gorm:"index" json:"booking_id"`
	Booking     *Booking  `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	SenderID    uint      `gorm:"not null;index" json:"sender_id"`
	Sender      *Account  `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	Recipient   *Account  `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

// Involves reports whether accountID is the sender or the recipient
func (m Message) Involves(accountID uint) bool {
	return m.SenderID == accountID || m.RecipientID == accountID
}

// OtherParty returns the participant that is not accountID
func (m Message) OtherParty(accountID uint) uint {
	if m.SenderID == accountID {
		return m.RecipientID
	}
	return m.SenderID
}
