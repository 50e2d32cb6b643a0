package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType selects the WhatsApp message template.
type NotificationType string

const (
	NotificationWelcome         NotificationType = "welcome"
	NotificationMemberApproved  NotificationType = "member_approved"
	NotificationPickupScheduled NotificationType = "pickup_scheduled"
	NotificationPickupCompleted NotificationType = "pickup_completed"
	NotificationPointsEarned    NotificationType = "points_earned"
	NotificationPaymentSuccess  NotificationType = "payment_success"
	NotificationPaymentReminder NotificationType = "payment_reminder"
	NotificationAnnouncement    NotificationType = "announcement"
)

// Valid reports whether t is one of the supported templates.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationWelcome, NotificationMemberApproved, NotificationPickupScheduled,
		NotificationPickupCompleted, NotificationPointsEarned, NotificationPaymentSuccess,
		NotificationPaymentReminder, NotificationAnnouncement:
		return true
	}
	return false
}

const (
	NotificationStatusSent   = "SENT"
	NotificationStatusFailed = "FAILED"
)

// Notification represents a WhatsApp message sent to a member
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	MemberID  *primitive.ObjectID `bson:"member_id,omitempty" json:"member_id,omitempty"`
	Recipient string              `bson:"recipient" json:"recipient"`
	Type      NotificationType    `bson:"type" json:"type"`
	Content   string              `bson:"content" json:"content"`
	Status    string              `bson:"status" json:"status"` // SENT, FAILED
	Gateway   string              `bson:"gateway" json:"gateway"`
	MessageID string              `bson:"message_id,omitempty" json:"message_id,omitempty"`
	Attempts  int                 `bson:"attempts" json:"attempts"`
	Error     string              `bson:"error,omitempty" json:"error,omitempty"`
	SentAt    *time.Time          `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}

// SendNotificationRequest is the body of POST /whatsapp/send.
type SendNotificationRequest struct {
	Recipient string                 `json:"recipient" binding:"required"`
	Type      NotificationType       `json:"type" binding:"required"`
	Data      map[string]interface{} `json:"data"`
	MemberID  string                 `json:"memberId"`
}
