package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType is the closed set of events the platform alerts users about.
type NotificationType string

const (
	NotificationBookingRequested    NotificationType = "BOOKING_REQUESTED"
	NotificationBookingConfirmed    NotificationType = "BOOKING_CONFIRMED"
	NotificationBookingCancelled    NotificationType = "BOOKING_CANCELLED"
	NotificationNewMessage          NotificationType = "NEW_MESSAGE"
	NotificationHostApproved        NotificationType = "HOST_APPROVED"
	NotificationReviewReceived      NotificationType = "REVIEW_RECEIVED"
	NotificationRescheduleRequested NotificationType = "RESCHEDULE_REQUESTED"
	NotificationRescheduleResponded NotificationType = "RESCHEDULE_RESPONDED"
	NotificationNewReferral         NotificationType = "NEW_REFERRAL"
	NotificationEmailVerifyPending  NotificationType = "EMAIL_VERIFICATION_PENDING"
)

// Notification is one entry in a single recipient's feed. Only "mark read"
// ever mutates it.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string             `bson:"user_id" json:"user_id" validate:"required"`
	Type      NotificationType   `bson:"type" json:"type" validate:"required"`
	EntityID  string             `bson:"entity_id" json:"entity_id"`
	IsRead    bool               `bson:"is_read" json:"is_read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// NotificationView is the rendered shape the feed exposes to clients.
type NotificationView struct {
	ID        string    `json:"id"`
	Icon      string    `json:"icon"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type presentation struct {
	icon    string
	message string
	link    string // format string taking the entity id
}

var presentations = map[NotificationType]presentation{
	NotificationBookingRequested:    {"calendar", "You have a new booking request", "/bookings/%s"},
	NotificationBookingConfirmed:    {"check-circle", "Your booking has been confirmed", "/bookings/%s"},
	NotificationBookingCancelled:    {"x-circle", "A booking was cancelled", "/bookings/%s"},
	NotificationNewMessage:          {"chat", "You have a new message", "/messages/%s"},
	NotificationHostApproved:        {"star", "Your host application was approved", "/hosting"},
	NotificationReviewReceived:      {"pencil", "A guest left you a review", "/bookings/%s"},
	NotificationRescheduleRequested: {"clock", "A reschedule was requested for your booking", "/bookings/%s"},
	NotificationRescheduleResponded: {"clock", "Your reschedule request got a response", "/bookings/%s"},
	NotificationNewReferral:         {"gift", "Someone joined with your referral", "/referrals"},
	NotificationEmailVerifyPending:  {"mail", "Please verify your email address", "/settings/email"},
}

// Render maps the stored record to its presentation. The mapping is total:
// a type this build does not know (old or future feed data) falls back to a
// generic entry instead of erroring.
func (n *Notification) Render() NotificationView {
	p, ok := presentations[n.Type]
	if !ok {
		p = presentation{icon: "bell", message: "You have a new notification", link: "/notifications"}
	}
	link := p.link
	if containsVerb(link) {
		link = fmt.Sprintf(p.link, n.EntityID)
	}
	return NotificationView{
		ID:        n.ID.Hex(),
		Icon:      p.icon,
		Message:   p.message,
		Link:      link,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func containsVerb(format string) bool {
	for i := 0; i+1 < len(format); i++ {
		if format[i] == '%' && format[i+1] == 's' {
			return true
		}
	}
	return false
}
