package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRenderCoversEveryKnownType(t *testing.T) {
	types := []NotificationType{
		NotificationBookingRequested,
		NotificationBookingConfirmed,
		NotificationBookingCancelled,
		NotificationNewMessage,
		NotificationHostApproved,
		NotificationReviewReceived,
		NotificationRescheduleRequested,
		NotificationRescheduleResponded,
		NotificationNewReferral,
		NotificationEmailVerifyPending,
	}

	for _, typ := range types {
		n := Notification{ID: primitive.NewObjectID(), Type: typ, EntityID: "entity42"}
		view := n.Render()
		assert.NotEmpty(t, view.Icon, "type %s must have an icon", typ)
		assert.NotEmpty(t, view.Message, "type %s must have a message", typ)
		assert.NotEmpty(t, view.Link, "type %s must have a link", typ)
		assert.NotContains(t, view.Link, "%s", "type %s link must be fully built", typ)
	}
}

func TestRenderBuildsEntityLinks(t *testing.T) {
	n := Notification{ID: primitive.NewObjectID(), Type: NotificationBookingConfirmed, EntityID: "bk123"}
	assert.Equal(t, "/bookings/bk123", n.Render().Link)

	msg := Notification{ID: primitive.NewObjectID(), Type: NotificationNewMessage, EntityID: "a_b"}
	assert.Equal(t, "/messages/a_b", msg.Render().Link)
}

func TestRenderFallsBackOnUnknownType(t *testing.T) {
	created := time.Now()
	n := Notification{
		ID:        primitive.NewObjectID(),
		Type:      NotificationType("SOMETHING_FROM_THE_FUTURE"),
		EntityID:  "whatever",
		IsRead:    true,
		CreatedAt: created,
	}

	view := n.Render()
	assert.Equal(t, "bell", view.Icon)
	assert.Equal(t, "/notifications", view.Link)
	assert.NotEmpty(t, view.Message)
	assert.True(t, view.IsRead)
	assert.Equal(t, created, view.CreatedAt)
}
