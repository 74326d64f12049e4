package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one entry in a conversation's append-only log. Messages are
// immutable once written.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ConversationID string             `bson:"conversation_id" json:"conversation_id" validate:"required"`
	SenderID       string             `bson:"sender_id" json:"sender_id" validate:"required"`
	Text           string             `bson:"text" json:"text" validate:"required"`
	Timestamp      time.Time          `bson:"timestamp" json:"timestamp"`
}
