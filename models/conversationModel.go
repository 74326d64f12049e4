package models

import (
	"sort"
	"strings"
	"time"
)

// ParticipantInfo is the display info snapshot captured at conversation
// creation so list views never fan out to the users collection.
type ParticipantInfo struct {
	Name     string `bson:"name" json:"name"`
	PhotoURL string `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
}

// LastMessage is the denormalized projection of the newest message in the thread.
type LastMessage struct {
	SenderID  string    `bson:"sender_id" json:"sender_id"`
	Text      string    `bson:"text" json:"text"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Conversation pairs one guest with one host. Its _id is derived from the two
// participant ids, so repeated lookups/creates for the same pair always land on
// the same document.
type Conversation struct {
	ID              string                     `bson:"_id" json:"id"`
	ParticipantIDs  []string                   `bson:"participant_ids" json:"participant_ids" validate:"required,len=2"`
	ParticipantInfo map[string]ParticipantInfo `bson:"participant_info" json:"participant_info"`
	LastMessage     *LastMessage               `bson:"last_message,omitempty" json:"last_message,omitempty"`
	ReadBy          []string                   `bson:"read_by" json:"read_by"`
	CreatedAt       time.Time                  `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time                  `bson:"updated_at" json:"updated_at"`
}

// ConversationIDFor derives the stable conversation id for a pair of users.
// The pair is sorted first, so (a,b) and (b,a) map to the same id.
func ConversationIDFor(a string, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not userID, or "" when
// userID is not in the conversation.
func (c *Conversation) OtherParticipant(userID string) string {
	if !c.HasParticipant(userID) {
		return ""
	}
	for _, id := range c.ParticipantIDs {
		if id != userID {
			return id
		}
	}
	return ""
}

// UnreadFor derives the unread flag for userID from the current projection.
// It is recomputed on every read; nothing stores the flag.
func (c *Conversation) UnreadFor(userID string) bool {
	if c.LastMessage == nil {
		return false
	}
	if c.LastMessage.SenderID == userID {
		return false
	}
	for _, id := range c.ReadBy {
		if id == userID {
			return false
		}
	}
	return true
}
