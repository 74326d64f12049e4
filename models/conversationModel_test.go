package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConversationIDForIsOrderIndependent(t *testing.T) {
	assert.Equal(t, ConversationIDFor("guest1", "host1"), ConversationIDFor("host1", "guest1"))
	assert.Equal(t, "guest1_host1", ConversationIDFor("host1", "guest1"))
	assert.NotEqual(t, ConversationIDFor("guest1", "host1"), ConversationIDFor("guest1", "host2"))
}

func TestHasParticipantAndOtherParticipant(t *testing.T) {
	c := Conversation{ParticipantIDs: []string{"guest1", "host1"}}

	assert.True(t, c.HasParticipant("guest1"))
	assert.True(t, c.HasParticipant("host1"))
	assert.False(t, c.HasParticipant("stranger"))

	assert.Equal(t, "host1", c.OtherParticipant("guest1"))
	assert.Equal(t, "guest1", c.OtherParticipant("host1"))
	assert.Equal(t, "", c.OtherParticipant("stranger"))
}

func TestUnreadForIsDerivedFromProjection(t *testing.T) {
	now := time.Now()

	empty := Conversation{ParticipantIDs: []string{"a", "b"}}
	assert.False(t, empty.UnreadFor("a"), "no messages yet means nothing to read")

	c := Conversation{
		ParticipantIDs: []string{"a", "b"},
		LastMessage:    &LastMessage{SenderID: "a", Text: "Hello", Timestamp: now},
		ReadBy:         []string{"a"},
	}
	assert.False(t, c.UnreadFor("a"), "sender has read their own message")
	assert.True(t, c.UnreadFor("b"), "recipient has not acknowledged yet")

	c.ReadBy = []string{"a", "b"}
	assert.False(t, c.UnreadFor("b"), "acknowledged message is read")
}

func TestUnreadFlipsWhenTheOtherSideReplies(t *testing.T) {
	t0 := time.Now()
	c := Conversation{
		ParticipantIDs: []string{"a", "b"},
		LastMessage:    &LastMessage{SenderID: "a", Text: "Hello", Timestamp: t0},
		ReadBy:         []string{"a", "b"},
	}

	// b replies: projection moves, read_by resets to the new sender.
	c.LastMessage = &LastMessage{SenderID: "b", Text: "Hi", Timestamp: t0.Add(time.Second)}
	c.ReadBy = []string{"b"}

	assert.True(t, c.UnreadFor("a"))
	assert.False(t, c.UnreadFor("b"))
}
