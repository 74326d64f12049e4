package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recvEvent drains one buffered frame from the connection without a socket.
func recvEvent(t *testing.T, conn *Connection) Event {
	t.Helper()
	select {
	case payload := <-conn.send:
		var ev Event
		require.NoError(t, json.Unmarshal(payload, &ev))
		return ev
	default:
		t.Fatal("expected a buffered event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, conn *Connection) {
	t.Helper()
	select {
	case <-conn.send:
		t.Fatal("expected no event")
	default:
	}
}

func TestPublishToUserReachesOnlyThatUser(t *testing.T) {
	hub := NewHub()
	alice := NewConnection("alice", nil)
	bob := NewConnection("bob", nil)
	hub.Attach(alice)
	hub.Attach(bob)

	hub.PublishToUser("alice", Event{Type: EventNotificationNew, Data: "hi"})

	ev := recvEvent(t, alice)
	assert.Equal(t, EventNotificationNew, ev.Type)
	assertNoEvent(t, bob)
}

func TestPublishToUserWithoutSessionIsANoop(t *testing.T) {
	hub := NewHub()
	assert.NotPanics(t, func() {
		hub.PublishToUser("ghost", Event{Type: EventNotificationNew})
	})
}

func TestConversationRoomFanOut(t *testing.T) {
	hub := NewHub()
	alice := NewConnection("alice", nil)
	bob := NewConnection("bob", nil)
	carol := NewConnection("carol", nil)
	hub.Attach(alice)
	hub.Attach(bob)
	hub.Attach(carol)

	hub.Join(alice, "alice_bob")
	hub.Join(bob, "alice_bob")

	hub.PublishToConversation("alice_bob", Event{Type: EventMessageNew})

	assert.Equal(t, EventMessageNew, recvEvent(t, alice).Type)
	assert.Equal(t, EventMessageNew, recvEvent(t, bob).Type)
	assertNoEvent(t, carol)
}

func TestLeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	alice := NewConnection("alice", nil)
	hub.Attach(alice)
	hub.Join(alice, "alice_bob")

	hub.Leave(alice, "alice_bob")
	hub.PublishToConversation("alice_bob", Event{Type: EventMessageNew})

	assertNoEvent(t, alice)
}

func TestDetachReleasesEveryRoom(t *testing.T) {
	hub := NewHub()
	alice := NewConnection("alice", nil)
	hub.Attach(alice)
	hub.Join(alice, "alice_bob")
	hub.Join(alice, "alice_carol")

	hub.Detach(alice.ID)
	assert.False(t, hub.UserOnline("alice"))

	hub.PublishToConversation("alice_bob", Event{Type: EventMessageNew})
	hub.PublishToConversation("alice_carol", Event{Type: EventMessageNew})
	hub.PublishToUser("alice", Event{Type: EventNotificationNew})
	assertNoEvent(t, alice)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	assert.Empty(t, hub.rooms, "empty rooms must be garbage collected")
	assert.Empty(t, hub.sessions)
}

func TestAttachReplacesPreviousSession(t *testing.T) {
	hub := NewHub()
	first := NewConnection("alice", nil)
	second := NewConnection("alice", nil)
	hub.Attach(first)
	hub.Join(first, "alice_bob")
	hub.Attach(second)

	// The stale session is fully gone: no room membership, no user mapping.
	hub.PublishToConversation("alice_bob", Event{Type: EventMessageNew})
	assertNoEvent(t, first)

	hub.PublishToUser("alice", Event{Type: EventNotificationNew})
	assertNoEvent(t, first)
	assert.Equal(t, EventNotificationNew, recvEvent(t, second).Type)
}

func TestJoinRequiresAttachedSession(t *testing.T) {
	hub := NewHub()
	stray := NewConnection("alice", nil)

	hub.Join(stray, "alice_bob")
	hub.PublishToConversation("alice_bob", Event{Type: EventMessageNew})
	assertNoEvent(t, stray)
}
