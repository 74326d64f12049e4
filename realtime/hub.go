package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// Event names pushed over the wire.
const (
	EventMessageNew          = "message.new"
	EventConversationUpdated = "conversation.updated"
	EventNotificationNew     = "notification.new"
)

// Event is one push frame delivered to subscribed clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub tracks one live connection per user plus the conversation rooms each
// connection has subscribed to. Every store write that matters re-delivers
// its projection through here.
type Hub struct {
	mu           sync.RWMutex
	sessions     map[string]*Connection            // sessionID -> connection
	userSessions map[string]string                 // userID -> sessionID
	rooms        map[string]map[string]*Connection // conversationID -> sessionID -> connection
	sessionRooms map[string]map[string]struct{}    // sessionID -> conversationIDs
}

func NewHub() *Hub {
	return &Hub{
		sessions:     make(map[string]*Connection),
		userSessions: make(map[string]string),
		rooms:        make(map[string]map[string]*Connection),
		sessionRooms: make(map[string]map[string]struct{}),
	}
}

// Attach registers a connection for its user. An older session for the same
// user is detached and closed after the swap, enforcing one socket per user.
func (h *Hub) Attach(conn *Connection) {
	var previous *Connection

	h.mu.Lock()
	if existingID, ok := h.userSessions[conn.UserID]; ok {
		if existing := h.sessions[existingID]; existing != nil {
			previous = existing
			h.detachLocked(existingID)
		}
	}
	h.sessions[conn.ID] = conn
	h.userSessions[conn.UserID] = conn.ID
	h.sessionRooms[conn.ID] = make(map[string]struct{})
	h.mu.Unlock()

	if previous != nil {
		previous.Close(1000, "session replaced")
	}
}

// Detach removes the connection from every room and from the session table.
// The caller owns closing the underlying socket.
func (h *Hub) Detach(sessionID string) {
	h.mu.Lock()
	h.detachLocked(sessionID)
	h.mu.Unlock()
}

func (h *Hub) detachLocked(sessionID string) {
	conn, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	for roomID := range h.sessionRooms[sessionID] {
		if members, ok := h.rooms[roomID]; ok {
			delete(members, sessionID)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	delete(h.sessionRooms, sessionID)
	delete(h.sessions, sessionID)
	if h.userSessions[conn.UserID] == sessionID {
		delete(h.userSessions, conn.UserID)
	}
}

// UserOnline reports whether the user currently has an attached session.
func (h *Hub) UserOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.userSessions[userID]
	return ok
}

// Join subscribes the connection to a conversation room.
func (h *Hub) Join(conn *Connection, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[conn.ID]; !ok {
		return
	}
	if h.rooms[conversationID] == nil {
		h.rooms[conversationID] = make(map[string]*Connection)
	}
	h.rooms[conversationID][conn.ID] = conn
	h.sessionRooms[conn.ID][conversationID] = struct{}{}
}

// Leave unsubscribes the connection from a conversation room.
func (h *Hub) Leave(conn *Connection, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[conversationID]; ok {
		delete(members, conn.ID)
		if len(members) == 0 {
			delete(h.rooms, conversationID)
		}
	}
	if roomSet, ok := h.sessionRooms[conn.ID]; ok {
		delete(roomSet, conversationID)
	}
}

// PublishToUser delivers an event to a user's live session, if any. Delivery
// is best-effort: an absent or slow consumer is not an error for the writer.
func (h *Hub) PublishToUser(userID string, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Println("❌ [Hub] marshal event:", err)
		return
	}

	h.mu.RLock()
	var conn *Connection
	if sessionID, ok := h.userSessions[userID]; ok {
		conn = h.sessions[sessionID]
	}
	h.mu.RUnlock()

	if conn != nil {
		_ = conn.Send(payload)
	}
}

// PublishToConversation fans an event out to every session subscribed to the
// conversation's room.
func (h *Hub) PublishToConversation(conversationID string, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Println("❌ [Hub] marshal event:", err)
		return
	}

	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.rooms[conversationID]))
	for _, conn := range h.rooms[conversationID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.Send(payload)
	}
}
