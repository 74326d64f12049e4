package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JioBaba369/Go2Culture-sub001/models"
	"github.com/JioBaba369/Go2Culture-sub001/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// pongWait must outlast the write side's ping period, so a live peer always
// refreshes its read deadline in time.
const pongWait = 75 * time.Second

// clientCommand is what a connected client sends to manage its live queries.
type clientCommand struct {
	Action         string `json:"action"` // "subscribe" | "unsubscribe"
	ConversationID string `json:"conversation_id"`
}

// RealtimeController upgrades authenticated clients onto the hub. The read
// loop doubles as the teardown path: when it exits, the session leaves every
// room it joined, so no push fires into a view nobody is watching.
type RealtimeController struct {
	conversations *mongo.Collection
	hub           *realtime.Hub
}

func NewRealtimeController(db *mongo.Database, hub *realtime.Hub) *RealtimeController {
	return &RealtimeController{
		conversations: db.Collection("conversations"),
		hub:           hub,
	}
}

// Serve handles GET /ws.
func (rc *RealtimeController) Serve() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("❌ [Serve] websocket upgrade failed:", err)
			return
		}

		conn := realtime.NewConnection(userID, ws)
		rc.hub.Attach(conn)
		conn.Start()

		go rc.readLoop(conn, ws)
	}
}

func (rc *RealtimeController) readLoop(conn *realtime.Connection, ws *websocket.Conn) {
	defer func() {
		rc.hub.Detach(conn.ID)
		conn.Close(websocket.CloseNormalClosure, "client gone")
	}()

	// A peer that stops answering pings is dead; without a deadline the read
	// would block until a write happens to fail.
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd clientCommand
		if err := ws.ReadJSON(&cmd); err != nil {
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))

		switch cmd.Action {
		case "subscribe":
			if rc.mayJoin(conn.UserID, cmd.ConversationID) {
				rc.hub.Join(conn, cmd.ConversationID)
			}
		case "unsubscribe":
			rc.hub.Leave(conn, cmd.ConversationID)
		}
	}
}

// mayJoin checks the subscriber is a participant before the room admits them.
func (rc *RealtimeController) mayJoin(userID string, conversationID string) bool {
	if conversationID == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var conversation models.Conversation
	if err := rc.conversations.FindOne(ctx, bson.M{"_id": conversationID}).Decode(&conversation); err != nil {
		return false
	}
	return conversation.HasParticipant(userID)
}
