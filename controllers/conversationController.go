package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JioBaba369/Go2Culture-sub001/helpers"
	"github.com/JioBaba369/Go2Culture-sub001/models"
	"github.com/JioBaba369/Go2Culture-sub001/realtime"
)

const requestTimeout = 10 * time.Second

// conversationView is the row shape the conversation list exposes.
type conversationView struct {
	ID                 string                 `json:"id"`
	OtherParticipantID string                 `json:"other_participant_id"`
	OtherParticipant   models.ParticipantInfo `json:"other_participant"`
	LastMessage        *models.LastMessage    `json:"last_message,omitempty"`
	Unread             bool                   `json:"unread"`
}

// ConversationController owns the conversation directory: pair-keyed
// get-or-create, recency-ordered listings and read acknowledgments.
type ConversationController struct {
	conversations *mongo.Collection
	users         *mongo.Collection
	hub           *realtime.Hub
	alerts        *helpers.Alerts
}

func NewConversationController(db *mongo.Database, hub *realtime.Hub, alerts *helpers.Alerts) *ConversationController {
	return &ConversationController{
		conversations: db.Collection("conversations"),
		users:         db.Collection("users"),
		hub:           hub,
		alerts:        alerts,
	}
}

type getOrCreateRequest struct {
	PeerID string `json:"peer_id" validate:"required"`
}

// GetOrCreate looks up or lazily creates the conversation with the peer named
// in the body. The _id is derived from the sorted pair and the insert uses
// $setOnInsert only, so concurrent calls from both sides settle on one
// document and a repeat call never touches accumulated state.
func (cc *ConversationController) GetOrCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		userID := c.GetString("user_id")

		var req getOrCreateRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		peerID := req.PeerID
		if peerID == "" || peerID == userID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "peer_id must be another user"})
			return
		}

		var me, peer models.User
		if err := cc.users.FindOne(ctx, bson.M{"user_id": userID}).Decode(&me); err != nil {
			log.Println("❌ [GetOrCreate] loading caller failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}
		err := cc.users.FindOne(ctx, bson.M{"user_id": peerID}).Decode(&peer)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "this user is no longer available"})
			return
		}
		if err != nil {
			log.Println("❌ [GetOrCreate] loading peer failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}

		now := time.Now().UTC()
		conversationID := models.ConversationIDFor(userID, peerID)
		update := bson.M{
			"$setOnInsert": bson.M{
				"participant_ids": []string{userID, peerID},
				"participant_info": map[string]models.ParticipantInfo{
					userID: me.DisplayInfo(),
					peerID: peer.DisplayInfo(),
				},
				"read_by":    []string{},
				"created_at": now,
				"updated_at": now,
			},
		}
		opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

		var conversation models.Conversation
		err = cc.conversations.FindOneAndUpdate(ctx, bson.M{"_id": conversationID}, update, opts).Decode(&conversation)
		if isUpsertRace(err) {
			// Both sides' first calls can race the upsert; the loser re-reads
			// the winner's document.
			err = cc.conversations.FindOneAndUpdate(ctx, bson.M{"_id": conversationID}, update, opts).Decode(&conversation)
		}
		if err != nil {
			log.Println("❌ [GetOrCreate] upsert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}

		c.JSON(http.StatusOK, viewFor(&conversation, userID))
	}
}

// ListForUser returns the caller's conversations, most recently active first.
func (cc *ConversationController) ListForUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		userID := c.GetString("user_id")
		conversations, ok := cc.findConversations(c, ctx, bson.M{"participant_ids": userID})
		if !ok {
			return
		}

		views := make([]conversationView, 0, len(conversations))
		for i := range conversations {
			views = append(views, viewFor(&conversations[i], userID))
		}
		c.JSON(http.StatusOK, gin.H{"conversations": views})
	}
}

// ListAll is the platform-wide variant for administrative oversight. The
// admin is a party to nothing, so rows carry both participants and the raw
// read state instead of a one-sided view.
func (cc *ConversationController) ListAll() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := helpers.MatchUserType(c, helpers.TypeAdmin); err != nil {
			cc.alerts.Report("permission violation: non-admin " + c.GetString("user_id") + " requested the platform conversation listing")
			c.JSON(http.StatusForbidden, gin.H{"error": "could not complete"})
			return
		}

		conversations, ok := cc.findConversations(c, ctx, bson.M{})
		if !ok {
			return
		}

		views := make([]oversightView, 0, len(conversations))
		for i := range conversations {
			views = append(views, oversightViewFor(&conversations[i]))
		}
		c.JSON(http.StatusOK, gin.H{"conversations": views})
	}
}

func (cc *ConversationController) findConversations(c *gin.Context, ctx context.Context, filter bson.M) ([]models.Conversation, bool) {
	opts := options.Find().SetSort(bson.D{{Key: "last_message.timestamp", Value: -1}})
	cursor, err := cc.conversations.Find(ctx, filter, opts)
	if err != nil {
		log.Println("❌ [findConversations] find failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
		return nil, false
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		log.Println("❌ [findConversations] decode failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
		return nil, false
	}
	return conversations, true
}

// MarkRead adds the caller to read_by for the current last message. The write
// is a field-level $addToSet so it cannot stomp a concurrent projection
// update from the other side's new message.
func (cc *ConversationController) MarkRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		userID := c.GetString("user_id")
		conversationID := c.Param("conversation_id")

		var conversation models.Conversation
		err := cc.conversations.FindOne(ctx, bson.M{"_id": conversationID}).Decode(&conversation)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "this conversation is no longer available"})
			return
		}
		if err != nil {
			log.Println("❌ [MarkRead] find failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}

		if !conversation.HasParticipant(userID) {
			cc.alerts.Report("permission violation: " + userID + " tried to mark-read conversation " + conversationID)
			c.JSON(http.StatusForbidden, gin.H{"error": "could not complete"})
			return
		}

		if _, err := cc.conversations.UpdateOne(ctx, bson.M{"_id": conversationID}, bson.M{"$addToSet": bson.M{"read_by": userID}}); err != nil {
			log.Println("❌ [MarkRead] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}

		cc.hub.PublishToConversation(conversationID, realtime.Event{
			Type: realtime.EventConversationUpdated,
			Data: gin.H{"id": conversationID, "read_by_added": userID},
		})

		c.JSON(http.StatusOK, gin.H{"message": "conversation marked read"})
	}
}

// oversightView is the admin listing row: both sides, raw projection, raw
// read state.
type oversightView struct {
	ID              string                            `json:"id"`
	ParticipantIDs  []string                          `json:"participant_ids"`
	ParticipantInfo map[string]models.ParticipantInfo `json:"participant_info"`
	LastMessage     *models.LastMessage               `json:"last_message,omitempty"`
	ReadBy          []string                          `json:"read_by"`
}

func oversightViewFor(conversation *models.Conversation) oversightView {
	return oversightView{
		ID:              conversation.ID,
		ParticipantIDs:  conversation.ParticipantIDs,
		ParticipantInfo: conversation.ParticipantInfo,
		LastMessage:     conversation.LastMessage,
		ReadBy:          conversation.ReadBy,
	}
}

// isUpsertRace reports whether a get-or-create upsert lost to a concurrent
// insert of the same pair id.
func isUpsertRace(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

func viewFor(conversation *models.Conversation, viewer string) conversationView {
	otherID := conversation.OtherParticipant(viewer)
	view := conversationView{
		ID:                 conversation.ID,
		OtherParticipantID: otherID,
		LastMessage:        conversation.LastMessage,
		Unread:             conversation.UnreadFor(viewer),
	}
	if info, ok := conversation.ParticipantInfo[otherID]; ok {
		view.OtherParticipant = info
	}
	return view
}
