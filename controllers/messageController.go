package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JioBaba369/Go2Culture-sub001/helpers"
	"github.com/JioBaba369/Go2Culture-sub001/models"
	"github.com/JioBaba369/Go2Culture-sub001/realtime"
)

var (
	errConversationNotFound = errors.New("conversation not found")
	errNotParticipant       = errors.New("sender is not a participant")
)

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

// MessageController owns the append-only message log of each conversation and
// the projection updates that ride along with every append.
type MessageController struct {
	client        *mongo.Client
	conversations *mongo.Collection
	messages      *mongo.Collection
	notifier      *helpers.Notifier
	hub           *realtime.Hub
	alerts        *helpers.Alerts
}

func NewMessageController(db *mongo.Database, notifier *helpers.Notifier, hub *realtime.Hub, alerts *helpers.Alerts) *MessageController {
	return &MessageController{
		client:        db.Client(),
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
		notifier:      notifier,
		hub:           hub,
		alerts:        alerts,
	}
}

// Send appends a message and updates the owning conversation's last_message
// and read_by in one transaction, so readers never observe one without the
// other. A failed send leaves no partial state; the client keeps the composer
// content and retries explicitly.
func (mc *MessageController) Send() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		senderID := c.GetString("user_id")
		conversationID := c.Param("conversation_id")

		var req sendMessageRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		text := strings.TrimSpace(req.Text)
		if text == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message text must not be empty"})
			return
		}

		message, conversation, err := mc.sendInTransaction(ctx, conversationID, senderID, text)
		if errors.Is(err, errConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "this conversation is no longer available"})
			return
		}
		if errors.Is(err, errNotParticipant) {
			mc.alerts.Report("permission violation: " + senderID + " tried to write to conversation " + conversationID)
			c.JSON(http.StatusForbidden, gin.H{"error": "could not complete"})
			return
		}
		if err != nil {
			log.Println("❌ [Send] transaction failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "message could not be sent"})
			return
		}

		mc.hub.PublishToConversation(conversationID, realtime.Event{
			Type: realtime.EventMessageNew,
			Data: message,
		})
		recipientID := conversation.OtherParticipant(senderID)
		mc.hub.PublishToUser(recipientID, realtime.Event{
			Type: realtime.EventConversationUpdated,
			Data: viewFor(conversation, recipientID),
		})
		// Best-effort: the message is already committed, the recipient's feed
		// entry must not decide this request's outcome.
		mc.notifier.Notify(ctx, recipientID, models.NotificationNewMessage, conversationID)

		c.JSON(http.StatusOK, gin.H{"message": "message sent", "data": message})
	}
}

// sendInTransaction runs the append + projection update pair atomically and
// returns the committed message along with the updated conversation.
func (mc *MessageController) sendInTransaction(ctx context.Context, conversationID string, senderID string, text string) (*models.Message, *models.Conversation, error) {
	session, err := mc.client.StartSession()
	if err != nil {
		return nil, nil, err
	}
	defer session.EndSession(ctx)

	var message models.Message
	var conversation models.Conversation

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		findErr := mc.conversations.FindOne(sc, bson.M{"_id": conversationID}).Decode(&conversation)
		if errors.Is(findErr, mongo.ErrNoDocuments) {
			return nil, errConversationNotFound
		}
		if findErr != nil {
			return nil, findErr
		}
		if !conversation.HasParticipant(senderID) {
			return nil, errNotParticipant
		}

		message = models.Message{
			ID:             primitive.NewObjectID(),
			ConversationID: conversationID,
			SenderID:       senderID,
			Text:           text,
			Timestamp:      nextTimestamp(time.Now().UTC(), conversation.LastMessage),
		}
		if _, insErr := mc.messages.InsertOne(sc, message); insErr != nil {
			return nil, insErr
		}

		projection := models.LastMessage{
			SenderID:  senderID,
			Text:      text,
			Timestamp: message.Timestamp,
		}
		update := bson.M{"$set": bson.M{
			"last_message": projection,
			"read_by":      []string{senderID},
			"updated_at":   message.Timestamp,
		}}
		if _, updErr := mc.conversations.UpdateOne(sc, bson.M{"_id": conversationID}, update); updErr != nil {
			return nil, updErr
		}

		conversation.LastMessage = &projection
		conversation.ReadBy = []string{senderID}
		return nil, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &message, &conversation, nil
}

// nextTimestamp keeps per-conversation timestamps monotonic even when the
// wall clock steps backwards between two sends.
func nextTimestamp(now time.Time, last *models.LastMessage) time.Time {
	if last != nil && now.Before(last.Timestamp) {
		return last.Timestamp
	}
	return now
}

// List returns the thread in ascending timestamp order, insertion order
// breaking ties.
func (mc *MessageController) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		userID := c.GetString("user_id")
		conversationID := c.Param("conversation_id")

		var conversation models.Conversation
		err := mc.conversations.FindOne(ctx, bson.M{"_id": conversationID}).Decode(&conversation)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "this conversation is no longer available"})
			return
		}
		if err != nil {
			log.Println("❌ [List] find conversation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}
		if !conversation.HasParticipant(userID) && helpers.MatchUserType(c, helpers.TypeAdmin) != nil {
			mc.alerts.Report("permission violation: " + userID + " tried to read conversation " + conversationID)
			c.JSON(http.StatusForbidden, gin.H{"error": "could not complete"})
			return
		}

		opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
		cursor, err := mc.messages.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
		if err != nil {
			log.Println("❌ [List] find messages failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}
		defer cursor.Close(ctx)

		messages := []models.Message{}
		if err := cursor.All(ctx, &messages); err != nil {
			log.Println("❌ [List] decode messages failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"conversation_id": conversationID, "messages": messages})
	}
}
