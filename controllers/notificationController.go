package controllers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JioBaba369/Go2Culture-sub001/helpers"
	"github.com/JioBaba369/Go2Culture-sub001/models"
)

// NotificationController reads a user's feed and applies the bulk read flip.
type NotificationController struct {
	notifications *mongo.Collection
	badges        *helpers.BadgeCache
}

func NewNotificationController(db *mongo.Database, badges *helpers.BadgeCache) *NotificationController {
	return &NotificationController{
		notifications: db.Collection("notifications"),
		badges:        badges,
	}
}

// List returns the caller's full feed, newest first, rendered through the
// type table so legacy entries with unknown types still display.
func (nc *NotificationController) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		userID := c.GetString("user_id")
		opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
		cursor, err := nc.notifications.Find(ctx, bson.M{"user_id": userID}, opts)
		if err != nil {
			log.Println("❌ [List] find notifications failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}
		defer cursor.Close(ctx)

		var records []models.Notification
		if err := cursor.All(ctx, &records); err != nil {
			log.Println("❌ [List] decode notifications failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}

		views := make([]models.NotificationView, 0, len(records))
		for i := range records {
			views = append(views, records[i].Render())
		}
		c.JSON(http.StatusOK, gin.H{"notifications": views})
	}
}

// UnreadCount serves the badge value, through the Redis cache when warm.
func (nc *NotificationController) UnreadCount() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		userID := c.GetString("user_id")
		if count, ok := nc.badges.GetUnreadCount(ctx, userID); ok {
			c.JSON(http.StatusOK, gin.H{"unread": count})
			return
		}

		count, err := nc.notifications.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
		if err != nil {
			log.Println("❌ [UnreadCount] count failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}
		nc.badges.SetUnreadCount(ctx, userID, count)
		c.JSON(http.StatusOK, gin.H{"unread": count})
	}
}

// MarkAllRead flips every currently-unread notification in one batch. The
// batch either succeeds as a whole or the caller is told it failed; a
// notification arriving after the snapshot may be missed, which is fine.
func (nc *NotificationController) MarkAllRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		userID := c.GetString("user_id")
		result, err := nc.notifications.UpdateMany(ctx,
			bson.M{"user_id": userID, "is_read": false},
			bson.M{"$set": bson.M{"is_read": true}},
		)
		if err != nil {
			log.Println("❌ [MarkAllRead] update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete"})
			return
		}

		nc.badges.Invalidate(ctx, userID)
		c.JSON(http.StatusOK, gin.H{"message": "all notifications marked read", "updated": result.ModifiedCount})
	}
}
