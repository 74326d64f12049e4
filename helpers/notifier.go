package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JioBaba369/Go2Culture-sub001/models"
	"github.com/JioBaba369/Go2Culture-sub001/realtime"
)

// TaskNotificationDeliver is the queue task that appends one feed entry.
const TaskNotificationDeliver = "notification:deliver"

const notificationQueue = "notifications"

type notificationPayload struct {
	// ID is minted at enqueue time so a retried delivery task writes the same
	// document instead of a duplicate.
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Type     string `json:"type"`
	EntityID string `json:"entity_id"`
}

// Enqueuer is the slice of the asynq client the notifier needs. Tests swap in
// a fake; production passes *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Notifier is the emitter domain actions call. Notify is fire-and-forget:
// the primary action already succeeded, so delivery trouble is reported to
// the ops channel and swallowed, never returned to the caller.
type Notifier struct {
	queue  Enqueuer
	alerts *Alerts
}

func NewNotifier(queue Enqueuer, alerts *Alerts) *Notifier {
	return &Notifier{queue: queue, alerts: alerts}
}

// Notify appends a notification to recipientID's feed, best-effort.
func (n *Notifier) Notify(ctx context.Context, recipientID string, notifType models.NotificationType, entityID string) {
	payload, err := json.Marshal(notificationPayload{
		ID:       primitive.NewObjectID().Hex(),
		UserID:   recipientID,
		Type:     string(notifType),
		EntityID: entityID,
	})
	if err != nil {
		log.Println("❌ [Notify] marshal payload:", err)
		return
	}

	task := asynq.NewTask(TaskNotificationDeliver, payload)
	_, err = n.queue.EnqueueContext(ctx, task, asynq.Queue(notificationQueue), asynq.MaxRetry(5))
	if err != nil {
		log.Printf("❌ [Notify] enqueue failed: recipient=%s type=%s: %v\n", recipientID, notifType, err)
		n.alerts.Report(fmt.Sprintf("notification enqueue failed: recipient=%s type=%s: %v", recipientID, notifType, err))
	}
}

// Deliverer is the worker side: it writes the feed document, invalidates the
// badge cache and pushes the live event.
type Deliverer struct {
	notifications *mongo.Collection
	hub           *realtime.Hub
	badges        *BadgeCache
}

func NewDeliverer(notifications *mongo.Collection, hub *realtime.Hub, badges *BadgeCache) *Deliverer {
	return &Deliverer{notifications: notifications, hub: hub, badges: badges}
}

// Register binds the deliver handler onto the worker mux.
func (d *Deliverer) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskNotificationDeliver, d.HandleDeliver)
}

// HandleDeliver processes one queued notification. A malformed payload is not
// retried; a store error is, per the queue's retry policy.
func (d *Deliverer) HandleDeliver(ctx context.Context, t *asynq.Task) error {
	var p notificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("notification payload: %v: %w", err, asynq.SkipRetry)
	}
	notificationID, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return fmt.Errorf("notification payload id: %v: %w", err, asynq.SkipRetry)
	}

	notification := models.Notification{
		ID:        notificationID,
		UserID:    p.UserID,
		Type:      models.NotificationType(p.Type),
		EntityID:  p.EntityID,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := d.notifications.InsertOne(ctx, notification); err != nil {
		// A retried task that already landed hits the _id index; that is
		// delivery, not failure.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert notification: %w", err)
	}

	d.badges.Invalidate(ctx, p.UserID)
	d.hub.PublishToUser(p.UserID, realtime.Event{
		Type: realtime.EventNotificationNew,
		Data: notification.Render(),
	})
	return nil
}
