package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JioBaba369/Go2Culture-sub001/models"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func TestNotifyEnqueuesOneDeliveryTask(t *testing.T) {
	queue := &fakeEnqueuer{}
	notifier := NewNotifier(queue, nil)

	notifier.Notify(context.Background(), "guest1", models.NotificationBookingConfirmed, "bk42")

	require.Len(t, queue.tasks, 1)
	task := queue.tasks[0]
	assert.Equal(t, TaskNotificationDeliver, task.Type())

	var p notificationPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.NotEmpty(t, p.ID, "delivery id is minted at enqueue time")
	assert.Equal(t, "guest1", p.UserID)
	assert.Equal(t, string(models.NotificationBookingConfirmed), p.Type)
	assert.Equal(t, "bk42", p.EntityID)
}

func TestNotifyIsBestEffort(t *testing.T) {
	queue := &fakeEnqueuer{err: errors.New("redis is down")}
	notifier := NewNotifier(queue, nil)

	// The emitter must swallow the failure: no panic, no error surface.
	assert.NotPanics(t, func() {
		notifier.Notify(context.Background(), "guest1", models.NotificationBookingRequested, "bk42")
	})
	assert.Empty(t, queue.tasks)
}

func TestNotifyEachCallIsOneAppend(t *testing.T) {
	queue := &fakeEnqueuer{}
	notifier := NewNotifier(queue, nil)

	notifier.Notify(context.Background(), "guest1", models.NotificationBookingConfirmed, "bk1")
	notifier.Notify(context.Background(), "host1", models.NotificationReviewReceived, "bk1")

	assert.Len(t, queue.tasks, 2)
}
