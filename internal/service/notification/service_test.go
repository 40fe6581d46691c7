package notification

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu       sync.Mutex
	created  []*notification.Notification
	disabled map[string]bool
	batchErr error
}

func (f *fakeRepo) Create(_ context.Context, n *notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, n)
	return nil
}

func (f *fakeRepo) CreateBatch(_ context.Context, ns []*notification.Notification) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, ns...)
	return nil
}

func (f *fakeRepo) IsNotificationEnabled(_ context.Context, userID string, _ notification.NotificationType) (bool, error) {
	return !f.disabled[userID], nil
}

func (f *fakeRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func alarmNotification(recipient string) notification.CreateNotificationRequest {
	return notification.CreateNotificationRequest{
		CompanyID:   "company-1",
		RecipientID: recipient,
		Type:        notification.TypeComplianceAlarm,
		Title:       "Late clock-in",
		Message:     "Late clock-in on 2024-01-08",
		Data:        map[string]interface{}{"alarm_id": "a-1"},
	}
}

func TestQueueNotification_FlushesOnStopAndPublishes(t *testing.T) {
	repo := &fakeRepo{}
	hub := sse.NewHub()
	svc := NewNotificationService(repo, hub, Config{FlushInterval: time.Hour, WorkerCount: 1})

	events, cleanup := svc.Subscribe(context.Background(), "user-sup")
	defer cleanup()

	require.NoError(t, svc.QueueNotification(context.Background(), alarmNotification("user-sup")))
	svc.Stop()

	assert.Equal(t, 1, repo.count())

	select {
	case ev := <-events:
		assert.Equal(t, string(notification.TypeComplianceAlarm), ev.Event)
		assert.Equal(t, "Late clock-in", ev.Data.Title)
	case <-time.After(time.Second):
		t.Fatal("expected an SSE event")
	}
}

func TestQueueNotification_OnPersistedFollowsStore(t *testing.T) {
	cases := []struct {
		name     string
		batchErr error
		want     int32
	}{
		{name: "stored", want: 1},
		{name: "batch insert fails", batchErr: errors.New("connection reset"), want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRepo{batchErr: tc.batchErr}
			svc := NewNotificationService(repo, sse.NewHub(), Config{FlushInterval: time.Hour, WorkerCount: 1})

			var calls atomic.Int32
			req := alarmNotification("user-sup")
			req.OnPersisted = func(context.Context) { calls.Add(1) }

			require.NoError(t, svc.QueueBulkNotification(context.Background(), []notification.CreateNotificationRequest{req}))
			assert.Zero(t, calls.Load(), "must not run before the batch is flushed")

			svc.Stop()
			assert.Equal(t, tc.want, calls.Load())
		})
	}
}

func TestQueueNotification_SkipsDisabledRecipient(t *testing.T) {
	repo := &fakeRepo{disabled: map[string]bool{"user-sup": true}}
	svc := NewNotificationService(repo, sse.NewHub(), Config{FlushInterval: time.Hour, WorkerCount: 1})

	require.NoError(t, svc.QueueNotification(context.Background(), alarmNotification("user-sup")))
	svc.Stop()

	assert.Zero(t, repo.count())
}

func TestQueueNotification_RequiresRecipient(t *testing.T) {
	svc := NewNotificationService(&fakeRepo{}, sse.NewHub(), Config{WorkerCount: 1})
	defer svc.Stop()

	err := svc.QueueNotification(context.Background(), alarmNotification(""))
	assert.ErrorIs(t, err, notification.ErrMissingRecipient)
}

func TestQueueNotification_BatchFailureIsNotPublished(t *testing.T) {
	repo := &fakeRepo{batchErr: errors.New("connection reset")}
	hub := sse.NewHub()
	svc := NewNotificationService(repo, hub, Config{FlushInterval: time.Hour, WorkerCount: 1})

	events, cleanup := svc.Subscribe(context.Background(), "user-sup")
	defer cleanup()

	require.NoError(t, svc.QueueNotification(context.Background(), alarmNotification("user-sup")))
	svc.Stop()

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}
