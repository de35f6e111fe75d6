package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"studyos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishDispatchesToTypeAndPatternHandlers(t *testing.T) {
	bus := NewEventBus(nil, zap.NewNop())
	var direct, pattern int32

	require.NoError(t, bus.Subscribe(TypeTaskCompleted, NewEventHandlerFunc("direct", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&direct, 1)
		return nil
	})))
	require.NoError(t, bus.SubscribePattern("task.*", NewEventHandlerFunc("pattern", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&pattern, 1)
		return nil
	})))

	require.NoError(t, bus.Publish(context.Background(), NewTaskCompletedEvent(1, 2, 10, 0)))
	assert.EqualValues(t, 1, direct)
	assert.EqualValues(t, 1, pattern)
	assert.EqualValues(t, 1, bus.Stats().EventsProcessed)
}

func TestTypedHandlerReceivesConcreteEvent(t *testing.T) {
	bus := NewEventBus(nil, zap.NewNop())
	var got *models.Message

	require.NoError(t, bus.Subscribe(TypeMessagePosted, NewTypedEventHandler("hub", func(ctx context.Context, e *MessagePostedEvent) error {
		got = e.Message
		return nil
	})))

	msg := &models.Message{ID: 5, GroupID: 1, UserID: 3, Content: "hi"}
	require.NoError(t, bus.Publish(context.Background(), NewMessagePostedEvent(msg)))
	require.NotNil(t, got)
	assert.Equal(t, int64(5), got.ID)
}

func TestHandlerPanicIsReportedAsFailure(t *testing.T) {
	bus := NewEventBus(nil, zap.NewNop())
	require.NoError(t, bus.Subscribe(TypeLevelUp, NewEventHandlerFunc("boom", func(ctx context.Context, e Event) error {
		panic("boom")
	})))

	err := bus.Publish(context.Background(), NewLevelUpEvent(1, 1, 2, 100))
	assert.Error(t, err)
	assert.EqualValues(t, 1, bus.Stats().EventsFailed)
}

func TestPublishAsyncProcessedByWorkers(t *testing.T) {
	bus := NewEventBus(&EventBusConfig{BufferSize: 8, WorkerCount: 1, HandlerTimeout: time.Second}, zap.NewNop())
	done := make(chan struct{})
	require.NoError(t, bus.Subscribe(TypeBadgesEarned, NewEventHandlerFunc("done", func(ctx context.Context, e Event) error {
		close(done)
		return errors.New("still counted")
	})))
	require.NoError(t, bus.Start(context.Background()))

	require.NoError(t, bus.PublishAsync(context.Background(), NewBadgesEarnedEvent(1, []string{"First Step"})))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not processed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, bus.Stop(ctx))
	assert.Error(t, bus.Health())
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus(nil, zap.NewNop())
	h := NewEventHandlerFunc("x", func(ctx context.Context, e Event) error { return nil })
	require.NoError(t, bus.Subscribe(TypeXPAwarded, h))
	require.NoError(t, bus.Unsubscribe(TypeXPAwarded, h))
	assert.Error(t, bus.Unsubscribe(TypeXPAwarded, h))
}
