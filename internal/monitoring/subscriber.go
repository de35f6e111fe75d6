// File: internal/monitoring/subscriber.go
package monitoring

import (
	"context"

	"studyos/internal/events"
)

// Subscribe feeds domain counters from the event bus
func (m *Metrics) Subscribe(bus events.EventBus) error {
	handlers := map[string]events.EventHandler{
		events.TypeSessionCompleted: events.NewTypedEventHandler("metrics.sessions", func(ctx context.Context, e *events.SessionCompletedEvent) error {
			m.SessionsCompleted.Inc()
			m.FocusMinutes.Add(float64(e.Minutes))
			return nil
		}),
		events.TypeXPAwarded: events.NewTypedEventHandler("metrics.xp", func(ctx context.Context, e *events.XPAwardedEvent) error {
			if e.Earned > 0 {
				m.XPAwarded.WithLabelValues(e.Source).Add(float64(e.Earned))
			}
			return nil
		}),
		events.TypeLevelUp: events.NewTypedEventHandler("metrics.levels", func(ctx context.Context, e *events.LevelUpEvent) error {
			m.LevelUps.Inc()
			return nil
		}),
		events.TypeBadgesEarned: events.NewTypedEventHandler("metrics.badges", func(ctx context.Context, e *events.BadgesEarnedEvent) error {
			for _, b := range e.Badges {
				m.BadgesAwarded.WithLabelValues(b).Inc()
			}
			return nil
		}),
		events.TypeTaskCompleted: events.NewTypedEventHandler("metrics.tasks", func(ctx context.Context, e *events.TaskCompletedEvent) error {
			m.TasksCompleted.Inc()
			return nil
		}),
		events.TypeMessagePosted: events.NewTypedEventHandler("metrics.messages", func(ctx context.Context, e *events.MessagePostedEvent) error {
			m.MessagesPosted.Inc()
			return nil
		}),
		events.TypeSubscriptionChanged: events.NewTypedEventHandler("metrics.subscriptions", func(ctx context.Context, e *events.SubscriptionChangedEvent) error {
			m.SubscriptionChanges.WithLabelValues(string(e.Tier)).Inc()
			return nil
		}),
		events.TypeUserRegistered: events.NewTypedEventHandler("metrics.registrations", func(ctx context.Context, e *events.UserRegisteredEvent) error {
			m.UsersRegistered.WithLabelValues(e.Provider).Inc()
			return nil
		}),
	}

	for eventType, h := range handlers {
		if err := bus.Subscribe(eventType, h); err != nil {
			return err
		}
	}
	return nil
}
