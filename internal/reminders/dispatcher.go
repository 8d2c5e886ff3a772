package reminders

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
	"github.com/Nixie-Tech-LLC/familyhub/internal/notify"
)

const batchSize = 100

type Store interface {
	DueReminders(now time.Time, limit int) ([]model.Reminder, error)
	MarkReminderNotified(id int, at time.Time) error
}

// Dispatcher announces each reminder once, on the first tick after it falls due.
type Dispatcher struct {
	store     Store
	publisher notify.Publisher
	interval  time.Duration
	now       func() time.Time
}

func NewDispatcher(store Store, publisher notify.Publisher, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Dispatcher{store: store, publisher: publisher, interval: interval, now: time.Now}
}

// Run ticks until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", d.interval).Msg("[reminders] dispatcher started")
	for {
		if _, err := d.Tick(ctx); err != nil {
			log.Error().Err(err).Msg("[reminders] dispatch failed")
		}
		select {
		case <-ctx.Done():
			log.Info().Msg("[reminders] dispatcher stopped")
			return
		case <-ticker.C:
		}
	}
}

// Tick publishes every due reminder and returns how many were announced.
func (d *Dispatcher) Tick(ctx context.Context) (int, error) {
	now := d.now()
	due, err := d.store.DueReminders(now, batchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, r := range due {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		payload := map[string]any{
			"reminder_id":   r.ID,
			"title":         r.Title,
			"reminder_type": r.ReminderType,
			"priority":      r.Priority,
			"remind_at":     r.RemindAt,
			"for_users":     r.ForUsers,
		}
		if err := d.publisher.Publish(ctx, r.FamilyID, notify.EventReminderDue, payload); err != nil {
			// left unmarked so the next tick retries it
			log.Warn().Err(err).Int("reminder_id", r.ID).Msg("[reminders] publish failed")
			continue
		}
		if err := d.store.MarkReminderNotified(r.ID, now); err != nil {
			log.Error().Err(err).Int("reminder_id", r.ID).Msg("[reminders] could not mark notified")
			continue
		}
		sent++
	}
	if sent > 0 {
		log.Debug().Int("count", sent).Msg("[reminders] announced due reminders")
	}
	return sent, nil
}
