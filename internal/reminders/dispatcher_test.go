package reminders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeStore struct {
	mu       sync.Mutex
	due      []model.Reminder
	notified map[int]time.Time
}

func (f *fakeStore) DueReminders(now time.Time, limit int) ([]model.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Reminder
	for _, r := range f.due {
		if _, done := f.notified[r.ID]; !done && !r.RemindAt.After(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkReminderNotified(id int, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified[id] = at
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []int
	fail   map[int]bool
}

func (p *fakePublisher) Publish(_ context.Context, familyID int, eventType string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := data.(map[string]any)["reminder_id"].(int)
	if p.fail[id] {
		return errors.New("broker down")
	}
	p.events = append(p.events, id)
	return nil
}

func TestTick_PublishesOnce(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{
		notified: map[int]time.Time{},
		due: []model.Reminder{
			{ID: 1, FamilyID: 7, RemindAt: now.Add(-time.Minute)},
			{ID: 2, FamilyID: 7, RemindAt: now.Add(time.Hour)},
			{ID: 3, FamilyID: 8, RemindAt: now.Add(-time.Hour)},
		},
	}
	pub := &fakePublisher{fail: map[int]bool{3: true}}
	d := NewDispatcher(store, pub, time.Second)
	d.now = func() time.Time { return now }

	n, err := d.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []int{1}, pub.events)
	assert.Contains(t, store.notified, 1)
	assert.NotContains(t, store.notified, 3)

	pub.fail[3] = false
	n, err = d.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []int{1, 3}, pub.events)
}

func TestRun_StopsOnCancel(t *testing.T) {
	store := &fakeStore{notified: map[int]time.Time{}}
	d := NewDispatcher(store, &fakePublisher{}, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}
