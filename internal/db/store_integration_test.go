package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

// Runs against TEST_DATABASE_URL; skipped when it is not set.
func TestStoreIntegration(t *testing.T) {
	if err := InitTestDB("../../migrations"); err != nil {
		t.Skipf("integration database unavailable: %v", err)
	}
	store := TestStore

	suffix := uuid.NewString()[:8]
	email := "owner-" + suffix + "@example.com"
	family, owner, err := store.CreateFamilyWithOwner(
		&model.Family{Name: "Integration " + suffix, Slug: "integration-" + suffix, OwnerEmail: email},
		&model.User{Name: "Owner", Email: &email, HashedPassword: "hash"},
		model.DefaultMonthlyTokenLimit,
	)
	require.NoError(t, err)

	t.Run("family defaults", func(t *testing.T) {
		assert.True(t, owner.InFamily(family.ID))
		assert.True(t, owner.IsParent())
		require.NotNil(t, owner.FamilyActive)
		assert.True(t, *owner.FamilyActive)

		flags, err := store.GetFamilyFeatures(family.ID)
		require.NoError(t, err)
		for _, f := range model.AvailableFeatures {
			assert.True(t, flags[f.Key], f.Key)
		}

		limit, err := store.GetAILimit(family.ID)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultMonthlyTokenLimit, limit.MonthlyTokenLimit)

		exists, err := store.SlugExists(family.Slug)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("note versions", func(t *testing.T) {
		note, err := store.CreateNote(&model.Note{UserID: owner.ID, Title: "Groceries", Content: "milk"})
		require.NoError(t, err)

		note.Content = "milk, eggs"
		updated, err := store.UpdateNote(note, note.Version)
		require.NoError(t, err)
		assert.Equal(t, note.Version+1, updated.Version)

		_, err = store.UpdateNote(note, note.Version)
		assert.ErrorIs(t, err, ErrVersionConflict)

		restored, err := store.UndoNote(owner.ID, note.ID)
		require.NoError(t, err)
		assert.Equal(t, "milk", restored.Content)
	})

	t.Run("points and rewards", func(t *testing.T) {
		reward, err := store.CreateReward(&model.Reward{FamilyID: family.ID, Name: "Movie night", PointsRequired: 10})
		require.NoError(t, err)

		_, err = store.RedeemReward(owner.ID, reward)
		assert.ErrorIs(t, err, ErrInsufficientPoints)

		total, err := store.TotalPoints(owner.ID)
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("recurring reminder completes once", func(t *testing.T) {
		weekly := model.RecurWeekly
		r, err := store.CreateReminder(&model.Reminder{
			FamilyID: family.ID, Title: "Bins", RemindAt: time.Now().Add(time.Hour),
			ReminderType: "general", Priority: "medium", IsRecurring: true, RecurrencePattern: &weekly,
		})
		require.NoError(t, err)

		_, next, err := store.CompleteReminder(r, time.Now())
		require.NoError(t, err)
		require.NotNil(t, next)

		_, _, err = store.CompleteReminder(r, time.Now())
		assert.ErrorIs(t, err, ErrAlreadyCompleted)

		all, err := store.ListReminders(family.ID, owner.ID, true, nil)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("unknown rows", func(t *testing.T) {
		_, err := store.GetFamilyByID(-1)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.MarkFamilyVerified(-1), ErrNotFound)
	})

}
