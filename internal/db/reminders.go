package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const reminderColumns = `id, family_id, title, description, remind_at, reminder_type, priority,
	is_recurring, recurrence_pattern, for_users, is_completed, completed_at, notified_at,
	created_by, created_at`

// a reminder with no recipients is addressed to the whole family
const visibleToUser = `(for_users IS NULL OR cardinality(for_users) = 0 OR $2 = ANY(for_users))`

func (s *pgStore) CreateReminder(r *model.Reminder) (*model.Reminder, error) {
	var out model.Reminder
	err := s.db.Get(&out, `
	INSERT INTO family_reminders (family_id, title, description, remind_at, reminder_type, priority,
	                              is_recurring, recurrence_pattern, for_users, created_by, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
	RETURNING `+reminderColumns+`;`,
		r.FamilyID, r.Title, r.Description, r.RemindAt, r.ReminderType, r.Priority,
		r.IsRecurring, r.RecurrencePattern, r.ForUsers, r.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) ListReminders(familyID, userID int, includeCompleted bool, reminderType *string) ([]model.Reminder, error) {
	q := `SELECT ` + reminderColumns + ` FROM family_reminders WHERE family_id = $1 AND ` + visibleToUser
	args := []any{familyID, userID}
	if !includeCompleted {
		q += ` AND NOT is_completed`
	}
	if reminderType != nil {
		args = append(args, *reminderType)
		q += fmt.Sprintf(` AND reminder_type = $%d`, len(args))
	}
	out := []model.Reminder{}
	err := s.db.Select(&out, q+` ORDER BY remind_at ASC;`, args...)
	return out, err
}

func (s *pgStore) UpcomingReminders(familyID, userID int, until time.Time) ([]model.Reminder, error) {
	out := []model.Reminder{}
	err := s.db.Select(&out, `
	SELECT `+reminderColumns+` FROM family_reminders
	WHERE family_id = $1 AND `+visibleToUser+` AND NOT is_completed
	  AND remind_at >= now() AND remind_at <= $3
	ORDER BY remind_at ASC;`, familyID, userID, until)
	return out, err
}

func (s *pgStore) GetReminder(familyID, id int) (*model.Reminder, error) {
	var r model.Reminder
	err := s.db.Get(&r, `SELECT `+reminderColumns+` FROM family_reminders WHERE id = $1 AND family_id = $2;`, id, familyID)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CompleteReminder closes the reminder; for recurring ones it schedules the
// next occurrence in the same transaction and returns it as the second value.
// A reminder completed concurrently yields ErrAlreadyCompleted.
func (s *pgStore) CompleteReminder(r *model.Reminder, at time.Time) (*model.Reminder, *model.Reminder, error) {
	var done model.Reminder
	var next *model.Reminder
	err := s.withTx("CompleteReminder", func(tx *sqlx.Tx) error {
		if err := tx.Get(&done, `
		UPDATE family_reminders SET is_completed = TRUE, completed_at = $2
		WHERE id = $1 AND NOT is_completed
		RETURNING `+reminderColumns+`;`, r.ID, at); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrAlreadyCompleted
			}
			return err
		}
		if !r.IsRecurring {
			return nil
		}
		pattern := ""
		if r.RecurrencePattern != nil {
			pattern = *r.RecurrencePattern
		}
		var n model.Reminder
		if err := tx.Get(&n, `
		INSERT INTO family_reminders (family_id, title, description, remind_at, reminder_type, priority,
		                              is_recurring, recurrence_pattern, for_users, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8, $9, now())
		RETURNING `+reminderColumns+`;`,
			r.FamilyID, r.Title, r.Description, model.NextOccurrence(r.RemindAt, pattern),
			r.ReminderType, r.Priority, r.RecurrencePattern, r.ForUsers, r.CreatedBy); err != nil {
			return err
		}
		next = &n
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &done, next, nil
}

func (s *pgStore) DeleteReminder(familyID, id int) error {
	return requireRow(s.db.Exec(`DELETE FROM family_reminders WHERE id = $1 AND family_id = $2;`, id, familyID))
}

// DueReminders lists open reminders whose time has come and that were never announced.
func (s *pgStore) DueReminders(now time.Time, limit int) ([]model.Reminder, error) {
	out := []model.Reminder{}
	err := s.db.Select(&out, `
	SELECT `+reminderColumns+` FROM family_reminders
	WHERE NOT is_completed AND notified_at IS NULL AND remind_at <= $1
	ORDER BY remind_at ASC LIMIT $2;`, now, limit)
	return out, err
}

func (s *pgStore) MarkReminderNotified(id int, at time.Time) error {
	return requireRow(s.db.Exec(`UPDATE family_reminders SET notified_at = $2 WHERE id = $1;`, id, at))
}

// @ QUICK TASKS
const quickTaskColumns = `id, user_id, title, category, priority, due_date, due_time, is_completed,
	completed_at, notes, is_today, sort_order, created_at`

func (s *pgStore) CreateQuickTask(t *model.QuickTask) (*model.QuickTask, error) {
	var out model.QuickTask
	err := s.db.Get(&out, `
	INSERT INTO quick_tasks (user_id, title, category, priority, due_date, due_time, notes,
	                         is_today, sort_order, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
	RETURNING `+quickTaskColumns+`;`,
		t.UserID, t.Title, t.Category, t.Priority, t.DueDate, t.DueTime, t.Notes, t.IsToday, t.SortOrder)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListQuickTasks orders by priority (urgent first), then due date with undated first, then newest.
func (s *pgStore) ListQuickTasks(userID int, category *string, includeCompleted bool) ([]model.QuickTask, error) {
	q := `SELECT ` + quickTaskColumns + ` FROM quick_tasks WHERE user_id = $1`
	args := []any{userID}
	if category != nil {
		q += ` AND category = $2`
		args = append(args, *category)
	}
	if !includeCompleted {
		q += ` AND NOT is_completed`
	}
	q += ` ORDER BY CASE priority WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC,
	          due_date ASC NULLS FIRST, created_at DESC;`
	out := []model.QuickTask{}
	err := s.db.Select(&out, q, args...)
	return out, err
}

func (s *pgStore) GetQuickTask(userID, id int) (*model.QuickTask, error) {
	var t model.QuickTask
	if err := s.db.Get(&t, `SELECT `+quickTaskColumns+` FROM quick_tasks WHERE id = $1 AND user_id = $2;`, id, userID); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *pgStore) UpdateQuickTask(t *model.QuickTask) (*model.QuickTask, error) {
	var out model.QuickTask
	err := s.db.Get(&out, `
	UPDATE quick_tasks
	SET title = $3, category = $4, priority = $5, due_date = $6, due_time = $7, notes = $8,
	    is_today = $9, sort_order = $10, is_completed = $11, completed_at = $12
	WHERE id = $1 AND user_id = $2
	RETURNING `+quickTaskColumns+`;`,
		t.ID, t.UserID, t.Title, t.Category, t.Priority, t.DueDate, t.DueTime, t.Notes,
		t.IsToday, t.SortOrder, t.IsCompleted, t.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) DeleteQuickTask(userID, id int) error {
	return requireRow(s.db.Exec(`DELETE FROM quick_tasks WHERE id = $1 AND user_id = $2;`, id, userID))
}

// @ SETTINGS
func (s *pgStore) ListSettings(familyID int) ([]model.Setting, error) {
	out := []model.Setting{}
	err := s.db.Select(&out, `
	SELECT family_id, key, value, updated_at FROM app_settings
	WHERE family_id = $1 ORDER BY key;`, familyID)
	return out, err
}

func (s *pgStore) GetSetting(familyID int, key string) (*model.Setting, error) {
	var st model.Setting
	err := s.db.Get(&st, `
	SELECT family_id, key, value, updated_at FROM app_settings
	WHERE family_id = $1 AND key = $2;`, familyID, key)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *pgStore) PutSetting(familyID int, key string, value *string) (*model.Setting, error) {
	var st model.Setting
	err := s.db.Get(&st, `
	INSERT INTO app_settings (family_id, key, value, updated_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (family_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	RETURNING family_id, key, value, updated_at;`, familyID, key, value)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
