package model

import (
	"time"

	"github.com/lib/pq"
)

const (
	RecurDaily   = "daily"
	RecurWeekly  = "weekly"
	RecurMonthly = "monthly"
)

type Reminder struct {
	ID                int           `db:"id" json:"id"`
	FamilyID          int           `db:"family_id" json:"family_id"`
	Title             string        `db:"title" json:"title"`
	Description       *string       `db:"description" json:"description"`
	RemindAt          time.Time     `db:"remind_at" json:"remind_at"`
	ReminderType      string        `db:"reminder_type" json:"reminder_type"`
	Priority          string        `db:"priority" json:"priority"`
	IsRecurring       bool          `db:"is_recurring" json:"is_recurring"`
	RecurrencePattern *string       `db:"recurrence_pattern" json:"recurrence_pattern"`
	ForUsers          pq.Int64Array `db:"for_users" json:"for_users"`
	IsCompleted       bool          `db:"is_completed" json:"is_completed"`
	CompletedAt       *time.Time    `db:"completed_at" json:"completed_at"`
	NotifiedAt        *time.Time    `db:"notified_at" json:"-"`
	CreatedBy         *int          `db:"created_by" json:"created_by"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
}

// VisibleTo reports whether a reminder addressed to specific members includes the user.
func (r Reminder) VisibleTo(userID int) bool {
	if len(r.ForUsers) == 0 {
		return true
	}
	for _, id := range r.ForUsers {
		if int(id) == userID {
			return true
		}
	}
	return false
}

// NextOccurrence returns when a recurring reminder fires next.
// Unknown patterns repeat daily.
func NextOccurrence(from time.Time, pattern string) time.Time {
	switch pattern {
	case RecurWeekly:
		return from.AddDate(0, 0, 7)
	case RecurMonthly:
		return from.AddDate(0, 0, 30)
	default:
		return from.AddDate(0, 0, 1)
	}
}

type QuickTask struct {
	ID          int        `db:"id" json:"id"`
	UserID      int        `db:"user_id" json:"user_id"`
	Title       string     `db:"title" json:"title"`
	Category    string     `db:"category" json:"category"`
	Priority    string     `db:"priority" json:"priority"`
	DueDate     *Date      `db:"due_date" json:"due_date"`
	DueTime     *string    `db:"due_time" json:"due_time"`
	IsCompleted bool       `db:"is_completed" json:"is_completed"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at"`
	Notes       *string    `db:"notes" json:"notes"`
	IsToday     bool       `db:"is_today" json:"is_today"`
	SortOrder   int        `db:"sort_order" json:"sort_order"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

var QuickTaskCategories = []string{"personal", "office", "family", "health", "finance"}

type Setting struct {
	FamilyID  int       `db:"family_id" json:"-"`
	Key       string    `db:"key" json:"key"`
	Value     *string   `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
