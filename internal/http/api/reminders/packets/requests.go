package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

// @ REMINDERS
type CreateReminderRequest struct {
	Title             string    `json:"title" binding:"required,max=200"`
	Description       *string   `json:"description"`
	RemindAt          time.Time `json:"remind_at" binding:"required"`
	ReminderType      string    `json:"reminder_type" binding:"omitempty,oneof=general appointment bill school islamic"`
	Priority          string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	IsRecurring       bool      `json:"is_recurring"`
	RecurrencePattern *string   `json:"recurrence_pattern" binding:"omitempty,recurrence"`
	ForUsers          []int     `json:"for_users"`
}

type CompleteReminderResponse struct {
	Message        string          `json:"message"`
	Reminder       *model.Reminder `json:"reminder"`
	NextOccurrence *model.Reminder `json:"next_occurrence,omitempty"`
}

// @ QUICK TASKS
type CreateQuickTaskRequest struct {
	Title     string      `json:"title" binding:"required,max=200"`
	Category  string      `json:"category" binding:"omitempty,quickcategory"`
	Priority  string      `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate   *model.Date `json:"due_date"`
	DueTime   *string     `json:"due_time" binding:"omitempty,datetime=15:04"`
	Notes     *string     `json:"notes"`
	IsToday   bool        `json:"is_today"`
	SortOrder int         `json:"sort_order"`
}

type UpdateQuickTaskRequest struct {
	Title     *string     `json:"title" binding:"omitempty,max=200"`
	Category  *string     `json:"category" binding:"omitempty,quickcategory"`
	Priority  *string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate   *model.Date `json:"due_date"`
	DueTime   *string     `json:"due_time" binding:"omitempty,datetime=15:04"`
	Notes     *string     `json:"notes"`
	IsToday   *bool       `json:"is_today"`
	SortOrder *int        `json:"sort_order"`
}

// QuickTaskBrief is the compact row used in the by-category view.
type QuickTaskBrief struct {
	ID       int         `json:"id"`
	Title    string      `json:"title"`
	Priority string      `json:"priority"`
	DueDate  *model.Date `json:"due_date"`
	DueTime  *string     `json:"due_time"`
}

// @ SETTINGS
type PutSettingRequest struct {
	Value *string `json:"value"`
}
