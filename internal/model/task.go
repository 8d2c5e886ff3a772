package model

import "time"

const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskVerified   = "verified"
)

var TaskCategories = []string{"homework", "chore", "prayer", "quran", "exercise", "other"}

const DefaultTaskPoints = 10

type Task struct {
	ID                int        `db:"id" json:"id"`
	FamilyID          int        `db:"family_id" json:"family_id"`
	Title             string     `db:"title" json:"title"`
	Description       *string    `db:"description" json:"description"`
	AssignedTo        int        `db:"assigned_to" json:"assigned_to"`
	CreatedBy         int        `db:"created_by" json:"created_by"`
	DueDate           *time.Time `db:"due_date" json:"due_date"`
	Points            int        `db:"points" json:"points"`
	Status            string     `db:"status" json:"status"`
	Category          string     `db:"category" json:"category"`
	IsRecurring       bool       `db:"is_recurring" json:"is_recurring"`
	RecurrencePattern *string    `db:"recurrence_pattern" json:"recurrence_pattern"`
	CompletedAt       *time.Time `db:"completed_at" json:"completed_at"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`

	AssigneeName *string `db:"assignee_name" json:"assignee_name"`
}

type TaskFilter struct {
	AssignedTo *int
	Status     *string
	Category   *string
	DueDate    *time.Time
}

type PointsEntry struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Points    int       `db:"points" json:"points"`
	Reason    string    `db:"reason" json:"reason"`
	TaskID    *int      `db:"task_id" json:"task_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Reward struct {
	ID             int       `db:"id" json:"id"`
	FamilyID       int       `db:"family_id" json:"family_id"`
	Name           string    `db:"name" json:"name"`
	Description    *string   `db:"description" json:"description"`
	PointsRequired int       `db:"points_required" json:"points_required"`
	ImageURL       *string   `db:"image_url" json:"image_url"`
	IsAvailable    bool      `db:"is_available" json:"is_available"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type RewardRedemption struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"user_id"`
	RewardID    int       `db:"reward_id" json:"reward_id"`
	PointsSpent int       `db:"points_spent" json:"points_spent"`
	RedeemedAt  time.Time `db:"redeemed_at" json:"redeemed_at"`
}
