package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

type CreateTaskRequest struct {
	Title             string     `json:"title" binding:"required,max=200"`
	Description       *string    `json:"description"`
	AssignedTo        int        `json:"assigned_to" binding:"required"`
	DueDate           *time.Time `json:"due_date"`
	Points            *int       `json:"points" binding:"omitempty,min=0"`
	Category          string     `json:"category" binding:"omitempty,oneof=homework chore prayer quran exercise other"`
	IsRecurring       bool       `json:"is_recurring"`
	RecurrencePattern *string    `json:"recurrence_pattern" binding:"omitempty,recurrence"`
}

// UpdateTaskRequest only touches the fields that are present.
type UpdateTaskRequest struct {
	Title             *string    `json:"title" binding:"omitempty,max=200"`
	Description       *string    `json:"description"`
	AssignedTo        *int       `json:"assigned_to"`
	DueDate           *time.Time `json:"due_date"`
	Points            *int       `json:"points" binding:"omitempty,min=0"`
	Status            *string    `json:"status" binding:"omitempty,oneof=pending in_progress"`
	Category          *string    `json:"category" binding:"omitempty,oneof=homework chore prayer quran exercise other"`
	IsRecurring       *bool      `json:"is_recurring"`
	RecurrencePattern *string    `json:"recurrence_pattern" binding:"omitempty,recurrence"`
}

type PointsResponse struct {
	UserID        int                 `json:"user_id"`
	TotalPoints   int                 `json:"total_points"`
	RecentHistory []model.PointsEntry `json:"recent_history"`
}

type CreateRewardRequest struct {
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	PointsRequired int     `json:"points_required"`
	ImageURL       *string `json:"image_url"`
}

type RedeemResponse struct {
	Message         string                 `json:"message"`
	Redemption      model.RewardRedemption `json:"redemption"`
	RemainingPoints int                    `json:"remaining_points"`
}
