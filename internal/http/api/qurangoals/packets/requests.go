package packets

import (
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

type CreateGoalRequest struct {
	Title      string     `json:"title" binding:"max=200"`
	TargetDays int        `json:"target_days" binding:"omitempty,min=1,max=366"`
	StartDate  model.Date `json:"start_date"`
	TotalPages int        `json:"total_pages" binding:"omitempty,min=1,max=604"`
}

type UpdateGoalRequest struct {
	Title       *string     `json:"title" binding:"omitempty,max=200"`
	TargetDays  *int        `json:"target_days" binding:"omitempty,min=1,max=366"`
	StartDate   *model.Date `json:"start_date"`
	CurrentPage *int        `json:"current_page"`
}

// Goal is a reading goal with its day-relative progress.
type Goal struct {
	model.QuranReadingGoal
	model.GoalProgress
	PagesReadToday int `json:"pages_read_today"`
}

type LogResult struct {
	Message            string                 `json:"message"`
	PagesLogged        int                    `json:"pages_logged"`
	TotalPagesRead     int                    `json:"total_pages_read"`
	RemainingPages     int                    `json:"remaining_pages"`
	ProgressPercentage float64                `json:"progress_percentage"`
	IsCompleted        bool                   `json:"is_completed"`
	Log                *model.QuranReadingLog `json:"log"`
}

type UpdateLogRequest struct {
	PagesRead int `json:"pages_read" binding:"min=0,max=604"`
}

type Stats struct {
	Goal          Goal           `json:"goal"`
	DailyReading  map[string]int `json:"daily_reading"`
	TotalDaysRead int            `json:"total_days_read"`
}
