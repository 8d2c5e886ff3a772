package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

type RegisterFamilyRequest struct {
	FamilyName string  `json:"family_name" binding:"required,min=2,max=100"`
	OwnerName  string  `json:"owner_name" binding:"required,max=100"`
	OwnerEmail string  `json:"owner_email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=8"`
	Country    *string `json:"country"`
}

type RegisterFamilyResponse struct {
	FamilyID             int    `json:"family_id"`
	FamilyName           string `json:"family_name"`
	Slug                 string `json:"slug"`
	OwnerEmail           string `json:"owner_email"`
	Message              string `json:"message"`
	RequiresVerification bool   `json:"requires_verification"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type AddMemberRequest struct {
	Name     string     `json:"name" binding:"required,max=100"`
	Email    *string    `json:"email" binding:"omitempty,email"`
	Username *string    `json:"username" binding:"omitempty,min=3,max=50"`
	Password *string    `json:"password" binding:"omitempty,min=6"`
	Role     string     `json:"role" binding:"omitempty,oneof=parent child"`
	DOB      *time.Time `json:"dob"`
	School   *string    `json:"school"`
	Grade    *string    `json:"grade"`
}

type Message struct {
	Message string `json:"message"`
}

type AILimitResponse struct {
	MonthlyTokenLimit int     `json:"monthly_token_limit"`
	CurrentMonthUsage int     `json:"current_month_usage"`
	UsagePercentage   float64 `json:"usage_percentage"`
	IsAIEnabled       bool    `json:"is_ai_enabled"`
}

type FamilyDetail struct {
	model.Family
	MemberCount int              `json:"member_count"`
	Features    map[string]bool  `json:"features"`
	AILimit     *AILimitResponse `json:"ai_limit"`
}

type MemberResponse struct {
	model.User
	TotalPoints int `json:"total_points"`
}

// MemberSummary is one row of the family dashboard.
type MemberSummary struct {
	UserID       int                `json:"user_id"`
	Name         string             `json:"name"`
	Role         string             `json:"role"`
	Avatar       *string            `json:"avatar"`
	TotalPoints  int                `json:"total_points"`
	PendingTasks int                `json:"pending_tasks"`
	PrayersToday int                `json:"prayers_today"`
	QuranGoal    *QuranGoalProgress `json:"quran_goal"`
}

type QuranGoalProgress struct {
	GoalID             int     `json:"goal_id"`
	Title              string  `json:"title"`
	CurrentPage        int     `json:"current_page"`
	TotalPages         int     `json:"total_pages"`
	ProgressPercentage float64 `json:"progress_percentage"`
	OnTrack            bool    `json:"on_track"`
}

type Dashboard struct {
	Date    model.Date      `json:"date"`
	Members []MemberSummary `json:"members"`
}
