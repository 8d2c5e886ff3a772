package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Family struct {
	ID               int        `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	Slug             string     `db:"slug" json:"slug"`
	OwnerEmail       string     `db:"owner_email" json:"owner_email"`
	Country          *string    `db:"country" json:"country"`
	IsVerified       bool       `db:"is_verified" json:"is_verified"`
	VerifiedAt       *time.Time `db:"verified_at" json:"verified_at"`
	IsActive         bool       `db:"is_active" json:"is_active"`
	SubscriptionPlan string     `db:"subscription_plan" json:"subscription_plan"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

type FamilyFeature struct {
	FamilyID   int       `db:"family_id" json:"family_id"`
	FeatureKey string    `db:"feature_key" json:"feature_key"`
	IsEnabled  bool      `db:"is_enabled" json:"is_enabled"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

type FamilyAILimit struct {
	FamilyID          int             `db:"family_id" json:"family_id"`
	MonthlyTokenLimit int             `db:"monthly_token_limit" json:"monthly_token_limit"`
	MonthlyCostLimit  decimal.Decimal `db:"monthly_cost_limit" json:"monthly_cost_limit_usd"`
	IsAIEnabled       bool            `db:"is_ai_enabled" json:"is_ai_enabled"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

const DefaultMonthlyTokenLimit = 100000

type Feature struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

const (
	FeaturePrayers   = "prayers"
	FeatureRamadan   = "ramadan"
	FeatureQuran     = "quran"
	FeatureLearning  = "learning"
	FeatureTasks     = "tasks"
	FeatureMyTasks   = "my_tasks"
	FeaturePoints    = "points"
	FeatureExpenses  = "expenses"
	FeatureZakat     = "zakat"
	FeatureReminders = "reminders"
	FeatureAI        = "chatgpt_ai"
	FeatureNotes     = "notes"
)

// AvailableFeatures is the catalogue of toggleable features, in display order.
var AvailableFeatures = []Feature{
	{FeaturePrayers, "Prayer Tracking", "Track daily prayers for family members"},
	{FeatureRamadan, "Ramadan Features", "Fasting logs, taraweeh tracking"},
	{FeatureQuran, "Quran Memorization", "Track Quran memorization progress"},
	{FeatureLearning, "Learning Center", "Homework analysis and worksheets"},
	{FeatureTasks, "Family Tasks", "Assign tasks to family members"},
	{FeatureMyTasks, "Personal Tasks", "Personal task management for parents"},
	{FeaturePoints, "Points & Rewards", "Point system and rewards shop"},
	{FeatureExpenses, "Expense Tracking", "Track family expenses"},
	{FeatureZakat, "Zakat Calculator", "Zakat calculation and tracking"},
	{FeatureReminders, "Reminders", "Family reminders and notifications"},
	{FeatureAI, "AI Features", "AI-powered homework analysis and worksheets"},
	{FeatureNotes, "Notes", "Personal notes with version history"},
}

func IsKnownFeature(key string) bool {
	for _, f := range AvailableFeatures {
		if f.Key == key {
			return true
		}
	}
	return false
}

// AllFeaturesEnabled returns a flag map with every feature switched on.
func AllFeaturesEnabled() map[string]bool {
	out := make(map[string]bool, len(AvailableFeatures))
	for _, f := range AvailableFeatures {
		out[f.Key] = true
	}
	return out
}
