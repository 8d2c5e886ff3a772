package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	IssueOpen       = "open"
	IssueInProgress = "in_progress"
	IssueResolved   = "resolved"
	IssueClosed     = "closed"
)

type Issue struct {
	ID           int        `db:"id" json:"id"`
	FamilyID     *int       `db:"family_id" json:"family_id"`
	UserID       *int       `db:"user_id" json:"user_id"`
	Subject      string     `db:"subject" json:"subject"`
	Description  string     `db:"description" json:"description"`
	Category     string     `db:"category" json:"category"`
	Priority     string     `db:"priority" json:"priority"`
	Status       string     `db:"status" json:"status"`
	ContactEmail *string    `db:"contact_email" json:"contact_email"`
	AdminNotes   *string    `db:"admin_notes" json:"admin_notes"`
	ResolvedAt   *time.Time `db:"resolved_at" json:"resolved_at"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`

	FamilyName *string `db:"family_name" json:"family_name,omitempty"`
	UserName   *string `db:"user_name" json:"user_name,omitempty"`
}

type ActivityLog struct {
	ID        int       `db:"id" json:"id"`
	FamilyID  *int      `db:"family_id" json:"family_id"`
	UserID    *int      `db:"user_id" json:"user_id"`
	Action    string    `db:"action" json:"action"`
	Details   *string   `db:"details" json:"details"`
	IPAddress *string   `db:"ip_address" json:"ip_address"`
	UserAgent *string   `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type TokenUsage struct {
	ID               int             `db:"id" json:"id"`
	FamilyID         int             `db:"family_id" json:"family_id"`
	UserID           *int            `db:"user_id" json:"user_id"`
	FeatureUsed      string          `db:"feature_used" json:"feature_used"`
	ModelUsed        string          `db:"model_used" json:"model_used"`
	PromptTokens     int             `db:"prompt_tokens" json:"prompt_tokens"`
	CompletionTokens int             `db:"completion_tokens" json:"completion_tokens"`
	TotalTokens      int             `db:"total_tokens" json:"total_tokens"`
	CostUSD          decimal.Decimal `db:"cost_usd" json:"cost_usd"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

type UsageBucket struct {
	Key     string          `db:"key" json:"key"`
	Tokens  int             `db:"tokens" json:"tokens"`
	CostUSD decimal.Decimal `db:"cost_usd" json:"cost_usd"`
	Calls   int             `db:"calls" json:"calls"`
}

type UsageReport struct {
	FamilyID    int             `json:"family_id"`
	MonthTokens int             `json:"month_tokens"`
	MonthCost   decimal.Decimal `json:"month_cost_usd"`
	ByFeature   []UsageBucket   `json:"by_feature"`
	ByModel     []UsageBucket   `json:"by_model"`
	Recent      []TokenUsage    `json:"recent"`
}
