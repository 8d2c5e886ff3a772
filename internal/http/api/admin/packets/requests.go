package packets

import (
	"github.com/shopspring/decimal"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

type FamilyStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type FamilyFeaturesRequest struct {
	Features map[string]bool `json:"features" binding:"required"`
}

type AILimitsRequest struct {
	MonthlyTokenLimit int              `json:"monthly_token_limit" binding:"min=0"`
	MonthlyCostLimit  *decimal.Decimal `json:"monthly_cost_limit_usd"`
	IsAIEnabled       *bool            `json:"is_ai_enabled"`
}

type FamilyList struct {
	Families []db.FamilySummary `json:"families"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

type FamilyMember struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Email           *string `json:"email"`
	Role            string  `json:"role"`
	IsEmailVerified bool    `json:"is_email_verified"`
}

type FamilyDetail struct {
	Family          *model.Family        `json:"family"`
	Members         []FamilyMember       `json:"members"`
	Features        map[string]bool      `json:"features"`
	AILimit         *model.FamilyAILimit `json:"ai_limit"`
	MonthTokensUsed int                  `json:"month_tokens_used"`
}

type Usage struct {
	*model.UsageReport
	FamilyName      string  `json:"family_name"`
	MonthlyLimit    int     `json:"monthly_limit"`
	UsagePercentage float64 `json:"usage_percentage"`
}
