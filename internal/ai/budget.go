package ai

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

var (
	ErrAIDisabled      = errors.New("AI features are disabled for this family")
	ErrBudgetExhausted = errors.New("monthly AI token limit reached")
)

type BudgetStore interface {
	GetAILimit(familyID int) (*model.FamilyAILimit, error)
	TokensUsedSince(familyID int, since time.Time) (int, error)
	RecordTokenUsage(u *model.TokenUsage) error
}

// Budget meters AI calls against each family's monthly allowance.
type Budget struct {
	store BudgetStore
	now   func() time.Time
}

func NewBudget(store BudgetStore) *Budget {
	return &Budget{store: store, now: time.Now}
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Check fails when the family may not make another AI call this month.
func (b *Budget) Check(familyID int) error {
	limit, err := b.store.GetAILimit(familyID)
	if err != nil {
		return fmt.Errorf("load ai limit: %w", err)
	}
	if !limit.IsAIEnabled {
		return ErrAIDisabled
	}
	used, err := b.store.TokensUsedSince(familyID, monthStart(b.now()))
	if err != nil {
		return fmt.Errorf("load ai usage: %w", err)
	}
	if limit.MonthlyTokenLimit > 0 && used >= limit.MonthlyTokenLimit {
		return ErrBudgetExhausted
	}
	return nil
}

// Record stores the usage of one call; failures are logged, never surfaced.
func (b *Budget) Record(familyID int, userID *int, feature string, u Usage) {
	total := u.TotalTokens
	if total == 0 {
		total = u.PromptTokens + u.CompletionTokens
	}
	entry := &model.TokenUsage{
		FamilyID:         familyID,
		UserID:           userID,
		FeatureUsed:      feature,
		ModelUsed:        u.Model,
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      total,
		CostUSD:          CalculateCost(u.Model, u.PromptTokens, u.CompletionTokens),
	}
	if err := b.store.RecordTokenUsage(entry); err != nil {
		log.Error().Err(err).Int("family_id", familyID).Str("feature", feature).Msg("[ai] failed to record token usage")
	}
}
