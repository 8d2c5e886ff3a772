package db

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

func (s *pgStore) RecordTokenUsage(u *model.TokenUsage) error {
	_, err := s.db.Exec(`
	INSERT INTO ai_token_usage (family_id, user_id, feature_used, model_used,
	                            prompt_tokens, completion_tokens, total_tokens, cost_usd, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now());`,
		u.FamilyID, u.UserID, u.FeatureUsed, u.ModelUsed,
		u.PromptTokens, u.CompletionTokens, u.TotalTokens, u.CostUSD)
	if err != nil {
		log.Error().Err(err).Int("family_id", u.FamilyID).Msg("[db] RecordTokenUsage failed")
	}
	return err
}

func (s *pgStore) TokensUsedSince(familyID int, since time.Time) (int, error) {
	var n int
	err := s.db.Get(&n, `
	SELECT COALESCE(SUM(total_tokens), 0) FROM ai_token_usage
	WHERE family_id = $1 AND created_at >= $2;`, familyID, since)
	return n, err
}

func (s *pgStore) UsageReport(familyID int, since time.Time) (*model.UsageReport, error) {
	r := &model.UsageReport{FamilyID: familyID}

	if err := s.db.QueryRow(`
	SELECT COALESCE(SUM(total_tokens), 0), COALESCE(SUM(cost_usd), 0)
	FROM ai_token_usage WHERE family_id = $1 AND created_at >= $2;`, familyID, since).
		Scan(&r.MonthTokens, &r.MonthCost); err != nil {
		return nil, err
	}

	bucket := func(column string) ([]model.UsageBucket, error) {
		out := []model.UsageBucket{}
		err := s.db.Select(&out, `
		SELECT `+column+` AS key, COALESCE(SUM(total_tokens), 0) AS tokens,
		       COALESCE(SUM(cost_usd), 0) AS cost_usd, count(*) AS calls
		FROM ai_token_usage WHERE family_id = $1 AND created_at >= $2
		GROUP BY `+column+` ORDER BY tokens DESC;`, familyID, since)
		return out, err
	}
	var err error
	if r.ByFeature, err = bucket("feature_used"); err != nil {
		return nil, err
	}
	if r.ByModel, err = bucket("model_used"); err != nil {
		return nil, err
	}

	r.Recent = []model.TokenUsage{}
	if err := s.db.Select(&r.Recent, `
	SELECT id, family_id, user_id, feature_used, model_used, prompt_tokens,
	       completion_tokens, total_tokens, cost_usd, created_at
	FROM ai_token_usage WHERE family_id = $1
	ORDER BY created_at DESC LIMIT 20;`, familyID); err != nil {
		return nil, err
	}
	return r, nil
}
