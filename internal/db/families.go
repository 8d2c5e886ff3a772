package db

import (
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const familyColumns = `id, name, slug, owner_email, country, is_verified, verified_at,
	is_active, subscription_plan, created_at, updated_at`

// CreateFamilyWithOwner inserts the family, its owner, every feature flag
// switched on and the default AI limit in one transaction.
func (s *pgStore) CreateFamilyWithOwner(f *model.Family, owner *model.User, tokenLimit int) (*model.Family, *model.User, error) {
	var family model.Family
	var ownerID int
	err := s.withTx("CreateFamilyWithOwner", func(tx *sqlx.Tx) error {
		if err := tx.Get(&family, `
		INSERT INTO families (name, slug, owner_email, country, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING `+familyColumns+`;`, f.Name, f.Slug, f.OwnerEmail, f.Country); err != nil {
			return err
		}

		if err := tx.QueryRow(`
		INSERT INTO users (family_id, name, email, hashed_password, role, is_email_verified,
		                   verification_token, verification_token_expires, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7, now(), now())
		RETURNING id;`,
			family.ID, owner.Name, owner.Email, owner.HashedPassword, model.RoleParent,
			owner.VerificationToken, owner.VerificationTokenExpires,
		).Scan(&ownerID); err != nil {
			return err
		}

		for _, feat := range model.AvailableFeatures {
			if _, err := tx.Exec(`
			INSERT INTO family_features (family_id, feature_key, is_enabled, updated_at)
			VALUES ($1, $2, TRUE, now());`, family.ID, feat.Key); err != nil {
				return err
			}
		}

		_, err := tx.Exec(`
		INSERT INTO family_ai_limits (family_id, monthly_token_limit, updated_at)
		VALUES ($1, $2, now());`, family.ID, tokenLimit)
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("slug", f.Slug).Msg("[db] CreateFamilyWithOwner failed")
		return nil, nil, err
	}

	created, err := s.GetUserByID(ownerID)
	if err != nil {
		return nil, nil, err
	}
	return &family, created, nil
}

func (s *pgStore) SlugExists(slug string) (bool, error) {
	var exists bool
	err := s.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM families WHERE slug = $1);`, slug)
	return exists, err
}

func (s *pgStore) GetFamilyByID(id int) (*model.Family, error) {
	var f model.Family
	if err := s.db.Get(&f, `SELECT `+familyColumns+` FROM families WHERE id = $1;`, id); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *pgStore) MarkFamilyVerified(id int) error {
	return requireRow(s.db.Exec(`
	UPDATE families SET is_verified = TRUE, verified_at = now(), updated_at = now()
	WHERE id = $1;`, id))
}

// GetFamilyFeatures returns the stored flags; features with no row count as enabled.
func (s *pgStore) GetFamilyFeatures(familyID int) (map[string]bool, error) {
	var rows []model.FamilyFeature
	if err := s.db.Select(&rows, `
	SELECT family_id, feature_key, is_enabled, updated_at
	FROM family_features WHERE family_id = $1;`, familyID); err != nil {
		log.Error().Err(err).Int("family_id", familyID).Msg("[db] GetFamilyFeatures failed")
		return nil, err
	}
	flags := model.AllFeaturesEnabled()
	for _, r := range rows {
		flags[r.FeatureKey] = r.IsEnabled
	}
	return flags, nil
}

func (s *pgStore) GetAILimit(familyID int) (*model.FamilyAILimit, error) {
	var l model.FamilyAILimit
	err := s.db.Get(&l, `
	SELECT family_id, monthly_token_limit, monthly_cost_limit, is_ai_enabled, updated_at
	FROM family_ai_limits WHERE family_id = $1;`, familyID)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *pgStore) CountFamilyMembers(familyID int) (int, error) {
	var n int
	err := s.db.Get(&n, `SELECT count(*) FROM users WHERE family_id = $1;`, familyID)
	return n, err
}
