package db

import (
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const zakatConfigSelect = `
	SELECT c.id, c.family_id, c.created_by, c.year, c.total_due, c.currency, c.notes, c.created_at,
	       COALESCE((SELECT SUM(p.amount) FROM zakat_payments p WHERE p.config_id = c.id), 0) AS total_paid
	FROM zakat_configs c`

// UpsertZakatConfig keeps one configuration per family and year.
func (s *pgStore) UpsertZakatConfig(c *model.ZakatConfig) (*model.ZakatConfig, error) {
	var id int
	err := s.db.QueryRow(`
	INSERT INTO zakat_configs (family_id, created_by, year, total_due, currency, notes, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, now())
	ON CONFLICT (family_id, year)
	DO UPDATE SET total_due = EXCLUDED.total_due, currency = EXCLUDED.currency, notes = EXCLUDED.notes
	RETURNING id;`, c.FamilyID, c.CreatedBy, c.Year, c.TotalDue, c.Currency, c.Notes).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.GetZakatConfig(c.FamilyID, id)
}

func (s *pgStore) ListZakatConfigs(familyID int, year *int) ([]model.ZakatConfig, error) {
	out := []model.ZakatConfig{}
	q := zakatConfigSelect + ` WHERE c.family_id = $1`
	args := []any{familyID}
	if year != nil {
		q += ` AND c.year = $2`
		args = append(args, *year)
	}
	err := s.db.Select(&out, q+` ORDER BY c.year DESC;`, args...)
	return out, err
}

func (s *pgStore) GetZakatConfig(familyID, id int) (*model.ZakatConfig, error) {
	var c model.ZakatConfig
	if err := s.db.Get(&c, zakatConfigSelect+` WHERE c.id = $1 AND c.family_id = $2;`, id, familyID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *pgStore) UpdateZakatConfig(c *model.ZakatConfig) (*model.ZakatConfig, error) {
	err := requireRow(s.db.Exec(`
	UPDATE zakat_configs SET total_due = $3, currency = $4, notes = $5
	WHERE id = $1 AND family_id = $2;`, c.ID, c.FamilyID, c.TotalDue, c.Currency, c.Notes))
	if err != nil {
		return nil, err
	}
	return s.GetZakatConfig(c.FamilyID, c.ID)
}

// DeleteZakatConfig removes the configuration and, by cascade, its payments.
func (s *pgStore) DeleteZakatConfig(familyID, id int) error {
	return requireRow(s.db.Exec(`DELETE FROM zakat_configs WHERE id = $1 AND family_id = $2;`, id, familyID))
}

const zakatPaymentColumns = `p.id, p.config_id, p.user_id, p.date, p.amount, p.recipient, p.notes,
	p.is_recipient_private, p.created_at`

func (s *pgStore) CreateZakatPayment(p *model.ZakatPayment) (*model.ZakatPayment, error) {
	var out model.ZakatPayment
	err := s.db.Get(&out, `
	INSERT INTO zakat_payments AS p (config_id, user_id, date, amount, recipient, notes, is_recipient_private, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	RETURNING `+zakatPaymentColumns+`;`,
		p.ConfigID, p.UserID, p.Date, p.Amount, p.Recipient, p.Notes, p.IsRecipientPrivate)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) ListZakatPayments(configID int) ([]model.ZakatPayment, error) {
	out := []model.ZakatPayment{}
	err := s.db.Select(&out, `
	SELECT `+zakatPaymentColumns+` FROM zakat_payments p
	WHERE p.config_id = $1 ORDER BY p.date DESC, p.id DESC;`, configID)
	return out, err
}

// GetZakatPayment finds a payment whose configuration belongs to the family.
func (s *pgStore) GetZakatPayment(familyID, id int) (*model.ZakatPayment, error) {
	var p model.ZakatPayment
	err := s.db.Get(&p, `
	SELECT `+zakatPaymentColumns+` FROM zakat_payments p
	JOIN zakat_configs c ON c.id = p.config_id
	WHERE p.id = $1 AND c.family_id = $2;`, id, familyID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *pgStore) DeleteZakatPayment(id int) error {
	return requireRow(s.db.Exec(`DELETE FROM zakat_payments WHERE id = $1;`, id))
}
