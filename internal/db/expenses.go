package db

import (
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const categoryColumns = `id, user_id, name, icon, color, expense_type, default_amount, is_recurring, is_active`

// @ CATEGORIES
func (s *pgStore) CreateExpenseCategory(c *model.ExpenseCategory) (*model.ExpenseCategory, error) {
	var out model.ExpenseCategory
	err := s.db.Get(&out, `
	INSERT INTO expense_categories (user_id, name, icon, color, expense_type, default_amount, is_recurring, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
	RETURNING `+categoryColumns+`;`,
		c.UserID, c.Name, c.Icon, c.Color, c.ExpenseType, c.DefaultAmount, c.IsRecurring)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) ListExpenseCategories(userID int, expenseType *string) ([]model.ExpenseCategory, error) {
	out := []model.ExpenseCategory{}
	q := `SELECT ` + categoryColumns + ` FROM expense_categories WHERE user_id = $1 AND is_active`
	args := []any{userID}
	if expenseType != nil {
		q += ` AND expense_type = $2`
		args = append(args, *expenseType)
	}
	err := s.db.Select(&out, q+` ORDER BY name;`, args...)
	return out, err
}

func (s *pgStore) GetExpenseCategory(userID, id int) (*model.ExpenseCategory, error) {
	var c model.ExpenseCategory
	err := s.db.Get(&c, `SELECT `+categoryColumns+` FROM expense_categories WHERE id = $1 AND user_id = $2;`, id, userID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *pgStore) UpdateExpenseCategory(c *model.ExpenseCategory) (*model.ExpenseCategory, error) {
	var out model.ExpenseCategory
	err := s.db.Get(&out, `
	UPDATE expense_categories
	SET name = $3, icon = $4, color = $5, expense_type = $6, default_amount = $7, is_recurring = $8
	WHERE id = $1 AND user_id = $2
	RETURNING `+categoryColumns+`;`,
		c.ID, c.UserID, c.Name, c.Icon, c.Color, c.ExpenseType, c.DefaultAmount, c.IsRecurring)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeactivateExpenseCategory soft-deletes so past expenses keep their category name.
func (s *pgStore) DeactivateExpenseCategory(userID, id int) error {
	return requireRow(s.db.Exec(`
	UPDATE expense_categories SET is_active = FALSE WHERE id = $1 AND user_id = $2;`, id, userID))
}

// @ MONTHLY EXPENSES
const expenseSelect = `
	SELECT e.id, e.user_id, e.category_id, e.year, e.month, e.expense_type, e.title, e.amount,
	       e.date, e.notes, e.is_paid, e.created_at, c.name AS category_name
	FROM monthly_expenses e LEFT JOIN expense_categories c ON c.id = e.category_id`

func (s *pgStore) CreateMonthlyExpense(e *model.MonthlyExpense) (*model.MonthlyExpense, error) {
	var id int
	err := s.db.QueryRow(`
	INSERT INTO monthly_expenses (user_id, category_id, year, month, expense_type, title, amount,
	                              date, notes, is_paid, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
	RETURNING id;`,
		e.UserID, e.CategoryID, e.Year, e.Month, e.ExpenseType, e.Title, e.Amount,
		e.Date, e.Notes, e.IsPaid).Scan(&id)
	if err != nil {
		log.Error().Err(err).Msg("[db] CreateMonthlyExpense failed")
		return nil, err
	}
	return s.GetMonthlyExpense(e.UserID, id)
}

func (s *pgStore) ListMonthlyExpenses(userID, year, month int, expenseType *string) ([]model.MonthlyExpense, error) {
	out := []model.MonthlyExpense{}
	q := expenseSelect + ` WHERE e.user_id = $1 AND e.year = $2 AND e.month = $3`
	args := []any{userID, year, month}
	if expenseType != nil {
		q += ` AND e.expense_type = $4`
		args = append(args, *expenseType)
	}
	err := s.db.Select(&out, q+` ORDER BY e.is_paid, e.title;`, args...)
	return out, err
}

func (s *pgStore) GetMonthlyExpense(userID, id int) (*model.MonthlyExpense, error) {
	var e model.MonthlyExpense
	if err := s.db.Get(&e, expenseSelect+` WHERE e.id = $1 AND e.user_id = $2;`, id, userID); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *pgStore) UpdateMonthlyExpense(e *model.MonthlyExpense) (*model.MonthlyExpense, error) {
	err := requireRow(s.db.Exec(`
	UPDATE monthly_expenses
	SET category_id = $3, expense_type = $4, title = $5, amount = $6, date = $7,
	    notes = $8, is_paid = $9
	WHERE id = $1 AND user_id = $2;`,
		e.ID, e.UserID, e.CategoryID, e.ExpenseType, e.Title, e.Amount, e.Date, e.Notes, e.IsPaid))
	if err != nil {
		return nil, err
	}
	return s.GetMonthlyExpense(e.UserID, e.ID)
}

func (s *pgStore) DeleteMonthlyExpense(userID, id int) error {
	return requireRow(s.db.Exec(`DELETE FROM monthly_expenses WHERE id = $1 AND user_id = $2;`, id, userID))
}

// InitExpenseMonth adds one unpaid expense per active recurring category that
// has none yet in the month, and returns only the rows it created.
func (s *pgStore) InitExpenseMonth(userID, year, month int) ([]model.MonthlyExpense, error) {
	var ids []int
	err := s.withTx("InitExpenseMonth", func(tx *sqlx.Tx) error {
		return tx.Select(&ids, `
		INSERT INTO monthly_expenses (user_id, category_id, year, month, expense_type, title, amount, is_paid, created_at)
		SELECT c.user_id, c.id, $2, $3, c.expense_type, c.name, COALESCE(c.default_amount, 0), FALSE, now()
		FROM expense_categories c
		WHERE c.user_id = $1 AND c.is_active AND c.is_recurring
		  AND NOT EXISTS (
		      SELECT 1 FROM monthly_expenses e
		      WHERE e.user_id = $1 AND e.category_id = c.id AND e.year = $2 AND e.month = $3)
		RETURNING id;`, userID, year, month)
	})
	if err != nil {
		return nil, err
	}
	out := []model.MonthlyExpense{}
	if len(ids) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(expenseSelect+` WHERE e.id IN (?) ORDER BY e.title;`, ids)
	if err != nil {
		return nil, err
	}
	err = s.db.Select(&out, s.db.Rebind(q), args...)
	return out, err
}
