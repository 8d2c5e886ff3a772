package endpoints

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/expenses/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

type ExpensesController struct {
	store db.Store
	now   func() time.Time
}

func ExpensesModule(store db.Store, features middleware.FeatureChecker) api.Module {
	ctl := &ExpensesController{store: store, now: time.Now}
	return api.ModuleFunc(func(c *api.Controller) {
		e := c.With(middleware.RequireFeature(features, model.FeatureExpenses))
		e.POST("/categories", ctl.createCategory)
		e.GET("/categories", ctl.listCategories)
		e.PUT("/categories/:id", ctl.updateCategory)
		e.DELETE("/categories/:id", ctl.deleteCategory)

		e.POST("", ctl.createExpense)
		e.GET("", ctl.listExpenses)
		e.GET("/summary", ctl.summary)
		e.POST("/init-month", ctl.initMonth)
		e.PUT("/:id", ctl.updateExpense)
		e.PUT("/:id/toggle-paid", ctl.togglePaid)
		e.DELETE("/:id", ctl.deleteExpense)
	})
}

// month reads ?year=&month=, defaulting to the current month.
func (e *ExpensesController) month(ctx *gin.Context) (int, int, *api.APIError) {
	now := e.now()
	year, month := now.Year(), int(now.Month())
	if y, apiErr := api.QueryInt(ctx, "year"); apiErr != nil {
		return 0, 0, apiErr
	} else if y != nil {
		year = *y
	}
	if m, apiErr := api.QueryInt(ctx, "month"); apiErr != nil {
		return 0, 0, apiErr
	} else if m != nil {
		month = *m
	}
	if month < 1 || month > 12 {
		return 0, 0, api.BadRequest("month must be between 1 and 12")
	}
	return year, month, nil
}

func expenseType(ctx *gin.Context) (*string, *api.APIError) {
	t := api.QueryString(ctx, "expense_type")
	if t != nil && *t != model.ExpensePersonal && *t != model.ExpenseCompany {
		return nil, api.BadRequest("expense_type must be personal or company")
	}
	return t, nil
}

// @ CATEGORIES

// POST /api/expenses/categories
func (e *ExpensesController) createCategory(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateCategoryRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	cat := &model.ExpenseCategory{
		UserID:        user.ID,
		Name:          request.Name,
		Icon:          request.Icon,
		Color:         request.Color,
		ExpenseType:   request.ExpenseType,
		DefaultAmount: request.DefaultAmount,
		IsRecurring:   true,
	}
	if cat.ExpenseType == "" {
		cat.ExpenseType = model.ExpensePersonal
	}
	if request.IsRecurring != nil {
		cat.IsRecurring = *request.IsRecurring
	}
	created, err := e.store.CreateExpenseCategory(cat)
	if err != nil {
		return nil, api.Internal(err, "expenses.CreateExpenseCategory")
	}
	return api.Created(created), nil
}

// GET /api/expenses/categories?expense_type=
func (e *ExpensesController) listCategories(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	t, apiErr := expenseType(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	cats, err := e.store.ListExpenseCategories(user.ID, t)
	if err != nil {
		return nil, api.Internal(err, "expenses.ListExpenseCategories")
	}
	return cats, nil
}

// PUT /api/expenses/categories/:id
func (e *ExpensesController) updateCategory(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	cat, err := e.store.GetExpenseCategory(user.ID, id)
	if err != nil {
		return nil, api.StoreError(err, "Category not found", "expenses.GetExpenseCategory")
	}
	var r packets.UpdateCategoryRequest
	if apiErr := api.Bind(ctx, &r); apiErr != nil {
		return nil, apiErr
	}
	if r.Name != nil && *r.Name != "" {
		cat.Name = *r.Name
	}
	if r.Icon != nil {
		cat.Icon = r.Icon
	}
	if r.Color != nil {
		cat.Color = r.Color
	}
	if r.ExpenseType != nil {
		cat.ExpenseType = *r.ExpenseType
	}
	if r.DefaultAmount != nil {
		cat.DefaultAmount = r.DefaultAmount
	}
	if r.IsRecurring != nil {
		cat.IsRecurring = *r.IsRecurring
	}
	updated, err := e.store.UpdateExpenseCategory(cat)
	if err != nil {
		return nil, api.StoreError(err, "Category not found", "expenses.UpdateExpenseCategory")
	}
	return updated, nil
}

// DELETE /api/expenses/categories/:id
func (e *ExpensesController) deleteCategory(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := e.store.DeactivateExpenseCategory(user.ID, id); err != nil {
		return nil, api.StoreError(err, "Category not found", "expenses.DeactivateExpenseCategory")
	}
	return gin.H{"message": "Category deleted"}, nil
}

// @ MONTHLY EXPENSES

// POST /api/expenses
func (e *ExpensesController) createExpense(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateExpenseRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if request.Amount.IsNegative() {
		return nil, api.BadRequest("amount cannot be negative")
	}
	expense := &model.MonthlyExpense{
		UserID:      user.ID,
		CategoryID:  request.CategoryID,
		Year:        request.Year,
		Month:       request.Month,
		ExpenseType: request.ExpenseType,
		Title:       request.Title,
		Amount:      request.Amount,
		Date:        request.Date,
		Notes:       request.Notes,
		IsPaid:      request.IsPaid,
	}
	if request.CategoryID != nil {
		cat, err := e.store.GetExpenseCategory(user.ID, *request.CategoryID)
		if err != nil {
			return nil, api.StoreError(err, "Category not found", "expenses.GetExpenseCategory")
		}
		if expense.ExpenseType == "" {
			expense.ExpenseType = cat.ExpenseType
		}
	}
	if expense.ExpenseType == "" {
		expense.ExpenseType = model.ExpensePersonal
	}

	created, err := e.store.CreateMonthlyExpense(expense)
	if err != nil {
		return nil, api.Internal(err, "expenses.CreateMonthlyExpense")
	}
	return api.Created(created), nil
}

// GET /api/expenses?year=&month=&expense_type=
func (e *ExpensesController) listExpenses(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	year, month, apiErr := e.month(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	t, apiErr := expenseType(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	expenses, err := e.store.ListMonthlyExpenses(user.ID, year, month, t)
	if err != nil {
		return nil, api.Internal(err, "expenses.ListMonthlyExpenses")
	}
	return expenses, nil
}

// GET /api/expenses/summary?year=&month=
func (e *ExpensesController) summary(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	year, month, apiErr := e.month(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	expenses, err := e.store.ListMonthlyExpenses(user.ID, year, month, nil)
	if err != nil {
		return nil, api.Internal(err, "expenses.ListMonthlyExpenses")
	}
	return model.Summarize(year, month, expenses), nil
}

// PUT /api/expenses/:id
func (e *ExpensesController) updateExpense(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	expense, err := e.store.GetMonthlyExpense(user.ID, id)
	if err != nil {
		return nil, api.StoreError(err, "Expense not found", "expenses.GetMonthlyExpense")
	}
	var r packets.UpdateExpenseRequest
	if apiErr := api.Bind(ctx, &r); apiErr != nil {
		return nil, apiErr
	}
	if r.CategoryID != nil {
		if _, err := e.store.GetExpenseCategory(user.ID, *r.CategoryID); err != nil {
			return nil, api.StoreError(err, "Category not found", "expenses.GetExpenseCategory")
		}
		expense.CategoryID = r.CategoryID
	}
	if r.Title != nil && *r.Title != "" {
		expense.Title = *r.Title
	}
	if r.Amount != nil {
		if r.Amount.IsNegative() {
			return nil, api.BadRequest("amount cannot be negative")
		}
		expense.Amount = *r.Amount
	}
	if r.Date != nil {
		expense.Date = r.Date
	}
	if r.Notes != nil {
		expense.Notes = r.Notes
	}
	if r.IsPaid != nil {
		expense.IsPaid = *r.IsPaid
	}
	updated, err := e.store.UpdateMonthlyExpense(expense)
	if err != nil {
		return nil, api.StoreError(err, "Expense not found", "expenses.UpdateMonthlyExpense")
	}
	return updated, nil
}

// PUT /api/expenses/:id/toggle-paid
func (e *ExpensesController) togglePaid(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	expense, err := e.store.GetMonthlyExpense(user.ID, id)
	if err != nil {
		return nil, api.StoreError(err, "Expense not found", "expenses.GetMonthlyExpense")
	}
	expense.IsPaid = !expense.IsPaid
	updated, err := e.store.UpdateMonthlyExpense(expense)
	if err != nil {
		return nil, api.StoreError(err, "Expense not found", "expenses.UpdateMonthlyExpense")
	}
	return updated, nil
}

// DELETE /api/expenses/:id
func (e *ExpensesController) deleteExpense(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := e.store.DeleteMonthlyExpense(user.ID, id); err != nil {
		return nil, api.StoreError(err, "Expense not found", "expenses.DeleteMonthlyExpense")
	}
	return gin.H{"message": "Expense deleted"}, nil
}

// POST /api/expenses/init-month?year=&month=
func (e *ExpensesController) initMonth(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	year, month, apiErr := e.month(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	created, err := e.store.InitExpenseMonth(user.ID, year, month)
	if err != nil {
		return nil, api.Internal(err, "expenses.InitExpenseMonth")
	}
	return packets.InitMonthResponse{
		Message: "Month initialized",
		Created: created,
	}, nil
}
