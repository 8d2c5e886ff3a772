// exposes a Store interface that is passed to API modules w/ narrow per-domain views
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

var (
	// ErrNotFound wraps sql.ErrNoRows so callers can use either with errors.Is.
	ErrNotFound           = sql.ErrNoRows
	ErrVersionConflict    = errors.New("note was modified by another session")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrNothingToUndo      = errors.New("no previous version to restore")
	ErrAlreadyCompleted   = errors.New("already completed")
)

type UserStore interface {
	CreateUser(u *model.User) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	GetUserByVerificationToken(token string) (*model.User, error)
	UpdateUser(u *model.User) error
	SetUserVerificationToken(id int, token string, expires time.Time) error
	MarkUserEmailVerified(id int) error
	ListFamilyMembers(familyID int) ([]model.User, error)
	GetFamilyMember(familyID, userID int) (*model.User, error)
	DeleteUser(id int) error
}

type FamilyStore interface {
	CreateFamilyWithOwner(f *model.Family, owner *model.User, tokenLimit int) (*model.Family, *model.User, error)
	SlugExists(slug string) (bool, error)
	GetFamilyByID(id int) (*model.Family, error)
	MarkFamilyVerified(id int) error
	GetFamilyFeatures(familyID int) (map[string]bool, error)
	GetAILimit(familyID int) (*model.FamilyAILimit, error)
	CountFamilyMembers(familyID int) (int, error)
}

type UsageStore interface {
	RecordTokenUsage(u *model.TokenUsage) error
	TokensUsedSince(familyID int, since time.Time) (int, error)
	UsageReport(familyID int, since time.Time) (*model.UsageReport, error)
}

type TaskStore interface {
	ListTasks(familyID int, f model.TaskFilter) ([]model.Task, error)
	GetTask(familyID, id int) (*model.Task, error)
	CreateTask(t *model.Task) (*model.Task, error)
	UpdateTask(t *model.Task) (*model.Task, error)
	DeleteTask(familyID, id int) error
	CompleteTask(familyID, id int, at time.Time) (*model.Task, error)
	VerifyTask(familyID, id int) (*model.Task, error)
}

type PointsStore interface {
	TotalPoints(userID int) (int, error)
	RecentPoints(userID, limit int) ([]model.PointsEntry, error)
	ListRewards(familyID int) ([]model.Reward, error)
	GetReward(familyID, id int) (*model.Reward, error)
	CreateReward(r *model.Reward) (*model.Reward, error)
	RedeemReward(userID int, reward *model.Reward) (*model.RewardRedemption, error)
}

type PrayerStore interface {
	EnsureDailyPrayers(userID int, date model.Date) error
	ListPrayers(userID int, date model.Date) ([]model.Prayer, error)
	UpsertPrayer(p *model.Prayer) (*model.Prayer, error)
	GetPrayer(id int) (*model.Prayer, error)
	UpdatePrayer(p *model.Prayer) (*model.Prayer, error)
	CountPrayedOn(userID int, date model.Date) (int, error)
}

type QuranProgressStore interface {
	ListQuranProgress(userID int) ([]model.QuranProgress, error)
	UpsertQuranProgress(p *model.QuranProgress) (*model.QuranProgress, error)
	GetQuranProgress(id int) (*model.QuranProgress, error)
	UpdateQuranProgress(p *model.QuranProgress) (*model.QuranProgress, error)
}

type RamadanStore interface {
	ListRamadanDays(userID, year int) ([]model.RamadanDay, error)
	UpsertRamadanDay(d *model.RamadanDay) (*model.RamadanDay, error)
	GetRamadanDay(id int) (*model.RamadanDay, error)
	UpdateRamadanDay(d *model.RamadanDay) (*model.RamadanDay, error)
	RamadanSummary(userID, year int) (*model.RamadanSummary, error)

	CreateRamadanGoal(g *model.RamadanGoal) (*model.RamadanGoal, error)
	ListRamadanGoals(familyID int, userID, year *int) ([]model.RamadanGoal, error)
	GetRamadanGoal(id int) (*model.RamadanGoal, error)
	DeleteRamadanGoal(id int) error
	UpsertRamadanGoalLog(l *model.RamadanGoalLog) (*model.RamadanGoalLog, error)
	ListRamadanGoalLogs(goalID int) ([]model.RamadanGoalLog, error)
	GetRamadanGoalLog(id int) (*model.RamadanGoalLog, error)
	DeleteRamadanGoalLog(id int) error
}

type ZakatStore interface {
	UpsertZakatConfig(c *model.ZakatConfig) (*model.ZakatConfig, error)
	ListZakatConfigs(familyID int, year *int) ([]model.ZakatConfig, error)
	GetZakatConfig(familyID, id int) (*model.ZakatConfig, error)
	UpdateZakatConfig(c *model.ZakatConfig) (*model.ZakatConfig, error)
	DeleteZakatConfig(familyID, id int) error
	CreateZakatPayment(p *model.ZakatPayment) (*model.ZakatPayment, error)
	ListZakatPayments(configID int) ([]model.ZakatPayment, error)
	GetZakatPayment(familyID, id int) (*model.ZakatPayment, error)
	DeleteZakatPayment(id int) error
}

type QuranGoalStore interface {
	ActiveQuranGoal(userID int) (*model.QuranReadingGoal, error)
	CreateQuranGoal(g *model.QuranReadingGoal) (*model.QuranReadingGoal, error)
	GetQuranGoal(id int) (*model.QuranReadingGoal, error)
	UpdateQuranGoal(g *model.QuranReadingGoal) (*model.QuranReadingGoal, error)
	DeleteQuranGoal(id int) error
	GetReadingLogForDate(goalID int, date model.Date) (*model.QuranReadingLog, error)
	CreateReadingLog(l *model.QuranReadingLog) (*model.QuranReadingLog, error)
	UpdateReadingLog(l *model.QuranReadingLog) (*model.QuranReadingLog, error)
	GetReadingLog(id int) (*model.QuranReadingLog, error)
	DeleteReadingLog(id int) error
	ListReadingLogs(goalID int) ([]model.QuranReadingLog, error)
	SumPagesRead(goalID int) (int, error)
}

type ExpenseStore interface {
	CreateExpenseCategory(c *model.ExpenseCategory) (*model.ExpenseCategory, error)
	ListExpenseCategories(userID int, expenseType *string) ([]model.ExpenseCategory, error)
	GetExpenseCategory(userID, id int) (*model.ExpenseCategory, error)
	UpdateExpenseCategory(c *model.ExpenseCategory) (*model.ExpenseCategory, error)
	DeactivateExpenseCategory(userID, id int) error

	CreateMonthlyExpense(e *model.MonthlyExpense) (*model.MonthlyExpense, error)
	ListMonthlyExpenses(userID, year, month int, expenseType *string) ([]model.MonthlyExpense, error)
	GetMonthlyExpense(userID, id int) (*model.MonthlyExpense, error)
	UpdateMonthlyExpense(e *model.MonthlyExpense) (*model.MonthlyExpense, error)
	DeleteMonthlyExpense(userID, id int) error
	InitExpenseMonth(userID, year, month int) ([]model.MonthlyExpense, error)
}

type NoteStore interface {
	ListNotes(userID int, query string) ([]model.Note, error)
	GetNote(userID, id int) (*model.Note, error)
	CreateNote(n *model.Note) (*model.Note, error)
	UpdateNote(n *model.Note, expectedVersion int) (*model.Note, error)
	SetNotePinned(userID, id int, pinned bool) (*model.Note, error)
	DeleteNote(userID, id int) error
	ListNoteVersions(noteID int) ([]model.NoteVersion, error)
	UndoNote(userID, id int) (*model.Note, error)
}

type ReminderStore interface {
	CreateReminder(r *model.Reminder) (*model.Reminder, error)
	ListReminders(familyID, userID int, includeCompleted bool, reminderType *string) ([]model.Reminder, error)
	UpcomingReminders(familyID, userID int, until time.Time) ([]model.Reminder, error)
	GetReminder(familyID, id int) (*model.Reminder, error)
	CompleteReminder(r *model.Reminder, at time.Time) (*model.Reminder, *model.Reminder, error)
	DeleteReminder(familyID, id int) error
	DueReminders(now time.Time, limit int) ([]model.Reminder, error)
	MarkReminderNotified(id int, at time.Time) error
}

type QuickTaskStore interface {
	CreateQuickTask(t *model.QuickTask) (*model.QuickTask, error)
	ListQuickTasks(userID int, category *string, includeCompleted bool) ([]model.QuickTask, error)
	GetQuickTask(userID, id int) (*model.QuickTask, error)
	UpdateQuickTask(t *model.QuickTask) (*model.QuickTask, error)
	DeleteQuickTask(userID, id int) error
}

type SettingsStore interface {
	ListSettings(familyID int) ([]model.Setting, error)
	GetSetting(familyID int, key string) (*model.Setting, error)
	PutSetting(familyID int, key string, value *string) (*model.Setting, error)
}

type LearningStore interface {
	ListSubjects() ([]model.Subject, error)
	GetTopic(id int) (*model.Topic, error)
	SeedLearning(subjects map[string][]string) (int, error)
	CreateWorksheet(w *model.Worksheet) (*model.Worksheet, error)
	GetWorksheet(familyID, id int) (*model.Worksheet, error)
	UpdateWorksheet(w *model.Worksheet) (*model.Worksheet, error)
	ListAssignedWorksheets(userID int) ([]model.Worksheet, error)
	GetProficiency(userID, topicID int) (*model.Proficiency, error)
	SaveProficiency(p *model.Proficiency) error
	ListProficiency(userID int, subject *string) ([]model.Proficiency, error)
	WeakAreas(userID int) ([]model.Proficiency, error)
}

type SupportStore interface {
	CreateIssue(i *model.Issue) (*model.Issue, error)
	ListIssuesByUser(userID int) ([]model.Issue, error)
	ListIssues(status *string) ([]model.Issue, error)
	GetIssue(id int) (*model.Issue, error)
	UpdateIssue(i *model.Issue) (*model.Issue, error)
	LogActivity(a *model.ActivityLog) error
	ListActivity(familyID *int, limit int) ([]model.ActivityLog, error)
}

type AdminStore interface {
	CreateAdmin(a *model.Admin) (*model.Admin, error)
	GetAdminByID(id int) (*model.Admin, error)
	GetAdminByEmail(email string) (*model.Admin, error)
	ListAdmins() ([]model.Admin, error)
	UpdateAdmin(a *model.Admin) (*model.Admin, error)
	DeleteAdmin(id int) error
	TouchAdminLogin(id int, at time.Time) error
	CountAdmins() (int, error)

	ListFamilies(f FamilyFilter) ([]FamilySummary, int, error)
	SetFamilyActive(id int, active bool) error
	SetFamilyFeatures(familyID int, flags map[string]bool) error
	UpsertAILimit(l *model.FamilyAILimit) (*model.FamilyAILimit, error)
	DashboardStats(monthStart time.Time) (*DashboardStats, error)
}

// Store is the full persistence surface backed by Postgres.
type Store interface {
	UserStore
	FamilyStore
	UsageStore
	TaskStore
	PointsStore
	PrayerStore
	QuranProgressStore
	RamadanStore
	ZakatStore
	QuranGoalStore
	ExpenseStore
	NoteStore
	ReminderStore
	QuickTaskStore
	SettingsStore
	LearningStore
	SupportStore
	AdminStore
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

// NewStore wraps the connection opened by Init.
func NewStore() Store {
	return &pgStore{db: DB}
}

// NewStoreWithDB wraps an existing handle (tests use a sqlmock-backed one).
func NewStoreWithDB(db *sqlx.DB) Store {
	return &pgStore{db: db}
}

func (s *pgStore) withTx(name string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("%s: begin: %w", name, err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Str("op", name).Msg("[db] rollback failed")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", name, err)
	}
	return nil
}

// requireRow turns a zero-row UPDATE/DELETE into ErrNotFound.
func requireRow(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
