package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PrayerFajr     = "fajr"
	PrayerDhuhr    = "dhuhr"
	PrayerAsr      = "asr"
	PrayerMaghrib  = "maghrib"
	PrayerIsha     = "isha"
	PrayerTaraweeh = "taraweeh"
)

// DailyPrayers are the five obligatory prayers, in order.
var DailyPrayers = []string{PrayerFajr, PrayerDhuhr, PrayerAsr, PrayerMaghrib, PrayerIsha}

const (
	PrayerNotPrayed = "not_prayed"
	PrayerOnTime    = "prayed_on_time"
	PrayerLate      = "prayed_late"
	PrayerQada      = "prayed_qada"
)

type Prayer struct {
	ID         int       `db:"id" json:"id"`
	UserID     int       `db:"user_id" json:"user_id"`
	PrayerName string    `db:"prayer_name" json:"prayer_name"`
	Date       Date      `db:"date" json:"date"`
	Status     string    `db:"status" json:"status"`
	TimePrayed *string   `db:"time_prayed" json:"time_prayed"`
	InMasjid   bool      `db:"in_masjid" json:"in_masjid"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Done reports whether the prayer has been offered in any form.
func (p Prayer) Done() bool { return p.Status != PrayerNotPrayed && p.Status != "" }

const (
	SurahNotStarted    = "not_started"
	SurahInProgress    = "in_progress"
	SurahMemorized     = "memorized"
	SurahNeedsRevision = "needs_revision"
)

type QuranProgress struct {
	ID               int        `db:"id" json:"id"`
	UserID           int        `db:"user_id" json:"user_id"`
	SurahNumber      int        `db:"surah_number" json:"surah_number"`
	SurahName        string     `db:"surah_name" json:"surah_name"`
	TotalVerses      int        `db:"total_verses" json:"total_verses"`
	VersesMemorized  int        `db:"verses_memorized" json:"verses_memorized"`
	Status           string     `db:"status" json:"status"`
	LastRevisionDate *Date      `db:"last_revision_date" json:"last_revision_date"`
	StartedAt        *time.Time `db:"started_at" json:"started_at"`
	CompletedAt      *time.Time `db:"completed_at" json:"completed_at"`
}

type RamadanDay struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user_id"`
	Date           Date      `db:"date" json:"date"`
	HijriDay       *int      `db:"hijri_day" json:"hijri_day"`
	Fasted         bool      `db:"fasted" json:"fasted"`
	FastingStatus  string    `db:"fasting_status" json:"fasting_status"`
	MissedReason   *string   `db:"missed_reason" json:"missed_reason"`
	Suhoor         bool      `db:"suhoor" json:"suhoor"`
	Iftar          bool      `db:"iftar" json:"iftar"`
	Taraweeh       bool      `db:"taraweeh" json:"taraweeh"`
	TaraweehRakaat int       `db:"taraweeh_rakaat" json:"taraweeh_rakaat"`
	QuranPages     int       `db:"quran_pages" json:"quran_pages"`
	CharityGiven   bool      `db:"charity_given" json:"charity_given"`
	Notes          *string   `db:"notes" json:"notes"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type RamadanSummary struct {
	Year            int `db:"-" json:"year"`
	TotalDays       int `db:"total_days" json:"total_days"`
	DaysFasted      int `db:"days_fasted" json:"days_fasted"`
	DaysMissed      int `db:"days_missed" json:"days_missed"`
	TaraweehNights  int `db:"taraweeh_nights" json:"taraweeh_nights"`
	TotalQuranPages int `db:"total_quran_pages" json:"total_quran_pages"`
	CharityDays     int `db:"charity_days" json:"charity_days"`
}

type RamadanGoal struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"user_id"`
	Year        int       `db:"year" json:"year"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	TargetValue int       `db:"target_value" json:"target_value"`
	Unit        string    `db:"unit" json:"unit"`
	GoalType    string    `db:"goal_type" json:"goal_type"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	TotalCompleted int `db:"total_completed" json:"total_completed"`
	DaysLogged     int `db:"days_logged" json:"days_logged"`
}

type RamadanGoalLog struct {
	ID        int       `db:"id" json:"id"`
	GoalID    int       `db:"goal_id" json:"goal_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Date      Date      `db:"date" json:"date"`
	Value     int       `db:"value" json:"value"`
	Notes     *string   `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type ZakatConfig struct {
	ID        int             `db:"id" json:"id"`
	FamilyID  int             `db:"family_id" json:"family_id"`
	CreatedBy int             `db:"created_by" json:"created_by"`
	Year      int             `db:"year" json:"year"`
	TotalDue  decimal.Decimal `db:"total_due" json:"total_due"`
	Currency  string          `db:"currency" json:"currency"`
	Notes     *string         `db:"notes" json:"notes"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`

	TotalPaid decimal.Decimal `db:"total_paid" json:"total_paid"`
}

// Remaining is the amount still owed; it goes negative when overpaid.
func (z ZakatConfig) Remaining() decimal.Decimal {
	return z.TotalDue.Sub(z.TotalPaid)
}

type ZakatPayment struct {
	ID                 int             `db:"id" json:"id"`
	ConfigID           int             `db:"config_id" json:"config_id"`
	UserID             int             `db:"user_id" json:"user_id"`
	Date               Date            `db:"date" json:"date"`
	Amount             decimal.Decimal `db:"amount" json:"amount"`
	Recipient          *string         `db:"recipient" json:"recipient"`
	Notes              *string         `db:"notes" json:"notes"`
	IsRecipientPrivate bool            `db:"is_recipient_private" json:"is_recipient_private"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
}

// VisibleTo hides a private recipient from everyone but the payer.
func (p ZakatPayment) VisibleTo(userID int) ZakatPayment {
	if p.IsRecipientPrivate && p.UserID != userID {
		hidden := "Private"
		p.Recipient = &hidden
	}
	return p
}
