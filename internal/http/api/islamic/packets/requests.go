package packets

import (
	"github.com/shopspring/decimal"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

// @ PRAYERS
type LogPrayerRequest struct {
	UserID     int        `json:"user_id" binding:"required"`
	PrayerName string     `json:"prayer_name" binding:"required,prayer"`
	Date       model.Date `json:"date"`
	Status     string     `json:"status" binding:"required,prayerstatus"`
	TimePrayed *string    `json:"time_prayed"`
	InMasjid   bool       `json:"in_masjid"`
}

type UpdatePrayerRequest struct {
	Status     *string `json:"status" binding:"omitempty,prayerstatus"`
	TimePrayed *string `json:"time_prayed"`
	InMasjid   *bool   `json:"in_masjid"`
}

type DailyPrayers struct {
	Date           model.Date     `json:"date"`
	UserID         int            `json:"user_id"`
	Prayers        []model.Prayer `json:"prayers"`
	CompletedCount int            `json:"completed_count"`
	TotalCount     int            `json:"total_count"`
}

// @ QURAN MEMORIZATION
type QuranProgressRequest struct {
	UserID          int    `json:"user_id" binding:"required"`
	SurahNumber     int    `json:"surah_number" binding:"required,min=1,max=114"`
	SurahName       string `json:"surah_name"`
	TotalVerses     int    `json:"total_verses" binding:"omitempty,min=1"`
	VersesMemorized int    `json:"verses_memorized" binding:"min=0"`
	Status          string `json:"status" binding:"omitempty,oneof=not_started in_progress memorized needs_revision"`
}

type UpdateQuranProgressRequest struct {
	VersesMemorized  *int        `json:"verses_memorized" binding:"omitempty,min=0"`
	Status           *string     `json:"status" binding:"omitempty,oneof=not_started in_progress memorized needs_revision"`
	LastRevisionDate *model.Date `json:"last_revision_date"`
}

type QuranProgress struct {
	model.QuranProgress
	ProgressPercentage float64 `json:"progress_percentage"`
}

// @ RAMADAN
type RamadanDayRequest struct {
	UserID         int        `json:"user_id" binding:"required"`
	Date           model.Date `json:"date"`
	HijriDay       *int       `json:"hijri_day" binding:"omitempty,min=1,max=30"`
	Fasted         bool       `json:"fasted"`
	FastingStatus  string     `json:"fasting_status" binding:"omitempty,oneof=not_tracked fasted missed excused"`
	MissedReason   *string    `json:"missed_reason"`
	Suhoor         bool       `json:"suhoor"`
	Iftar          bool       `json:"iftar"`
	Taraweeh       bool       `json:"taraweeh"`
	TaraweehRakaat int        `json:"taraweeh_rakaat" binding:"min=0"`
	QuranPages     int        `json:"quran_pages" binding:"min=0"`
	CharityGiven   bool       `json:"charity_given"`
	Notes          *string    `json:"notes"`
}

type UpdateRamadanDayRequest struct {
	HijriDay       *int    `json:"hijri_day" binding:"omitempty,min=1,max=30"`
	Fasted         *bool   `json:"fasted"`
	FastingStatus  *string `json:"fasting_status" binding:"omitempty,oneof=not_tracked fasted missed excused"`
	MissedReason   *string `json:"missed_reason"`
	Suhoor         *bool   `json:"suhoor"`
	Iftar          *bool   `json:"iftar"`
	Taraweeh       *bool   `json:"taraweeh"`
	TaraweehRakaat *int    `json:"taraweeh_rakaat" binding:"omitempty,min=0"`
	QuranPages     *int    `json:"quran_pages" binding:"omitempty,min=0"`
	CharityGiven   *bool   `json:"charity_given"`
	Notes          *string `json:"notes"`
}

type RamadanGoalRequest struct {
	Year        int     `json:"year" binding:"required,min=2000,max=2100"`
	Title       string  `json:"title" binding:"required,max=200"`
	Description *string `json:"description"`
	TargetValue int     `json:"target_value" binding:"required,min=1"`
	Unit        string  `json:"unit" binding:"max=50"`
	GoalType    string  `json:"goal_type" binding:"omitempty,oneof=daily total"`
}

type RamadanGoalLogRequest struct {
	GoalID int        `json:"goal_id" binding:"required"`
	Date   model.Date `json:"date"`
	Value  int        `json:"value" binding:"min=0"`
	Notes  *string    `json:"notes"`
}

// @ ZAKAT
type ZakatConfigRequest struct {
	Year     int             `json:"year" binding:"required,min=2000,max=2100"`
	TotalDue decimal.Decimal `json:"total_due"`
	Currency string          `json:"currency" binding:"omitempty,currency"`
	Notes    *string         `json:"notes"`
}

type UpdateZakatConfigRequest struct {
	TotalDue *decimal.Decimal `json:"total_due"`
	Currency *string          `json:"currency" binding:"omitempty,currency"`
	Notes    *string          `json:"notes"`
}

type ZakatConfig struct {
	model.ZakatConfig
	Remaining decimal.Decimal `json:"remaining"`
}

func NewZakatConfig(c model.ZakatConfig) ZakatConfig {
	return ZakatConfig{ZakatConfig: c, Remaining: c.Remaining()}
}

type ZakatPaymentRequest struct {
	ConfigID           int             `json:"config_id" binding:"required"`
	Date               model.Date      `json:"date"`
	Amount             decimal.Decimal `json:"amount"`
	Recipient          *string         `json:"recipient"`
	Notes              *string         `json:"notes"`
	IsRecipientPrivate bool            `json:"is_recipient_private"`
}

// ZakatConversion restates a config's totals in another currency.
type ZakatConversion struct {
	ConfigID  int             `json:"config_id"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source"`
	TotalDue  decimal.Decimal `json:"total_due"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Remaining decimal.Decimal `json:"remaining"`
}
