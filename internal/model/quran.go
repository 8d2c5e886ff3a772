package model

import (
	"math"
	"time"
)

// QuranTotalPages is the page count of the standard Madina mushaf.
const QuranTotalPages = 604

type Surah struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Verses int    `json:"verses"`
}

// Surahs lists the surahs tracked for memorization.
var Surahs = []Surah{
	{1, "Al-Fatihah", 7}, {2, "Al-Baqarah", 286}, {3, "Ali 'Imran", 200},
	{4, "An-Nisa", 176}, {5, "Al-Ma'idah", 120}, {6, "Al-An'am", 165},
	{7, "Al-A'raf", 206}, {8, "Al-Anfal", 75}, {9, "At-Tawbah", 129},
	{10, "Yunus", 109}, {11, "Hud", 123}, {12, "Yusuf", 111},
	{36, "Ya-Sin", 83}, {55, "Ar-Rahman", 78}, {56, "Al-Waqi'ah", 96},
	{67, "Al-Mulk", 30}, {78, "An-Naba", 40}, {87, "Al-A'la", 19},
	{93, "Ad-Duhaa", 11}, {94, "Ash-Sharh", 8}, {95, "At-Tin", 8},
	{96, "Al-'Alaq", 19}, {97, "Al-Qadr", 5}, {98, "Al-Bayyinah", 8},
	{99, "Az-Zalzalah", 8}, {100, "Al-'Adiyat", 11}, {101, "Al-Qari'ah", 11},
	{102, "At-Takathur", 8}, {103, "Al-'Asr", 3}, {104, "Al-Humazah", 9},
	{105, "Al-Fil", 5}, {106, "Quraysh", 4}, {107, "Al-Ma'un", 7},
	{108, "Al-Kawthar", 3}, {109, "Al-Kafirun", 6}, {110, "An-Nasr", 3},
	{111, "Al-Masad", 5}, {112, "Al-Ikhlas", 4}, {113, "Al-Falaq", 5},
	{114, "An-Nas", 6},
}

func LookupSurah(number int) (Surah, bool) {
	for _, s := range Surahs {
		if s.Number == number {
			return s, true
		}
	}
	return Surah{}, false
}

type QuranReadingGoal struct {
	ID          int        `db:"id" json:"id"`
	UserID      int        `db:"user_id" json:"user_id"`
	Title       string     `db:"title" json:"title"`
	TotalPages  int        `db:"total_pages" json:"total_pages"`
	TargetDays  int        `db:"target_days" json:"target_days"`
	PagesPerDay int        `db:"pages_per_day" json:"pages_per_day"`
	StartDate   Date       `db:"start_date" json:"start_date"`
	EndDate     *Date      `db:"end_date" json:"end_date"`
	CurrentPage int        `db:"current_page" json:"current_page"`
	IsCompleted bool       `db:"is_completed" json:"is_completed"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// PagesPerDayFor spreads total pages evenly over the target, rounding up.
func PagesPerDayFor(totalPages, targetDays int) int {
	if targetDays <= 0 {
		return totalPages
	}
	return int(math.Ceil(float64(totalPages) / float64(targetDays)))
}

// GoalProgress is the derived view of a reading goal on a given day.
type GoalProgress struct {
	DaysElapsed        int     `json:"days_elapsed"`
	DaysRemaining      int     `json:"days_remaining"`
	ExpectedPages      int     `json:"expected_pages_by_now"`
	AheadBehind        int     `json:"ahead_behind"`
	OnTrack            bool    `json:"on_track"`
	ProgressPercentage float64 `json:"progress_percentage"`
	RemainingPages     int     `json:"remaining_pages"`
	AveragePagesPerDay float64 `json:"average_pages_per_day"`
}

func (g QuranReadingGoal) Progress(today Date) GoalProgress {
	elapsed := today.DaysSince(g.StartDate) + 1
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := g.TargetDays - elapsed
	if remaining < 0 {
		remaining = 0
	}
	expected := g.PagesPerDay * elapsed
	total := g.TotalPages
	if total <= 0 {
		total = QuranTotalPages
	}
	return GoalProgress{
		DaysElapsed:        elapsed,
		DaysRemaining:      remaining,
		ExpectedPages:      expected,
		AheadBehind:        g.CurrentPage - expected,
		OnTrack:            g.CurrentPage >= expected,
		ProgressPercentage: Round1(float64(g.CurrentPage) / float64(total) * 100),
		RemainingPages:     total - g.CurrentPage,
		AveragePagesPerDay: Round1(float64(g.CurrentPage) / float64(max(1, elapsed))),
	}
}

// ClampPage keeps a page count within [0, total].
func ClampPage(page, total int) int {
	if page < 0 {
		return 0
	}
	if page > total {
		return total
	}
	return page
}

type QuranReadingLog struct {
	ID        int       `db:"id" json:"id"`
	GoalID    int       `db:"goal_id" json:"goal_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Date      Date      `db:"date" json:"date"`
	PagesRead int       `db:"pages_read" json:"pages_read"`
	StartPage *int      `db:"start_page" json:"start_page"`
	EndPage   *int      `db:"end_page" json:"end_page"`
	SurahName *string   `db:"surah_name" json:"surah_name"`
	ImageURL  *string   `db:"image_url" json:"image_url"`
	Notes     *string   `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
