package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestDate(t *testing.T) {
	d := mustDate(t, "2026-03-10")
	assert.Equal(t, "2026-03-11", d.AddDays(1).String())
	assert.Equal(t, 9, d.DaysSince(mustDate(t, "2026-03-01")))

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-10"`, string(raw))

	var back Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-10T18:30:00Z"`), &back))
	assert.True(t, back.Equal(d))

	assert.Error(t, json.Unmarshal([]byte(`"10/03/2026"`), &back))

	var scanned Date
	require.NoError(t, scanned.Scan(time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "2026-03-10", scanned.String())
	require.NoError(t, scanned.Scan([]byte("2026-01-02")))
	assert.Equal(t, "2026-01-02", scanned.String())
}

func TestQuranGoalProgress(t *testing.T) {
	assert.Equal(t, 21, PagesPerDayFor(604, 30))
	assert.Equal(t, 604, PagesPerDayFor(604, 0))

	g := QuranReadingGoal{
		TotalPages:  604,
		TargetDays:  30,
		PagesPerDay: 21,
		StartDate:   mustDate(t, "2026-03-01"),
		CurrentPage: 60,
	}
	p := g.Progress(mustDate(t, "2026-03-03"))
	assert.Equal(t, 3, p.DaysElapsed)
	assert.Equal(t, 27, p.DaysRemaining)
	assert.Equal(t, 63, p.ExpectedPages)
	assert.False(t, p.OnTrack)
	assert.Equal(t, -3, p.AheadBehind)
	assert.Equal(t, 9.9, p.ProgressPercentage)
	assert.Equal(t, 544, p.RemainingPages)

	before := g.Progress(mustDate(t, "2026-02-20"))
	assert.Zero(t, before.DaysElapsed)
	assert.True(t, before.OnTrack)

	assert.Equal(t, 0, ClampPage(-4, 604))
	assert.Equal(t, 604, ClampPage(700, 604))
	assert.Equal(t, 12, ClampPage(12, 604))
}

func TestReminderRecurrenceAndVisibility(t *testing.T) {
	at := time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC)
	assert.Equal(t, at.AddDate(0, 0, 1), NextOccurrence(at, RecurDaily))
	assert.Equal(t, at.AddDate(0, 0, 7), NextOccurrence(at, RecurWeekly))
	assert.Equal(t, at.AddDate(0, 0, 30), NextOccurrence(at, RecurMonthly))
	assert.Equal(t, at.AddDate(0, 0, 1), NextOccurrence(at, "yearly"))

	everyone := Reminder{}
	assert.True(t, everyone.VisibleTo(5))
	some := Reminder{ForUsers: []int64{2, 3}}
	assert.True(t, some.VisibleTo(3))
	assert.False(t, some.VisibleTo(5))
}

func TestSummarize(t *testing.T) {
	s := Summarize(2026, 3, []MonthlyExpense{
		{ExpenseType: ExpensePersonal, Amount: decimal.RequireFromString("100.50"), IsPaid: true},
		{ExpenseType: ExpensePersonal, Amount: decimal.RequireFromString("20")},
		{ExpenseType: ExpenseCompany, Amount: decimal.RequireFromString("300"), IsPaid: true},
	})
	assert.Equal(t, "120.5", s.Personal.Total.String())
	assert.Equal(t, "100.5", s.Personal.Paid.String())
	assert.Equal(t, "20", s.Personal.Pending.String())
	assert.Equal(t, 2, s.Personal.Count)
	assert.Equal(t, 1, s.Company.Count)
	assert.True(t, s.Company.Pending.IsZero())
}

func TestZakat(t *testing.T) {
	cfg := ZakatConfig{TotalDue: decimal.NewFromInt(2500), TotalPaid: decimal.NewFromInt(3000)}
	assert.Equal(t, "-500", cfg.Remaining().String())

	to := "Masjid fund"
	p := ZakatPayment{UserID: 1, Recipient: &to, IsRecipientPrivate: true}
	assert.Equal(t, "Masjid fund", *p.VisibleTo(1).Recipient)
	assert.Equal(t, "Private", *p.VisibleTo(2).Recipient)
	assert.Equal(t, "Masjid fund", *p.Recipient)
}

func TestWorksheetAnswersHidden(t *testing.T) {
	w := Worksheet{
		Status:    WorksheetInProgress,
		Questions: Questions{{Number: 1, Question: "2+2", Answer: "4", Hint: "count"}},
	}
	assert.Equal(t, AnswerKey{{Number: 1, Answer: "4"}}, w.Questions.AnswerKey())

	open := w.ForStudent()
	assert.Empty(t, open.Questions[0].Answer)
	assert.Empty(t, open.Questions[0].Hint)
	assert.Equal(t, "4", w.Questions[0].Answer)

	w.Status = WorksheetGraded
	assert.Equal(t, "4", w.ForStudent().Questions[0].Answer)
}

func TestProficiency(t *testing.T) {
	var p Proficiency
	at := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	p.Absorb(10, 6, at)
	p.Absorb(10, 9, at)
	assert.Equal(t, 75.0, p.Score)
	assert.Equal(t, 20, p.TotalQuestions)

	grouped := GroupProficiency([]Proficiency{
		{SubjectName: "Math", TopicName: "Fractions", Score: 60},
		{SubjectName: "Science", TopicName: "Plants", Score: 90},
		{SubjectName: "Math", TopicName: "Decimals", Score: 85},
	})
	require.Len(t, grouped, 2)
	assert.Equal(t, "Math", grouped[0].Subject)
	assert.Equal(t, 72.5, grouped[0].OverallScore)
	assert.Equal(t, []string{"Fractions"}, grouped[0].WeakAreas)
	assert.Equal(t, []string{"Decimals"}, grouped[0].StrongAreas)
	assert.Empty(t, grouped[1].WeakAreas)
}

func TestFeatureCatalogue(t *testing.T) {
	flags := AllFeaturesEnabled()
	assert.Len(t, flags, len(AvailableFeatures))
	assert.True(t, IsKnownFeature(FeatureAI))
	assert.False(t, IsKnownFeature("grocery"))
}
