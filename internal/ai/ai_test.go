package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

type fakeModel struct {
	answer string
	err    error
	prompt string
	image  []byte
}

func (f *fakeModel) GenerateJSON(_ context.Context, prompt string, image []byte, _ string) (string, Usage, error) {
	f.prompt = prompt
	f.image = image
	return f.answer, Usage{Model: "gemini-2.0-flash", PromptTokens: 1000, CompletionTokens: 2000, TotalTokens: 3000}, f.err
}

func TestCalculateCost(t *testing.T) {
	assert.True(t, decimal.RequireFromString("0.0009").Equal(CalculateCost("gemini-2.0-flash", 1000, 2000)))
	assert.True(t, decimal.RequireFromString("0.02125").Equal(CalculateCost("unknown", 1000, 2000)))
	assert.True(t, CalculateCost("gemini-2.0-flash", 0, 0).IsZero())
}

func TestGenerateWorksheet_ParsesFencedJSON(t *testing.T) {
	m := &fakeModel{answer: "```json\n{\"title\":\"\",\"questions\":[{\"question\":\"2+2\",\"answer\":\"4\"},{\"question_number\":7,\"question\":\"3+3\",\"answer\":\"6\",\"points\":2}]}\n```"}
	ws, usage, err := NewTutor(m).GenerateWorksheet(context.Background(), WorksheetRequest{
		Topic: "Addition", Subject: "Math", Difficulty: "easy", QuestionCount: 2, GradeLevel: "3rd",
	})
	require.NoError(t, err)
	assert.Equal(t, 3000, usage.TotalTokens)
	assert.Equal(t, "Practice: Addition", ws.Title)
	assert.Equal(t, 15, ws.EstimatedMinutes)
	require.Len(t, ws.Questions, 2)
	assert.Equal(t, 1, ws.Questions[0].Number)
	assert.Equal(t, 1, ws.Questions[0].Points)
	assert.Equal(t, 7, ws.Questions[1].Number)
	assert.Contains(t, m.prompt, "3rd grade")
	assert.Nil(t, m.image)
}

func TestGenerateWorksheet_Garbage(t *testing.T) {
	_, _, err := NewTutor(&fakeModel{answer: "sorry"}).GenerateWorksheet(context.Background(), WorksheetRequest{Topic: "x"})
	assert.ErrorIs(t, err, ErrUnparseable)

	_, _, err = NewTutor(&fakeModel{answer: `{"questions":[]}`}).GenerateWorksheet(context.Background(), WorksheetRequest{Topic: "x"})
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestGradeWorksheet(t *testing.T) {
	m := &fakeModel{answer: `{"correct_answers":3,"score":140,"question_results":[]}`}
	key := model.AnswerKey{{Number: 1, Answer: "4"}, {Number: 2, Answer: "6"}}
	g, _, err := NewTutor(m).GradeWorksheet(context.Background(), []byte("img"), "image/png", key)
	require.NoError(t, err)
	assert.Equal(t, 2, g.TotalQuestions)
	assert.Equal(t, 100.0, g.Score)
	assert.Equal(t, []byte("img"), m.image)
	assert.True(t, strings.Contains(m.prompt, `"answer": "6"`))
}

func TestGradeWorksheet_ModelError(t *testing.T) {
	boom := errors.New("quota")
	_, _, err := NewTutor(&fakeModel{err: boom}).GradeWorksheet(context.Background(), nil, "", nil)
	assert.ErrorIs(t, err, boom)
}

type fakeBudgetStore struct {
	limit    model.FamilyAILimit
	used     int
	since    time.Time
	recorded []model.TokenUsage
}

func (f *fakeBudgetStore) GetAILimit(int) (*model.FamilyAILimit, error) { return &f.limit, nil }
func (f *fakeBudgetStore) TokensUsedSince(_ int, since time.Time) (int, error) {
	f.since = since
	return f.used, nil
}
func (f *fakeBudgetStore) RecordTokenUsage(u *model.TokenUsage) error {
	f.recorded = append(f.recorded, *u)
	return nil
}

func TestBudget_Check(t *testing.T) {
	store := &fakeBudgetStore{limit: model.FamilyAILimit{IsAIEnabled: true, MonthlyTokenLimit: 100}}
	b := NewBudget(store)
	b.now = func() time.Time { return time.Date(2025, 3, 17, 10, 0, 0, 0, time.UTC) }

	store.used = 99
	assert.NoError(t, b.Check(1))
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), store.since)

	store.used = 100
	assert.ErrorIs(t, b.Check(1), ErrBudgetExhausted)

	store.limit.IsAIEnabled = false
	assert.ErrorIs(t, b.Check(1), ErrAIDisabled)
}

func TestBudget_Record(t *testing.T) {
	store := &fakeBudgetStore{}
	uid := 5
	NewBudget(store).Record(1, &uid, "worksheet", Usage{Model: "gemini-2.0-flash", PromptTokens: 1000, CompletionTokens: 2000})

	require.Len(t, store.recorded, 1)
	got := store.recorded[0]
	assert.Equal(t, 3000, got.TotalTokens)
	assert.Equal(t, "worksheet", got.FeatureUsed)
	assert.True(t, decimal.RequireFromString("0.0009").Equal(got.CostUSD))
}
