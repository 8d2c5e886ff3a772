package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/apitest"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/qurangoals/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

type fakeStore struct {
	db.Store
	goals   map[int]model.QuranReadingGoal
	logs    map[int]model.QuranReadingLog
	goalSeq int
	logSeq  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{goals: map[int]model.QuranReadingGoal{}, logs: map[int]model.QuranReadingLog{}}
}

func (f *fakeStore) GetFamilyMember(familyID, userID int) (*model.User, error) {
	if familyID == 3 && userID <= 3 {
		return &model.User{ID: userID, FamilyID: &familyID}, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) ActiveQuranGoal(userID int) (*model.QuranReadingGoal, error) {
	for _, g := range f.goals {
		if g.UserID == userID && !g.IsCompleted {
			return &g, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) CreateQuranGoal(g *model.QuranReadingGoal) (*model.QuranReadingGoal, error) {
	f.goalSeq++
	g.ID = f.goalSeq
	f.goals[g.ID] = *g
	return g, nil
}

func (f *fakeStore) GetQuranGoal(id int) (*model.QuranReadingGoal, error) {
	if g, ok := f.goals[id]; ok {
		return &g, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) UpdateQuranGoal(g *model.QuranReadingGoal) (*model.QuranReadingGoal, error) {
	f.goals[g.ID] = *g
	out := *g
	return &out, nil
}

func (f *fakeStore) DeleteQuranGoal(id int) error {
	delete(f.goals, id)
	for lid, l := range f.logs {
		if l.GoalID == id {
			delete(f.logs, lid)
		}
	}
	return nil
}

func (f *fakeStore) GetReadingLogForDate(goalID int, date model.Date) (*model.QuranReadingLog, error) {
	for _, l := range f.logs {
		if l.GoalID == goalID && l.Date.Equal(date) {
			return &l, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) CreateReadingLog(l *model.QuranReadingLog) (*model.QuranReadingLog, error) {
	f.logSeq++
	l.ID = f.logSeq
	f.logs[l.ID] = *l
	return l, nil
}

func (f *fakeStore) UpdateReadingLog(l *model.QuranReadingLog) (*model.QuranReadingLog, error) {
	f.logs[l.ID] = *l
	return l, nil
}

func (f *fakeStore) GetReadingLog(id int) (*model.QuranReadingLog, error) {
	if l, ok := f.logs[id]; ok {
		return &l, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) DeleteReadingLog(id int) error {
	delete(f.logs, id)
	return nil
}

func (f *fakeStore) ListReadingLogs(goalID int) ([]model.QuranReadingLog, error) {
	out := []model.QuranReadingLog{}
	for _, l := range f.logs {
		if l.GoalID == goalID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) SumPagesRead(goalID int) (int, error) {
	n := 0
	for _, l := range f.logs {
		if l.GoalID == goalID {
			n += l.PagesRead
		}
	}
	return n, nil
}

func setup(user *model.User) (*fakeStore, *apitest.Files, http.Handler) {
	store := newFakeStore()
	files := &apitest.Files{}
	return store, files, apitest.Router("/api/quran-goals", user, QuranGoalsModule(store, apitest.Flags{}, files))
}

func TestCreateGoal(t *testing.T) {
	store, _, r := setup(apitest.Parent(1, 3))

	w := apitest.Do(r, http.MethodPost, "/api/quran-goals/create", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var goal packets.Goal
	apitest.Decode(t, w, &goal)
	assert.Equal(t, "Complete Quran in Ramadan", goal.Title)
	assert.Equal(t, 604, goal.TotalPages)
	assert.Equal(t, 25, goal.TargetDays)
	assert.Equal(t, 25, goal.PagesPerDay)
	assert.Equal(t, 1, goal.DaysElapsed)
	assert.Equal(t, 24, goal.DaysRemaining)
	assert.False(t, goal.OnTrack)
	require.NotNil(t, goal.EndDate)
	assert.Equal(t, model.Today().AddDays(25).String(), goal.EndDate.String())

	w = apitest.Do(r, http.MethodPost, "/api/quran-goals/create", map[string]any{"target_days": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You already have an active goal", apitest.ErrorOf(t, w))
	assert.Len(t, store.goals, 1)
}

func TestLogReadingAccumulatesSameDay(t *testing.T) {
	store, files, r := setup(apitest.Parent(1, 3))

	w := apitest.DoMultipart(r, http.MethodPost, "/api/quran-goals/log", map[string]string{"pages_read": "3"}, "", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	apitest.Do(r, http.MethodPost, "/api/quran-goals/create", map[string]any{"total_pages": 100, "target_days": 10})

	w = apitest.DoMultipart(r, http.MethodPost, "/api/quran-goals/log",
		map[string]string{"pages_read": "10", "start_page": "1", "end_page": "10"},
		"file", "page.jpg", []byte("jpeg"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, files.Saved, 1)

	w = apitest.DoMultipart(r, http.MethodPost, "/api/quran-goals/log",
		map[string]string{"pages_read": "5", "end_page": "15", "notes": "after fajr"}, "", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result packets.LogResult
	apitest.Decode(t, w, &result)
	assert.Equal(t, 5, result.PagesLogged)
	assert.Equal(t, 15, result.TotalPagesRead)
	assert.Equal(t, 85, result.RemainingPages)
	assert.Equal(t, 15.0, result.ProgressPercentage)
	assert.False(t, result.IsCompleted)

	require.Len(t, store.logs, 1)
	entry := store.logs[1]
	assert.Equal(t, 15, entry.PagesRead)
	assert.Equal(t, 1, *entry.StartPage)
	assert.Equal(t, 15, *entry.EndPage)
	assert.NotNil(t, entry.ImageURL, "image from the first upload survives")

	w = apitest.Do(r, http.MethodGet, "/api/quran-goals/active", nil)
	var goal packets.Goal
	apitest.Decode(t, w, &goal)
	assert.Equal(t, 15, goal.PagesReadToday)
	assert.Equal(t, 15, goal.CurrentPage)
	assert.True(t, goal.OnTrack)
}

func TestLogRejectsBadInput(t *testing.T) {
	_, _, r := setup(apitest.Parent(1, 3))
	apitest.Do(r, http.MethodPost, "/api/quran-goals/create", map[string]any{})

	w := apitest.DoMultipart(r, http.MethodPost, "/api/quran-goals/log", map[string]string{"pages_read": "many"}, "", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = apitest.DoMultipart(r, http.MethodPost, "/api/quran-goals/log", map[string]string{"pages_read": "2"}, "file", "notes.txt", []byte("x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoalCompletesAndReopens(t *testing.T) {
	store, _, r := setup(apitest.Child(2, 3))
	apitest.Do(r, http.MethodPost, "/api/quran-goals/create", map[string]any{"total_pages": 20, "target_days": 2})

	w := apitest.DoMultipart(r, http.MethodPost, "/api/quran-goals/log", map[string]string{"pages_read": "25"}, "", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result packets.LogResult
	apitest.Decode(t, w, &result)
	assert.True(t, result.IsCompleted)
	assert.Equal(t, 20, result.TotalPagesRead)
	assert.NotNil(t, store.goals[1].CompletedAt)

	w = apitest.Do(r, http.MethodGet, "/api/quran-goals/active", nil)
	assert.Equal(t, "null", w.Body.String())

	w = apitest.Do(r, http.MethodPut, "/api/quran-goals/logs/1", map[string]any{"pages_read": 8})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, store.goals[1].IsCompleted)
	assert.Equal(t, 8, store.goals[1].CurrentPage)
	assert.Nil(t, store.goals[1].CompletedAt)

	w = apitest.Do(r, http.MethodDelete, "/api/quran-goals/logs/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, store.goals[1].CurrentPage)
}

func TestGoalOwnership(t *testing.T) {
	store, _, r := setup(apitest.Child(2, 3))
	store.goals[7] = model.QuranReadingGoal{ID: 7, UserID: 1, TotalPages: 604, TargetDays: 30, StartDate: model.Today()}
	store.logs[4] = model.QuranReadingLog{ID: 4, GoalID: 7, UserID: 1, Date: model.Today(), PagesRead: 4}

	assert.Equal(t, http.StatusNotFound, apitest.Do(r, http.MethodDelete, "/api/quran-goals/delete/7", nil).Code)
	assert.Equal(t, http.StatusNotFound, apitest.Do(r, http.MethodPut, "/api/quran-goals/update/7", map[string]any{"title": "x"}).Code)
	assert.Equal(t, http.StatusNotFound, apitest.Do(r, http.MethodDelete, "/api/quran-goals/logs/4", nil).Code)

	w := apitest.Do(r, http.MethodGet, "/api/quran-goals/logs?user_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logs []model.QuranReadingLog
	apitest.Decode(t, w, &logs)
	assert.Len(t, logs, 1)

	assert.Equal(t, http.StatusNotFound, apitest.Do(r, http.MethodGet, "/api/quran-goals/active?user_id=9", nil).Code)
}

func TestUpdateGoal(t *testing.T) {
	store, _, r := setup(apitest.Parent(1, 3))
	apitest.Do(r, http.MethodPost, "/api/quran-goals/create", map[string]any{"total_pages": 300})

	w := apitest.Do(r, http.MethodPut, "/api/quran-goals/update/1", map[string]any{
		"title": "Juz Amma", "target_days": 30, "current_page": 900,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	g := store.goals[1]
	assert.Equal(t, "Juz Amma", g.Title)
	assert.Equal(t, 10, g.PagesPerDay)
	assert.Equal(t, 300, g.CurrentPage)
	assert.True(t, g.IsCompleted)
	assert.Equal(t, g.StartDate.AddDays(30).String(), g.EndDate.String())
}

func TestStats(t *testing.T) {
	_, _, r := setup(apitest.Parent(1, 3))

	w := apitest.Do(r, http.MethodGet, "/api/quran-goals/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No active goal")

	apitest.Do(r, http.MethodPost, "/api/quran-goals/create", map[string]any{"start_date": model.Today().AddDays(-1).String(), "target_days": 2, "total_pages": 40})
	apitest.DoMultipart(r, http.MethodPost, "/api/quran-goals/log", map[string]string{"pages_read": "12"}, "", "", nil)

	w = apitest.Do(r, http.MethodGet, "/api/quran-goals/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats packets.Stats
	apitest.Decode(t, w, &stats)
	assert.Equal(t, 1, stats.TotalDaysRead)
	assert.Equal(t, 12, stats.DailyReading[model.Today().String()])
	assert.Equal(t, 2, stats.Goal.DaysElapsed)
	assert.Equal(t, 40, stats.Goal.ExpectedPages)
	assert.Equal(t, -28, stats.Goal.AheadBehind)
	assert.Equal(t, 6.0, stats.Goal.AveragePagesPerDay)
}
