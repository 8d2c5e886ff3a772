package endpoints

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/familyhub/internal/currency"
	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/apitest"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/islamic/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

type fakeStore struct {
	db.Store
	members  map[int]int
	prayers  map[int]*model.Prayer
	ensured  int
	progress map[int]*model.QuranProgress
	goals    map[int]*model.RamadanGoal
	logs     map[int]*model.RamadanGoalLog
	configs  map[int]*model.ZakatConfig
	payments []model.ZakatPayment
	deleted  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		members:  map[int]int{1: 3, 2: 3, 9: 4},
		prayers:  map[int]*model.Prayer{},
		progress: map[int]*model.QuranProgress{},
		goals:    map[int]*model.RamadanGoal{},
		logs:     map[int]*model.RamadanGoalLog{},
		configs:  map[int]*model.ZakatConfig{},
	}
}

func (f *fakeStore) GetFamilyMember(familyID, userID int) (*model.User, error) {
	if fam, ok := f.members[userID]; ok && fam == familyID {
		return &model.User{ID: userID, FamilyID: &fam}, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) EnsureDailyPrayers(userID int, date model.Date) error {
	f.ensured++
	for _, name := range model.DailyPrayers {
		found := false
		for _, p := range f.prayers {
			if p.UserID == userID && p.PrayerName == name && p.Date.Equal(date) {
				found = true
			}
		}
		if !found {
			id := len(f.prayers) + 1
			f.prayers[id] = &model.Prayer{ID: id, UserID: userID, PrayerName: name, Date: date, Status: model.PrayerNotPrayed}
		}
	}
	return nil
}

func (f *fakeStore) ListPrayers(userID int, date model.Date) ([]model.Prayer, error) {
	var out []model.Prayer
	for id := 1; id <= len(f.prayers); id++ {
		p := f.prayers[id]
		if p.UserID == userID && p.Date.Equal(date) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertPrayer(p *model.Prayer) (*model.Prayer, error) {
	for _, existing := range f.prayers {
		if existing.UserID == p.UserID && existing.PrayerName == p.PrayerName && existing.Date.Equal(p.Date) {
			p.ID = existing.ID
			f.prayers[p.ID] = p
			return p, nil
		}
	}
	p.ID = len(f.prayers) + 1
	f.prayers[p.ID] = p
	return p, nil
}

func (f *fakeStore) GetPrayer(id int) (*model.Prayer, error) {
	if p, ok := f.prayers[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) UpdatePrayer(p *model.Prayer) (*model.Prayer, error) {
	f.prayers[p.ID] = p
	return p, nil
}

func (f *fakeStore) ListQuranProgress(userID int) ([]model.QuranProgress, error) {
	var out []model.QuranProgress
	for _, p := range f.progress {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertQuranProgress(p *model.QuranProgress) (*model.QuranProgress, error) {
	p.ID = len(f.progress) + 1
	f.progress[p.ID] = p
	return p, nil
}

func (f *fakeStore) GetQuranProgress(id int) (*model.QuranProgress, error) {
	if p, ok := f.progress[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) UpdateQuranProgress(p *model.QuranProgress) (*model.QuranProgress, error) {
	f.progress[p.ID] = p
	return p, nil
}

func (f *fakeStore) GetRamadanGoal(id int) (*model.RamadanGoal, error) {
	if g, ok := f.goals[id]; ok {
		return g, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) CreateRamadanGoal(g *model.RamadanGoal) (*model.RamadanGoal, error) {
	g.ID = len(f.goals) + 1
	g.IsActive = true
	f.goals[g.ID] = g
	return g, nil
}

func (f *fakeStore) DeleteRamadanGoal(id int) error {
	delete(f.goals, id)
	f.deleted = append(f.deleted, "goal")
	return nil
}

func (f *fakeStore) UpsertRamadanGoalLog(l *model.RamadanGoalLog) (*model.RamadanGoalLog, error) {
	l.ID = len(f.logs) + 1
	f.logs[l.ID] = l
	return l, nil
}

func (f *fakeStore) GetRamadanGoalLog(id int) (*model.RamadanGoalLog, error) {
	if l, ok := f.logs[id]; ok {
		return l, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) DeleteRamadanGoalLog(id int) error {
	delete(f.logs, id)
	f.deleted = append(f.deleted, "log")
	return nil
}

func (f *fakeStore) UpsertZakatConfig(c *model.ZakatConfig) (*model.ZakatConfig, error) {
	for _, existing := range f.configs {
		if existing.FamilyID == c.FamilyID && existing.Year == c.Year {
			c.ID = existing.ID
		}
	}
	if c.ID == 0 {
		c.ID = len(f.configs) + 1
	}
	f.configs[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetZakatConfig(familyID, id int) (*model.ZakatConfig, error) {
	if c, ok := f.configs[id]; ok && c.FamilyID == familyID {
		cp := *c
		return &cp, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) UpdateZakatConfig(c *model.ZakatConfig) (*model.ZakatConfig, error) {
	if _, ok := f.configs[c.ID]; !ok {
		return nil, db.ErrNotFound
	}
	cp := *c
	f.configs[c.ID] = &cp
	return c, nil
}

func (f *fakeStore) CreateZakatPayment(p *model.ZakatPayment) (*model.ZakatPayment, error) {
	p.ID = len(f.payments) + 1
	f.payments = append(f.payments, *p)
	return p, nil
}

func (f *fakeStore) ListZakatPayments(configID int) ([]model.ZakatPayment, error) {
	var out []model.ZakatPayment
	for _, p := range f.payments {
		if p.ConfigID == configID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeTimes struct{ err error }

func (t fakeTimes) Times(_ context.Context, lat, lon float64, date model.Date) (*model.PrayerTimes, error) {
	if t.err != nil {
		return nil, t.err
	}
	return &model.PrayerTimes{Date: date.String(), Latitude: lat, Longitude: lon,
		Prayers: []model.PrayerTime{{Name: "Fajr", Time24: "05:01", Time12: "5:01 AM", Period: "AM"}}}, nil
}

type fakeFX struct{}

func (fakeFX) Convert(_ context.Context, amount decimal.Decimal, from, to string) (*currency.Conversion, error) {
	if to != "INR" {
		return nil, currency.ErrUnknownCurrency
	}
	rate := decimal.NewFromInt(83)
	return &currency.Conversion{Amount: amount, From: from, To: to, Rate: rate, Result: amount.Mul(rate).Round(2), Source: currency.SourceFallback}, nil
}

func setup(user *model.User) (*fakeStore, http.Handler) {
	store := newFakeStore()
	return store, apitest.Router("/api/islamic", user, IslamicModule(store, apitest.Flags{}, fakeTimes{}, fakeFX{}))
}

func TestDailyPrayers(t *testing.T) {
	store, r := setup(apitest.Parent(1, 3))

	w := apitest.Do(r, http.MethodPost, "/api/islamic/prayers", map[string]any{
		"user_id": 2, "prayer_name": "fajr", "date": "2025-03-10", "status": "prayed_on_time",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	apitest.Do(r, http.MethodPost, "/api/islamic/prayers", map[string]any{
		"user_id": 2, "prayer_name": "taraweeh", "date": "2025-03-10", "status": "prayed_on_time",
	})

	w = apitest.Do(r, http.MethodGet, "/api/islamic/prayers/2/2025-03-10", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var daily packets.DailyPrayers
	apitest.Decode(t, w, &daily)
	assert.Len(t, daily.Prayers, 6)
	assert.Equal(t, 1, daily.CompletedCount, "taraweeh does not count")
	assert.Equal(t, 5, daily.TotalCount)
	assert.Equal(t, "2025-03-10", daily.Date.String())

	w = apitest.Do(r, http.MethodGet, "/api/islamic/prayers/9/2025-03-10", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found in your family", apitest.ErrorOf(t, w))
	assert.Equal(t, 1, store.ensured)
}

func TestLogPrayerValidation(t *testing.T) {
	_, r := setup(apitest.Parent(1, 3))
	w := apitest.Do(r, http.MethodPost, "/api/islamic/prayers", map[string]any{
		"user_id": 1, "prayer_name": "brunch", "date": "2025-03-10", "status": "prayed_on_time",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = apitest.Do(r, http.MethodPost, "/api/islamic/prayers", map[string]any{
		"user_id": 1, "prayer_name": "asr", "status": "prayed_late",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePrayer(t *testing.T) {
	store, r := setup(apitest.Child(2, 3))
	store.prayers[1] = &model.Prayer{ID: 1, UserID: 2, PrayerName: "asr", Status: model.PrayerNotPrayed}
	store.prayers[2] = &model.Prayer{ID: 2, UserID: 9, PrayerName: "asr", Status: model.PrayerNotPrayed}

	w := apitest.Do(r, http.MethodPut, "/api/islamic/prayers/1", map[string]any{"status": "prayed_late", "in_masjid": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, model.PrayerLate, store.prayers[1].Status)
	assert.True(t, store.prayers[1].InMasjid)

	w = apitest.Do(r, http.MethodPut, "/api/islamic/prayers/2", map[string]any{"status": "prayed_late"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPrayerTimes(t *testing.T) {
	_, r := setup(apitest.Parent(1, 3))
	w := apitest.Do(r, http.MethodGet, "/api/islamic/prayer-times?lat=21.42&lon=39.82&date=2025-03-10", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var times model.PrayerTimes
	apitest.Decode(t, w, &times)
	assert.Equal(t, "2025-03-10", times.Date)
	assert.Equal(t, 21.42, times.Latitude)

	assert.Equal(t, http.StatusBadRequest, apitest.Do(r, http.MethodGet, "/api/islamic/prayer-times?lat=200&lon=1", nil).Code)

	store := newFakeStore()
	broken := apitest.Router("/api/islamic", apitest.Parent(1, 3),
		IslamicModule(store, apitest.Flags{}, fakeTimes{err: errors.New("down")}, fakeFX{}))
	w = apitest.Do(broken, http.MethodGet, "/api/islamic/prayer-times?lat=1&lon=1", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestQuranProgress(t *testing.T) {
	store, r := setup(apitest.Parent(1, 3))

	w := apitest.Do(r, http.MethodPost, "/api/islamic/quran", map[string]any{
		"user_id": 2, "surah_number": 112, "verses_memorized": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var p packets.QuranProgress
	apitest.Decode(t, w, &p)
	assert.Equal(t, "Al-Ikhlas", p.SurahName)
	assert.Equal(t, 4, p.TotalVerses)
	assert.Equal(t, 50.0, p.ProgressPercentage)
	assert.Equal(t, model.SurahInProgress, p.Status)

	w = apitest.Do(r, http.MethodPut, "/api/islamic/quran/1", map[string]any{"verses_memorized": 9})
	require.Equal(t, http.StatusOK, w.Code)
	apitest.Decode(t, w, &p)
	assert.Equal(t, model.SurahMemorized, p.Status)
	assert.Equal(t, 4, p.VersesMemorized)
	assert.NotNil(t, store.progress[1].CompletedAt)
	assert.Equal(t, 100.0, p.ProgressPercentage)

	w = apitest.Do(r, http.MethodGet, "/api/islamic/quran/surahs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var surahs []model.Surah
	apitest.Decode(t, w, &surahs)
	assert.Len(t, surahs, len(model.Surahs))
}

func TestRamadanGoals(t *testing.T) {
	store, r := setup(apitest.Child(2, 3))

	w := apitest.Do(r, http.MethodPost, "/api/islamic/ramadan-goals", map[string]any{
		"year": 2025, "title": "Read juz", "target_value": 30,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	goal := store.goals[1]
	store.goals[5] = &model.RamadanGoal{ID: 5, UserID: 1, Title: "Parent goal"}
	assert.Equal(t, 2, goal.UserID)
	assert.Equal(t, "times", goal.Unit)
	assert.Equal(t, "daily", goal.GoalType)

	w = apitest.Do(r, http.MethodPost, "/api/islamic/ramadan-goals/log", map[string]any{
		"goal_id": 5, "date": "2025-03-02", "value": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, "family members may log on each other's goals")
	assert.Equal(t, 2, store.logs[1].UserID)

	assert.Equal(t, http.StatusNotFound, apitest.Do(r, http.MethodDelete, "/api/islamic/ramadan-goals/5", nil).Code)
	assert.Equal(t, http.StatusOK, apitest.Do(r, http.MethodDelete, "/api/islamic/ramadan-goals/log/1", nil).Code)
	assert.Equal(t, http.StatusOK, apitest.Do(r, http.MethodDelete, "/api/islamic/ramadan-goals/1", nil).Code)
	assert.Equal(t, []string{"log", "goal"}, store.deleted)
}

func TestZakat(t *testing.T) {
	store, r := setup(apitest.Parent(1, 3))

	w := apitest.Do(r, http.MethodPost, "/api/islamic/zakat/config", map[string]any{"year": 2025, "total_due": "1000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "USD", store.configs[1].Currency)

	w = apitest.Do(r, http.MethodPost, "/api/islamic/zakat/config", map[string]any{"year": 2025, "total_due": 1200, "currency": "gbp"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.configs, 1, "one config per family and year")
	assert.Equal(t, "GBP", store.configs[1].Currency)

	w = apitest.Do(r, http.MethodPost, "/api/islamic/zakat/payment", map[string]any{
		"config_id": 1, "date": "2025-04-01", "amount": "0",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = apitest.Do(r, http.MethodPost, "/api/islamic/zakat/payment", map[string]any{
		"config_id": 1, "date": "2025-04-01", "amount": "250.50", "recipient": "Masjid", "is_recipient_private": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = apitest.Do(r, http.MethodPost, "/api/islamic/zakat/payment", map[string]any{
		"config_id": 77, "date": "2025-04-01", "amount": "5",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	store.configs[1].TotalPaid = decimal.RequireFromString("250.50")
	w = apitest.Do(r, http.MethodGet, "/api/islamic/zakat/config/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cfg packets.ZakatConfig
	apitest.Decode(t, w, &cfg)
	assert.True(t, decimal.RequireFromString("949.5").Equal(cfg.Remaining), cfg.Remaining.String())

	w = apitest.Do(r, http.MethodGet, "/api/islamic/zakat/config/1/convert?to=inr", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var conv packets.ZakatConversion
	apitest.Decode(t, w, &conv)
	assert.True(t, decimal.NewFromInt(99600).Equal(conv.TotalDue), conv.TotalDue.String())
	assert.True(t, decimal.RequireFromString("78808.5").Equal(conv.Remaining), conv.Remaining.String())

	w = apitest.Do(r, http.MethodGet, "/api/islamic/zakat/config/1/convert?to=XYZ", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestZakatConfigCurrencyNotBlanked(t *testing.T) {
	store, r := setup(apitest.Parent(1, 3))
	w := apitest.Do(r, http.MethodPost, "/api/islamic/zakat/config", map[string]any{"year": 2025, "total_due": "500", "currency": ""})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "USD", store.configs[1].Currency)

	w = apitest.Do(r, http.MethodPut, "/api/islamic/zakat/config/1", map[string]any{"currency": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = apitest.Do(r, http.MethodPut, "/api/islamic/zakat/config/1", map[string]any{"currency": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "USD", store.configs[1].Currency)

	w = apitest.Do(r, http.MethodPut, "/api/islamic/zakat/config/1", map[string]any{"currency": "eur"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "EUR", store.configs[1].Currency)
}

func TestZakatPaymentPrivacy(t *testing.T) {
	store, r := setup(apitest.Child(2, 3))
	store.configs[1] = &model.ZakatConfig{ID: 1, FamilyID: 3, Year: 2025, Currency: "USD"}
	store.payments = []model.ZakatPayment{
		{ID: 1, ConfigID: 1, UserID: 1, Recipient: apitest.StrPtr("Neighbour"), IsRecipientPrivate: true},
		{ID: 2, ConfigID: 1, UserID: 2, Recipient: apitest.StrPtr("Orphanage"), IsRecipientPrivate: true},
	}

	w := apitest.Do(r, http.MethodGet, "/api/islamic/zakat/payments/1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var payments []model.ZakatPayment
	apitest.Decode(t, w, &payments)
	require.Len(t, payments, 2)
	assert.Equal(t, "Private", *payments[0].Recipient)
	assert.Equal(t, "Orphanage", *payments[1].Recipient)
}

func TestFeatureFlagsGateSections(t *testing.T) {
	store := newFakeStore()
	r := apitest.Router("/api/islamic", apitest.Parent(1, 3),
		IslamicModule(store, apitest.Flags{model.FeatureZakat: false}, fakeTimes{}, fakeFX{}))

	assert.Equal(t, http.StatusForbidden, apitest.Do(r, http.MethodGet, "/api/islamic/zakat/config", nil).Code)
	assert.Equal(t, http.StatusOK, apitest.Do(r, http.MethodGet, "/api/islamic/quran/surahs", nil).Code)
}
