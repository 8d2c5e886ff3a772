package endpoints

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/features"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/apitest"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
	"github.com/Nixie-Tech-LLC/familyhub/internal/redis"
)

type fakeStore struct {
	db.Store
	families map[int]model.Family
	users    map[int]model.User
	flags    map[int]map[string]bool
	limits   map[int]model.FamilyAILimit
	filter   db.FamilyFilter
}

func newFakeStore() *fakeStore {
	fam := 3
	email := "owner@example.com"
	return &fakeStore{
		families: map[int]model.Family{3: {ID: 3, Name: "The Rahmans", OwnerEmail: email, IsActive: true}},
		users: map[int]model.User{
			1: {ID: 1, FamilyID: &fam, Name: "Owner", Email: &email, Role: model.RoleParent},
			2: {ID: 2, FamilyID: &fam, Name: "Kid", Role: model.RoleChild},
		},
		flags:  map[int]map[string]bool{},
		limits: map[int]model.FamilyAILimit{},
	}
}

func (f *fakeStore) GetFamilyByID(id int) (*model.Family, error) {
	if fam, ok := f.families[id]; ok {
		return &fam, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) ListFamilies(filter db.FamilyFilter) ([]db.FamilySummary, int, error) {
	f.filter = filter
	out := []db.FamilySummary{}
	for _, fam := range f.families {
		out = append(out, db.FamilySummary{Family: fam, MemberCount: 2})
	}
	return out, len(out), nil
}

func (f *fakeStore) ListFamilyMembers(familyID int) ([]model.User, error) {
	out := []model.User{}
	for id := 1; id <= len(f.users); id++ {
		if u := f.users[id]; u.InFamily(familyID) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) GetUserByID(id int) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return &u, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) GetUserByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email != nil && *u.Email == email {
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) MarkUserEmailVerified(id int) error {
	u := f.users[id]
	u.IsEmailVerified = true
	f.users[id] = u
	return nil
}

func (f *fakeStore) MarkFamilyVerified(id int) error {
	fam := f.families[id]
	fam.IsVerified = true
	f.families[id] = fam
	return nil
}

func (f *fakeStore) SetFamilyActive(id int, active bool) error {
	fam := f.families[id]
	fam.IsActive = active
	f.families[id] = fam
	return nil
}

func (f *fakeStore) GetFamilyFeatures(familyID int) (map[string]bool, error) {
	out := map[string]bool{}
	for k, v := range f.flags[familyID] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) SetFamilyFeatures(familyID int, flags map[string]bool) error {
	if f.flags[familyID] == nil {
		f.flags[familyID] = map[string]bool{}
	}
	for k, v := range flags {
		f.flags[familyID][k] = v
	}
	return nil
}

func (f *fakeStore) GetAILimit(familyID int) (*model.FamilyAILimit, error) {
	if l, ok := f.limits[familyID]; ok {
		return &l, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) UpsertAILimit(l *model.FamilyAILimit) (*model.FamilyAILimit, error) {
	f.limits[l.FamilyID] = *l
	return l, nil
}

func (f *fakeStore) TokensUsedSince(int, time.Time) (int, error) { return 25000, nil }

func (f *fakeStore) UsageReport(familyID int, since time.Time) (*model.UsageReport, error) {
	return &model.UsageReport{
		FamilyID:    familyID,
		MonthTokens: 25000,
		MonthCost:   decimal.RequireFromString("0.0375"),
		ByFeature:   []model.UsageBucket{},
		ByModel:     []model.UsageBucket{},
		Recent:      []model.TokenUsage{},
	}, nil
}

func (f *fakeStore) DashboardStats(monthStart time.Time) (*db.DashboardStats, error) {
	if !monthStart.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		return nil, db.ErrNotFound
	}
	return &db.DashboardStats{TotalFamilies: 1, TotalUsers: 2, AICostMonth: decimal.RequireFromString("1.25")}, nil
}

func setup(t *testing.T) (*fakeStore, *gin.Engine) {
	store := newFakeStore()
	mr := miniredis.RunT(t)
	svc := features.NewService(store, redis.NewCache(mr.Addr(), "", ""))
	ctl := newFamiliesController(store, svc)
	ctl.now = func() time.Time { return time.Date(2026, 4, 18, 12, 0, 0, 0, time.UTC) }
	return store, apitest.AdminRouter("/api/admin", &model.Admin{ID: 1, IsActive: true}, ctl.module())
}

func TestDashboardAndCatalogue(t *testing.T) {
	_, r := setup(t)
	w := apitest.Do(r, http.MethodGet, "/api/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stats map[string]any
	apitest.Decode(t, w, &stats)
	assert.EqualValues(t, 1, stats["total_families"])

	var catalogue []model.Feature
	apitest.Decode(t, apitest.Do(r, http.MethodGet, "/api/admin/features", nil), &catalogue)
	assert.Len(t, catalogue, len(model.AvailableFeatures))
}

func TestListFamilies(t *testing.T) {
	store, r := setup(t)
	var list packets.FamilyList
	apitest.Decode(t, apitest.Do(r, http.MethodGet, "/api/admin/families?search=rah&is_active=true&page=2&page_size=50", nil), &list)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, 2, list.Page)
	assert.Equal(t, "rah", store.filter.Search)
	require.NotNil(t, store.filter.IsActive)
	assert.True(t, *store.filter.IsActive)

	apitest.Decode(t, apitest.Do(r, http.MethodGet, "/api/admin/families", nil), &list)
	assert.Equal(t, defaultPageSize, list.PageSize)
	assert.Nil(t, store.filter.IsActive)

	assert.Equal(t, http.StatusBadRequest, apitest.Do(r, http.MethodGet, "/api/admin/families?page_size=101", nil).Code)
	assert.Equal(t, http.StatusBadRequest, apitest.Do(r, http.MethodGet, "/api/admin/families?page=0", nil).Code)
}

func TestFamilyDetailAndFeatures(t *testing.T) {
	store, r := setup(t)

	var detail packets.FamilyDetail
	apitest.Decode(t, apitest.Do(r, http.MethodGet, "/api/admin/families/3", nil), &detail)
	assert.Len(t, detail.Members, 2)
	assert.True(t, detail.Features[model.FeatureZakat])
	require.NotNil(t, detail.AILimit)
	assert.Equal(t, model.DefaultMonthlyTokenLimit, detail.AILimit.MonthlyTokenLimit)
	assert.Equal(t, 25000, detail.MonthTokensUsed)

	w := apitest.Do(r, http.MethodPut, "/api/admin/families/3/features", map[string]any{"features": map[string]bool{model.FeatureZakat: false}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, store.flags[3][model.FeatureZakat])

	// the cached copy from the detail call must not survive the update
	apitest.Decode(t, apitest.Do(r, http.MethodGet, "/api/admin/families/3", nil), &detail)
	assert.False(t, detail.Features[model.FeatureZakat])

	w = apitest.Do(r, http.MethodPut, "/api/admin/families/3/features", map[string]any{"features": map[string]bool{"teleport": true}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, http.StatusNotFound, apitest.Do(r, http.MethodGet, "/api/admin/families/99", nil).Code)
}

func TestStatusAndVerification(t *testing.T) {
	store, r := setup(t)

	assert.Equal(t, http.StatusBadRequest, apitest.Do(r, http.MethodPut, "/api/admin/families/3/status", map[string]any{}).Code)
	w := apitest.Do(r, http.MethodPut, "/api/admin/families/3/status", map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, store.families[3].IsActive)

	require.Equal(t, http.StatusOK, apitest.Do(r, http.MethodPut, "/api/admin/families/3/verify", nil).Code)
	assert.True(t, store.families[3].IsVerified)
	assert.True(t, store.users[1].IsEmailVerified, "owner verified with the family")
	assert.False(t, store.users[2].IsEmailVerified)

	require.Equal(t, http.StatusOK, apitest.Do(r, http.MethodPut, "/api/admin/users/2/verify", nil).Code)
	assert.True(t, store.users[2].IsEmailVerified)
	assert.Equal(t, http.StatusNotFound, apitest.Do(r, http.MethodPut, "/api/admin/users/42/verify", nil).Code)
}

func TestAILimitsAndUsage(t *testing.T) {
	store, r := setup(t)

	w := apitest.Do(r, http.MethodPut, "/api/admin/families/3/ai-limits", map[string]any{"monthly_token_limit": 50000, "is_ai_enabled": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 50000, store.limits[3].MonthlyTokenLimit)
	assert.False(t, store.limits[3].IsAIEnabled)

	assert.Equal(t, http.StatusBadRequest, apitest.Do(r, http.MethodPut, "/api/admin/families/3/ai-limits", map[string]any{"monthly_token_limit": -1}).Code)

	var usage packets.Usage
	apitest.Decode(t, apitest.Do(r, http.MethodGet, "/api/admin/families/3/usage", nil), &usage)
	assert.Equal(t, "The Rahmans", usage.FamilyName)
	assert.Equal(t, 50000, usage.MonthlyLimit)
	assert.Equal(t, 50.0, usage.UsagePercentage)
	require.NotNil(t, usage.UsageReport)
	assert.Equal(t, 25000, usage.MonthTokens)
}
