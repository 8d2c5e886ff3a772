package endpoints

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/apitest"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

type fakeStore struct {
	db.Store
	issues   map[int]model.Issue
	activity []model.ActivityLog
}

func (f *fakeStore) CreateIssue(i *model.Issue) (*model.Issue, error) {
	i.ID = len(f.issues) + 1
	i.Status = model.IssueOpen
	f.issues[i.ID] = *i
	return i, nil
}

func (f *fakeStore) ListIssuesByUser(userID int) ([]model.Issue, error) {
	out := []model.Issue{}
	for id := 1; id <= len(f.issues); id++ {
		if i := f.issues[id]; i.UserID != nil && *i.UserID == userID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeStore) ListIssues(status *string) ([]model.Issue, error) {
	out := []model.Issue{}
	for id := 1; id <= len(f.issues); id++ {
		if i := f.issues[id]; status == nil || i.Status == *status {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeStore) GetIssue(id int) (*model.Issue, error) {
	if i, ok := f.issues[id]; ok {
		return &i, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) UpdateIssue(i *model.Issue) (*model.Issue, error) {
	f.issues[i.ID] = *i
	return i, nil
}

func (f *fakeStore) LogActivity(a *model.ActivityLog) error {
	f.activity = append(f.activity, *a)
	return nil
}

func (f *fakeStore) ListActivity(familyID *int, limit int) ([]model.ActivityLog, error) {
	out := []model.ActivityLog{}
	for _, a := range f.activity {
		if familyID == nil || (a.FamilyID != nil && *a.FamilyID == *familyID) {
			out = append(out, a)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func userRouter(store *fakeStore, user *model.User) *gin.Engine {
	return apitest.Router("/api/support", user, SupportModule(store))
}

func TestCreateIssue(t *testing.T) {
	store := &fakeStore{issues: map[int]model.Issue{}}
	email := "amina@example.com"
	user := apitest.Parent(1, 3)
	user.Email = &email

	w := apitest.Do(userRouter(store, user), http.MethodPost, "/api/support/issues", map[string]any{
		"subject": "Prayer times wrong", "description": "Fajr is off by an hour", "category": "bug",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var issue model.Issue
	apitest.Decode(t, w, &issue)
	assert.Equal(t, model.IssueOpen, issue.Status)
	assert.Equal(t, "medium", issue.Priority)
	require.NotNil(t, issue.FamilyID)
	assert.Equal(t, 3, *issue.FamilyID)
	require.NotNil(t, issue.ContactEmail)
	assert.Equal(t, email, *issue.ContactEmail)

	require.Len(t, store.activity, 1)
	assert.Equal(t, "issue_submitted", store.activity[0].Action)

	anon := userRouter(store, nil)
	w = apitest.Do(anon, http.MethodPost, "/api/support/issues", map[string]any{"subject": "Hi", "description": "Cannot sign up"})
	require.Equal(t, http.StatusCreated, w.Code)
	apitest.Decode(t, w, &issue)
	assert.Nil(t, issue.UserID)
	assert.Equal(t, "other", issue.Category)

	w = apitest.Do(anon, http.MethodPost, "/api/support/issues", map[string]any{"subject": "Hi", "description": "x", "contact_email": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, http.StatusUnauthorized, apitest.Do(anon, http.MethodGet, "/api/support/my-issues", nil).Code)

	var mine []model.Issue
	apitest.Decode(t, apitest.Do(userRouter(store, user), http.MethodGet, "/api/support/my-issues", nil), &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "Prayer times wrong", mine[0].Subject)
}

func TestAdminTriage(t *testing.T) {
	uid := 1
	store := &fakeStore{issues: map[int]model.Issue{
		1: {ID: 1, UserID: &uid, Subject: "A", Status: model.IssueOpen, Priority: "medium"},
		2: {ID: 2, Subject: "B", Status: model.IssueInProgress, Priority: "low"},
	}}
	ctl := newSupportController(store)
	ctl.now = func() time.Time { return time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC) }
	r := apitest.AdminRouter("/api/support/admin", &model.Admin{ID: 7, IsActive: true}, api.ModuleFunc(func(c *api.Controller) {
		c.ADMIN_GET("/issues", ctl.listIssues)
		c.ADMIN_PUT("/issues/:id", ctl.updateIssue)
	}))

	var issues []model.Issue
	apitest.Decode(t, apitest.Do(r, http.MethodGet, "/api/support/admin/issues?status=open", nil), &issues)
	require.Len(t, issues, 1)

	w := apitest.Do(r, http.MethodPut, "/api/support/admin/issues/1", map[string]any{"status": "resolved", "admin_notes": "fixed in 1.4"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var issue model.Issue
	apitest.Decode(t, w, &issue)
	require.NotNil(t, issue.ResolvedAt)
	assert.Equal(t, 2026, issue.ResolvedAt.Year())
	assert.Equal(t, "fixed in 1.4", *issue.AdminNotes)

	w = apitest.Do(r, http.MethodPut, "/api/support/admin/issues/1", map[string]any{"status": "open"})
	apitest.Decode(t, w, &issue)
	assert.Nil(t, issue.ResolvedAt, "reopening clears resolved_at")

	assert.Equal(t, http.StatusBadRequest, apitest.Do(r, http.MethodPut, "/api/support/admin/issues/1", map[string]any{"status": "done"}).Code)
	assert.Equal(t, http.StatusNotFound, apitest.Do(r, http.MethodPut, "/api/support/admin/issues/9", map[string]any{"status": "closed"}).Code)
}

func TestActivityFeed(t *testing.T) {
	fam := 3
	store := &fakeStore{issues: map[int]model.Issue{}, activity: []model.ActivityLog{
		{FamilyID: &fam, Action: "login"}, {Action: "issue_submitted"}, {FamilyID: &fam, Action: "task_created"},
	}}
	r := apitest.AdminRouter("/api/support/admin", &model.Admin{ID: 7, IsActive: true}, SupportAdminModule(store))

	var entries []model.ActivityLog
	apitest.Decode(t, apitest.Do(r, http.MethodGet, "/api/support/admin/activity?family_id=3", nil), &entries)
	assert.Len(t, entries, 2)
	apitest.Decode(t, apitest.Do(r, http.MethodGet, "/api/support/admin/activity?limit=1", nil), &entries)
	assert.Len(t, entries, 1)
}
