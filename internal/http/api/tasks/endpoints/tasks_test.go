package endpoints

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/apitest"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/tasks/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
	"github.com/Nixie-Tech-LLC/familyhub/internal/notify"
)

type fakeStore struct {
	db.Store
	members  map[int]int // user id -> family id
	tasks    map[int]*model.Task
	rewards  map[int]*model.Reward
	balance  map[int]int
	filter   model.TaskFilter
	redeemed []int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		members: map[int]int{1: 3, 2: 3, 9: 4},
		tasks:   map[int]*model.Task{},
		rewards: map[int]*model.Reward{
			1: {ID: 1, FamilyID: 3, Name: "Ice cream", PointsRequired: 30, IsAvailable: true},
			2: {ID: 2, FamilyID: 3, Name: "Retired", PointsRequired: 5, IsAvailable: false},
		},
		balance: map[int]int{1: 100, 2: 10},
	}
}

func (f *fakeStore) GetFamilyMember(familyID, userID int) (*model.User, error) {
	if fam, ok := f.members[userID]; ok && fam == familyID {
		return &model.User{ID: userID, FamilyID: &fam}, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) ListTasks(familyID int, filter model.TaskFilter) ([]model.Task, error) {
	f.filter = filter
	var out []model.Task
	for _, t := range f.tasks {
		if t.FamilyID == familyID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeStore) GetTask(familyID, id int) (*model.Task, error) {
	if t, ok := f.tasks[id]; ok && t.FamilyID == familyID {
		cp := *t
		return &cp, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) CreateTask(t *model.Task) (*model.Task, error) {
	t.ID = len(f.tasks) + 1
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeStore) UpdateTask(t *model.Task) (*model.Task, error) {
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeStore) DeleteTask(familyID, id int) error {
	if _, err := f.GetTask(familyID, id); err != nil {
		return err
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeStore) CompleteTask(familyID, id int, at time.Time) (*model.Task, error) {
	t, ok := f.tasks[id]
	if !ok || t.FamilyID != familyID {
		return nil, db.ErrNotFound
	}
	if t.Status == model.TaskCompleted || t.Status == model.TaskVerified {
		return nil, db.ErrAlreadyCompleted
	}
	t.Status = model.TaskCompleted
	t.CompletedAt = &at
	f.balance[t.AssignedTo] += t.Points
	return t, nil
}

func (f *fakeStore) VerifyTask(familyID, id int) (*model.Task, error) {
	t, ok := f.tasks[id]
	if !ok || t.FamilyID != familyID {
		return nil, db.ErrNotFound
	}
	t.Status = model.TaskVerified
	return t, nil
}

func (f *fakeStore) TotalPoints(userID int) (int, error) { return f.balance[userID], nil }

func (f *fakeStore) RecentPoints(userID, limit int) ([]model.PointsEntry, error) {
	return []model.PointsEntry{{UserID: userID, Points: f.balance[userID], Reason: "seed"}}, nil
}

func (f *fakeStore) ListRewards(familyID int) ([]model.Reward, error) {
	var out []model.Reward
	for _, r := range f.rewards {
		if r.FamilyID == familyID && r.IsAvailable {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) GetReward(familyID, id int) (*model.Reward, error) {
	if r, ok := f.rewards[id]; ok && r.FamilyID == familyID {
		return r, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) CreateReward(r *model.Reward) (*model.Reward, error) {
	r.ID = 10
	return r, nil
}

func (f *fakeStore) RedeemReward(userID int, r *model.Reward) (*model.RewardRedemption, error) {
	if f.balance[userID] < r.PointsRequired {
		return nil, db.ErrInsufficientPoints
	}
	f.balance[userID] -= r.PointsRequired
	f.redeemed = append(f.redeemed, r.ID)
	return &model.RewardRedemption{UserID: userID, RewardID: r.ID, PointsSpent: r.PointsRequired}, nil
}

func setup(user *model.User, flags apitest.Flags) (*fakeStore, *apitest.Publisher, http.Handler) {
	store := newFakeStore()
	pub := &apitest.Publisher{}
	return store, pub, apitest.Router("/api/tasks", user, TasksModule(store, flags, pub))
}

func TestCreateAndCompleteTask(t *testing.T) {
	store, pub, r := setup(apitest.Parent(1, 3), nil)

	w := apitest.Do(r, http.MethodPost, "/api/tasks", map[string]any{"title": "Tidy room", "assigned_to": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var task model.Task
	apitest.Decode(t, w, &task)
	assert.Equal(t, model.DefaultTaskPoints, task.Points)
	assert.Equal(t, model.TaskPending, task.Status)
	assert.Equal(t, "other", task.Category)

	w = apitest.Do(r, http.MethodPost, "/api/tasks/1/complete", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 20, store.balance[2])

	w = apitest.Do(r, http.MethodPost, "/api/tasks/1/complete", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 20, store.balance[2], "no double credit")

	w = apitest.Do(r, http.MethodPost, "/api/tasks/1/verify", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.TaskVerified, store.tasks[1].Status)

	assert.Eventually(t, func() bool { return len(pub.Types()) == 3 }, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t,
		[]string{notify.EventTaskCreated, notify.EventTaskCompleted, notify.EventTaskVerified},
		pub.Types())
}

func TestCreateTaskRejectsOutsider(t *testing.T) {
	_, _, r := setup(apitest.Parent(1, 3), nil)
	w := apitest.Do(r, http.MethodPost, "/api/tasks", map[string]any{"title": "x", "assigned_to": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid assignee - must be a family member", apitest.ErrorOf(t, w))
}

func TestListTasksFilters(t *testing.T) {
	store, _, r := setup(apitest.Parent(1, 3), nil)
	w := apitest.Do(r, http.MethodGet, "/api/tasks?assigned_to=2&status=pending&due_date=2025-03-01", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, store.filter.AssignedTo)
	assert.Equal(t, 2, *store.filter.AssignedTo)
	assert.Equal(t, "pending", *store.filter.Status)
	assert.Nil(t, store.filter.Category)
	assert.Equal(t, "2025-03-01", store.filter.DueDate.Format("2006-01-02"))
	assert.JSONEq(t, "[]", w.Body.String())

	w = apitest.Do(r, http.MethodGet, "/api/tasks?due_date=tomorrow", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTask(t *testing.T) {
	store, _, r := setup(apitest.Parent(1, 3), nil)
	store.tasks[1] = &model.Task{ID: 1, FamilyID: 3, Title: "Old", AssignedTo: 2, Points: 5, Status: model.TaskPending}
	store.tasks[2] = &model.Task{ID: 2, FamilyID: 4, Title: "Theirs", AssignedTo: 9}

	w := apitest.Do(r, http.MethodPut, "/api/tasks/1", map[string]any{"title": "New", "points": 15})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "New", store.tasks[1].Title)
	assert.Equal(t, 15, store.tasks[1].Points)
	assert.Equal(t, 2, store.tasks[1].AssignedTo)

	w = apitest.Do(r, http.MethodPut, "/api/tasks/1", map[string]any{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = apitest.Do(r, http.MethodPut, "/api/tasks/2", map[string]any{"title": "mine now"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, http.StatusOK, apitest.Do(r, http.MethodDelete, "/api/tasks/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, apitest.Do(r, http.MethodDelete, "/api/tasks/1", nil).Code)
}

func TestVerifyRequiresParent(t *testing.T) {
	store, _, r := setup(apitest.Child(2, 3), nil)
	store.tasks[1] = &model.Task{ID: 1, FamilyID: 3, AssignedTo: 2, Status: model.TaskCompleted}
	w := apitest.Do(r, http.MethodPost, "/api/tasks/1/verify", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateTaskCannotCompleteOrVerify(t *testing.T) {
	store, _, r := setup(apitest.Child(2, 3), nil)
	store.tasks[1] = &model.Task{ID: 1, FamilyID: 3, AssignedTo: 2, Points: 10, Status: model.TaskPending}

	for _, status := range []string{model.TaskVerified, model.TaskCompleted} {
		w := apitest.Do(r, http.MethodPut, "/api/tasks/1", map[string]any{"status": status})
		assert.Equal(t, http.StatusBadRequest, w.Code, status)
	}
	assert.Equal(t, model.TaskPending, store.tasks[1].Status)
	assert.Equal(t, 10, store.balance[2])

	w := apitest.Do(r, http.MethodPut, "/api/tasks/1", map[string]any{"status": "in_progress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, model.TaskInProgress, store.tasks[1].Status)
}

func TestCompletedTaskCreditedOnce(t *testing.T) {
	store, _, r := setup(apitest.Parent(1, 3), nil)
	store.tasks[1] = &model.Task{ID: 1, FamilyID: 3, AssignedTo: 2, Points: 10, Status: model.TaskPending}

	require.Equal(t, http.StatusOK, apitest.Do(r, http.MethodPost, "/api/tasks/1/complete", nil).Code)
	assert.Equal(t, 20, store.balance[2])

	w := apitest.Do(r, http.MethodPut, "/api/tasks/1", map[string]any{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Status of a completed task cannot be changed", apitest.ErrorOf(t, w))
	assert.Equal(t, model.TaskCompleted, store.tasks[1].Status)

	assert.Equal(t, http.StatusBadRequest, apitest.Do(r, http.MethodPost, "/api/tasks/1/complete", nil).Code)
	assert.Equal(t, 20, store.balance[2])

	// other fields stay editable
	w = apitest.Do(r, http.MethodPut, "/api/tasks/1", map[string]any{"title": "Renamed", "status": "completed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = apitest.Do(r, http.MethodPut, "/api/tasks/1", map[string]any{"title": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Renamed", store.tasks[1].Title)
}

func TestPoints(t *testing.T) {
	_, _, r := setup(apitest.Parent(1, 3), nil)

	w := apitest.Do(r, http.MethodGet, "/api/tasks/points/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp packets.PointsResponse
	apitest.Decode(t, w, &resp)
	assert.Equal(t, 10, resp.TotalPoints)
	assert.Len(t, resp.RecentHistory, 1)

	w = apitest.Do(r, http.MethodGet, "/api/tasks/points/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found in your family", apitest.ErrorOf(t, w))
}

func TestRewards(t *testing.T) {
	t.Run("redeem debits balance", func(t *testing.T) {
		store, _, r := setup(apitest.Parent(1, 3), nil)
		w := apitest.Do(r, http.MethodPost, "/api/tasks/rewards/1/redeem", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp packets.RedeemResponse
		apitest.Decode(t, w, &resp)
		assert.Equal(t, 70, resp.RemainingPoints)
		assert.Equal(t, []int{1}, store.redeemed)
	})

	t.Run("insufficient points", func(t *testing.T) {
		_, _, r := setup(apitest.Child(2, 3), nil)
		w := apitest.Do(r, http.MethodPost, "/api/tasks/rewards/1/redeem", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Not enough points", apitest.ErrorOf(t, w))
	})

	t.Run("unavailable", func(t *testing.T) {
		_, _, r := setup(apitest.Parent(1, 3), nil)
		w := apitest.Do(r, http.MethodPost, "/api/tasks/rewards/2/redeem", nil)
		assert.Equal(t, "Reward not available", apitest.ErrorOf(t, w))
	})

	t.Run("create validates", func(t *testing.T) {
		_, _, r := setup(apitest.Parent(1, 3), nil)
		w := apitest.Do(r, http.MethodPost, "/api/tasks/rewards", map[string]any{"name": " ", "points_required": 5})
		assert.Equal(t, "Reward name is required", apitest.ErrorOf(t, w))
		w = apitest.Do(r, http.MethodPost, "/api/tasks/rewards", map[string]any{"name": "Movie", "points_required": 0})
		assert.Equal(t, "Points required must be greater than 0", apitest.ErrorOf(t, w))
		w = apitest.Do(r, http.MethodPost, "/api/tasks/rewards", map[string]any{"name": "Movie", "points_required": 50})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("children cannot create", func(t *testing.T) {
		_, _, r := setup(apitest.Child(2, 3), nil)
		w := apitest.Do(r, http.MethodPost, "/api/tasks/rewards", map[string]any{"name": "Movie", "points_required": 50})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestFeatureGate(t *testing.T) {
	_, _, r := setup(apitest.Parent(1, 3), apitest.Flags{model.FeatureTasks: false})

	w := apitest.Do(r, http.MethodGet, "/api/tasks", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "feature disabled", apitest.ErrorOf(t, w))

	w = apitest.Do(r, http.MethodGet, "/api/tasks/rewards", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
