package endpoints

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/apitest"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/auth/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const secret = "test-secret"

type fakeStore struct {
	db.Store
	users   map[int]*model.User
	nextID  int
	points    int
	updated   *model.User
	lookupErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[int]*model.User{}, nextID: 1, points: 25}
}

func (f *fakeStore) add(u model.User) *model.User {
	u.ID = f.nextID
	f.nextID++
	f.users[u.ID] = &u
	return &u
}

func (f *fakeStore) CreateUser(u *model.User) (*model.User, error) { return f.add(*u), nil }

func (f *fakeStore) GetUserByID(id int) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) GetUserByEmail(email string) (*model.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.users {
		if u.Email != nil && *u.Email == email {
			return u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) GetUserByUsername(username string) (*model.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, u := range f.users {
		if u.Username != nil && *u.Username == username {
			return u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) GetFamilyMember(familyID, userID int) (*model.User, error) {
	if u, ok := f.users[userID]; ok && u.InFamily(familyID) {
		return u, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) UpdateUser(u *model.User) error {
	cp := *u
	f.users[u.ID] = &cp
	f.updated = &cp
	return nil
}

func (f *fakeStore) TotalPoints(int) (int, error) { return f.points, nil }

func TestRegisterAndLogin(t *testing.T) {
	store := newFakeStore()
	r := apitest.Router("/api/auth", nil, AuthPublicModule(secret, store))

	w := apitest.Do(r, http.MethodPost, "/api/auth/register", map[string]any{
		"name": "Yusuf", "username": "yusuf", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var reg packets.TokenResponse
	apitest.Decode(t, w, &reg)
	assert.Equal(t, "bearer", reg.TokenType)
	assert.Equal(t, model.RoleChild, reg.User.Role)
	assert.Equal(t, 25, reg.User.TotalPoints)

	claims, err := middleware.ParseToken(reg.AccessToken, secret)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.Subject)

	w = apitest.Do(r, http.MethodPost, "/api/auth/register", map[string]any{
		"name": "Other", "username": "yusuf", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username already taken", apitest.ErrorOf(t, w))

	w = apitest.Do(r, http.MethodPost, "/api/auth/login", map[string]any{
		"username": "yusuf", "password": "secret1",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = apitest.Do(r, http.MethodPost, "/api/auth/login", map[string]any{
		"username": "yusuf", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", apitest.ErrorOf(t, w))
}

func TestLoginRejectsUnverifiedEmail(t *testing.T) {
	store := newFakeStore()
	hashed, err := middleware.HashPassword("secret1")
	require.NoError(t, err)
	store.add(model.User{Name: "Amina", Email: apitest.StrPtr("amina@example.com"), HashedPassword: hashed, Role: model.RoleParent})

	r := apitest.Router("/api/auth", nil, AuthPublicModule(secret, store))
	w := apitest.Do(r, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "amina@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, apitest.ErrorOf(t, w), "Email not verified")
}

func TestLoginRequiresIdentifier(t *testing.T) {
	r := apitest.Router("/api/auth", nil, AuthPublicModule(secret, newFakeStore()))
	w := apitest.Do(r, http.MethodPost, "/api/auth/login", map[string]any{"password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe(t *testing.T) {
	store := newFakeStore()
	me := store.add(*apitest.Parent(0, 3))
	r := apitest.Router("/api/auth", me, AuthSessionModule(secret, store))

	w := apitest.Do(r, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body packets.UserResponse
	apitest.Decode(t, w, &body)
	assert.Equal(t, me.ID, body.ID)
	assert.Equal(t, 25, body.TotalPoints)
}

func TestUpdateUser(t *testing.T) {
	t.Run("parent updates child in family", func(t *testing.T) {
		store := newFakeStore()
		parent := store.add(*apitest.Parent(0, 3))
		child := store.add(*apitest.Child(0, 3))
		r := apitest.Router("/api/auth", parent, AuthSessionModule(secret, store))

		w := apitest.Do(r, http.MethodPut, "/api/auth/users/2", map[string]any{"grade": "5", "password": "newpass"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NotNil(t, store.updated)
		assert.Equal(t, child.ID, store.updated.ID)
		assert.Equal(t, "5", *store.updated.Grade)
		assert.True(t, middleware.CheckPassword(store.updated.HashedPassword, "newpass"))
	})

	t.Run("child cannot update sibling", func(t *testing.T) {
		store := newFakeStore()
		child := store.add(*apitest.Child(0, 3))
		store.add(*apitest.Child(0, 3))
		r := apitest.Router("/api/auth", child, AuthSessionModule(secret, store))

		w := apitest.Do(r, http.MethodPut, "/api/auth/users/2", map[string]any{"name": "x"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("parent cannot reach other family", func(t *testing.T) {
		store := newFakeStore()
		parent := store.add(*apitest.Parent(0, 3))
		store.add(*apitest.Child(0, 4))
		r := apitest.Router("/api/auth", parent, AuthSessionModule(secret, store))

		w := apitest.Do(r, http.MethodPut, "/api/auth/users/2", map[string]any{"name": "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("username taken", func(t *testing.T) {
		store := newFakeStore()
		me := store.add(*apitest.Child(0, 3))
		other := *apitest.Child(0, 3)
		other.Username = apitest.StrPtr("taken")
		store.add(other)
		r := apitest.Router("/api/auth", me, AuthSessionModule(secret, store))

		w := apitest.Do(r, http.MethodPut, "/api/auth/users/1", map[string]any{"username": "taken"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Username already taken", apitest.ErrorOf(t, w))
	})

	t.Run("new email needs verifying again", func(t *testing.T) {
		store := newFakeStore()
		u := *apitest.Parent(0, 3)
		u.Email = apitest.StrPtr("old@example.com")
		u.IsEmailVerified = true
		me := store.add(u)
		r := apitest.Router("/api/auth", me, AuthSessionModule(secret, store))

		w := apitest.Do(r, http.MethodPut, "/api/auth/users/1", map[string]any{"email": "OLD@example.com", "name": "Sara"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.True(t, store.updated.IsEmailVerified)

		w = apitest.Do(r, http.MethodPut, "/api/auth/users/1", map[string]any{"email": "new@example.com"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "new@example.com", *store.updated.Email)
		assert.False(t, store.updated.IsEmailVerified)
	})

	t.Run("lookup failure", func(t *testing.T) {
		store := newFakeStore()
		me := store.add(*apitest.Child(0, 3))
		store.lookupErr = errors.New("connection reset")
		r := apitest.Router("/api/auth", me, AuthSessionModule(secret, store))

		w := apitest.Do(r, http.MethodPut, "/api/auth/users/1", map[string]any{"username": "free"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Nil(t, store.updated)
	})
}

func TestRegisterLookupFailure(t *testing.T) {
	store := newFakeStore()
	store.lookupErr = errors.New("connection reset")
	r := apitest.Router("/api/auth", nil, AuthPublicModule(secret, store))

	for _, body := range []map[string]any{
		{"name": "Yusuf", "username": "yusuf", "password": "secret1"},
		{"name": "Yusuf", "email": "yusuf@example.com", "password": "secret1"},
	} {
		w := apitest.Do(r, http.MethodPost, "/api/auth/register", body)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	}
	assert.Empty(t, store.users)
}
