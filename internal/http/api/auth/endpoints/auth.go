package endpoints

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/auth/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

type AccountManager struct {
	jwtSecret string
	store     db.Store
}

func accountManagementController(secret string, store db.Store) *AccountManager {
	return &AccountManager{jwtSecret: secret, store: store}
}

// AuthPublicModule mounts register and login.
func AuthPublicModule(jwtSecret string, store db.Store) api.Module {
	ctl := accountManagementController(jwtSecret, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/register", ctl.register)
		c.PUBLIC_POST("/login", ctl.login)
	})
}

// AuthSessionModule mounts the endpoints that need a session.
func AuthSessionModule(jwtSecret string, store db.Store) api.Module {
	ctl := accountManagementController(jwtSecret, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/me", ctl.me)
		c.PUT("/users/:id", ctl.updateUser)
	})
}

func normalize(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (a *AccountManager) withPoints(u *model.User) (packets.UserResponse, *api.APIError) {
	total, err := a.store.TotalPoints(u.ID)
	if err != nil {
		return packets.UserResponse{}, api.Internal(err, "auth.totalPoints")
	}
	return packets.UserResponse{User: *u, TotalPoints: total}, nil
}

func (a *AccountManager) issue(u *model.User) (any, *api.APIError) {
	token, err := middleware.GenerateJWT(u, a.jwtSecret)
	if err != nil {
		return nil, api.Internal(err, "auth.GenerateJWT")
	}
	resp, apiErr := a.withPoints(u)
	if apiErr != nil {
		return nil, apiErr
	}
	return packets.TokenResponse{AccessToken: token, TokenType: "bearer", User: resp}, nil
}

// POST /api/auth/register
func (a *AccountManager) register(ctx *gin.Context) (any, *api.APIError) {
	var request packets.RegisterRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	request.Email = normalize(request.Email)
	request.Username = normalize(request.Username)

	if request.Email != nil {
		_, err := a.store.GetUserByEmail(*request.Email)
		if apiErr := api.Taken(err, "Email already registered", "auth.GetUserByEmail"); apiErr != nil {
			return nil, apiErr
		}
	}
	if request.Username != nil {
		_, err := a.store.GetUserByUsername(*request.Username)
		if apiErr := api.Taken(err, "Username already taken", "auth.GetUserByUsername"); apiErr != nil {
			return nil, apiErr
		}
	}

	hashed, err := middleware.HashPassword(request.Password)
	if err != nil {
		return nil, api.Internal(err, "auth.HashPassword")
	}
	role := request.Role
	if role == "" {
		role = model.RoleChild
	}

	user, err := a.store.CreateUser(&model.User{
		Name:           request.Name,
		Username:       request.Username,
		Email:          request.Email,
		HashedPassword: hashed,
		Role:           role,
		DOB:            request.DOB,
		School:         request.School,
		Grade:          request.Grade,
		Avatar:         request.Avatar,
	})
	if err != nil {
		return nil, api.Internal(err, "auth.CreateUser")
	}
	log.Info().Int("user_id", user.ID).Str("role", role).Msg("user registered")

	out, apiErr := a.issue(user)
	if apiErr != nil {
		return nil, apiErr
	}
	return api.Created(out), nil
}

// POST /api/auth/login
func (a *AccountManager) login(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}

	var (
		user *model.User
		err  error
	)
	switch {
	case normalize(request.Email) != nil:
		user, err = a.store.GetUserByEmail(*normalize(request.Email))
	case normalize(request.Username) != nil:
		user, err = a.store.GetUserByUsername(*normalize(request.Username))
	default:
		return nil, api.BadRequest("email or username is required")
	}
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, api.Internal(err, "auth.login")
	}
	if user == nil || !middleware.CheckPassword(user.HashedPassword, request.Password) {
		log.Warn().Msg("login failed: invalid credentials")
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	if user.Email != nil && !user.IsEmailVerified {
		return nil, api.Forbidden("Email not verified. Please check your email for the verification link.")
	}
	if user.FamilyActive != nil && !*user.FamilyActive {
		return nil, api.Forbidden("Family account is deactivated")
	}

	return a.issue(user)
}

// GET /api/auth/me
func (a *AccountManager) me(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	return a.withPoints(user)
}

// PUT /api/auth/users/:id
func (a *AccountManager) updateUser(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}

	target := user
	if id != user.ID {
		if !user.IsParent() || user.FamilyID == nil {
			return nil, api.Forbidden("You can only update your own profile")
		}
		member, err := a.store.GetFamilyMember(*user.FamilyID, id)
		if err != nil {
			return nil, api.StoreError(err, "User not found in your family", "auth.GetFamilyMember")
		}
		target = member
	}

	var request packets.UpdateUserRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}

	updated := *target
	if request.Name != nil {
		updated.Name = *request.Name
	}
	if u := normalize(request.Username); u != nil && (target.Username == nil || !strings.EqualFold(*u, *target.Username)) {
		other, err := a.store.GetUserByUsername(*u)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return nil, api.Internal(err, "auth.GetUserByUsername")
		}
		if other != nil && other.ID != target.ID {
			return nil, api.BadRequest("Username already taken")
		}
		updated.Username = u
	}
	if e := normalize(request.Email); e != nil && (target.Email == nil || !strings.EqualFold(*e, *target.Email)) {
		other, err := a.store.GetUserByEmail(*e)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return nil, api.Internal(err, "auth.GetUserByEmail")
		}
		if other != nil && other.ID != target.ID {
			return nil, api.BadRequest("Email already registered")
		}
		updated.Email = e
		// a new address has to be confirmed again
		updated.IsEmailVerified = false
	}
	if request.Password != nil {
		hashed, err := middleware.HashPassword(*request.Password)
		if err != nil {
			return nil, api.Internal(err, "auth.HashPassword")
		}
		updated.HashedPassword = hashed
	}
	if request.DOB != nil {
		updated.DOB = request.DOB
	}
	if request.School != nil {
		updated.School = request.School
	}
	if request.Grade != nil {
		updated.Grade = request.Grade
	}
	if request.Avatar != nil {
		updated.Avatar = request.Avatar
	}

	if err := a.store.UpdateUser(&updated); err != nil {
		return nil, api.Internal(err, "auth.UpdateUser")
	}
	fresh, err := a.store.GetUserByID(target.ID)
	if err != nil {
		return nil, api.StoreError(err, "User not found", "auth.GetUserByID")
	}
	return a.withPoints(fresh)
}
