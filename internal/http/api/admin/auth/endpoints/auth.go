package endpoints

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/admin/auth/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

// AdminLoginModule mounts the public POST /login.
func AdminLoginModule(jwtSecret string, store db.Store) api.Module {
	ctl := newAccountManager(jwtSecret, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/login", ctl.login)
	})
}

// AdminAccountsModule manages admin accounts; mount it behind admin auth.
func AdminAccountsModule(jwtSecret string, store db.Store) api.Module {
	ctl := newAccountManager(jwtSecret, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.ADMIN_GET("/me", ctl.me)
		c.ADMIN_GET("/admins", ctl.listAdmins)
		c.ADMIN_POST("/admins", ctl.createAdmin)
		c.ADMIN_PUT("/admins/:id", ctl.updateAdmin)
		c.ADMIN_DELETE("/admins/:id", ctl.deleteAdmin)
	})
}

type AccountManager struct {
	jwtSecret string
	store     db.Store
	now       func() time.Time
}

func newAccountManager(secret string, store db.Store) *AccountManager {
	return &AccountManager{jwtSecret: secret, store: store, now: time.Now}
}

// POST /api/admin/login
func (a *AccountManager) login(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}

	admin, err := a.store.GetAdminByEmail(strings.TrimSpace(request.Email))
	if err != nil || !middleware.CheckPassword(admin.HashedPassword, request.Password) {
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			log.Error().Err(err).Msg("admin lookup failed")
		}
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	}
	if !admin.IsActive {
		return nil, api.Forbidden("Admin account is disabled")
	}

	now := a.now().UTC()
	if err := a.store.TouchAdminLogin(admin.ID, now); err != nil {
		log.Warn().Err(err).Int("admin_id", admin.ID).Msg("failed to record admin login")
	}
	admin.LastLoginAt = &now

	token, err := middleware.GenerateAdminJWT(admin.ID, a.jwtSecret)
	if err != nil {
		return nil, api.Internal(err, "admin.GenerateAdminJWT")
	}
	log.Info().Int("admin_id", admin.ID).Msg("admin signed in")
	return packets.LoginResponse{AccessToken: token, TokenType: "bearer", Admin: admin}, nil
}

// GET /api/admin/me
func (a *AccountManager) me(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	return admin, nil
}

// GET /api/admin/admins
func (a *AccountManager) listAdmins(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	admins, err := a.store.ListAdmins()
	if err != nil {
		return nil, api.Internal(err, "admin.ListAdmins")
	}
	return admins, nil
}

// POST /api/admin/admins
func (a *AccountManager) createAdmin(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	var request packets.CreateAdminRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if existing, err := a.store.GetAdminByEmail(request.Email); err == nil && existing != nil {
		return nil, api.BadRequest("Admin with this email already exists")
	}
	hashed, err := middleware.HashPassword(request.Password)
	if err != nil {
		return nil, api.Internal(err, "admin.HashPassword")
	}
	created, err := a.store.CreateAdmin(&model.Admin{Email: request.Email, Name: request.Name, HashedPassword: hashed})
	if err != nil {
		return nil, api.Internal(err, "admin.CreateAdmin")
	}
	log.Info().Int("admin_id", admin.ID).Int("created_id", created.ID).Msg("admin account created")
	return api.Created(created), nil
}

// PUT /api/admin/admins/:id
func (a *AccountManager) updateAdmin(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.UpdateAdminRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	target, err := a.store.GetAdminByID(id)
	if err != nil {
		return nil, api.StoreError(err, "Admin not found", "admin.GetAdminByID")
	}

	if request.Email != nil && !strings.EqualFold(*request.Email, target.Email) {
		if other, err := a.store.GetAdminByEmail(*request.Email); err == nil && other.ID != id {
			return nil, api.BadRequest("Email already in use by another admin")
		}
		target.Email = *request.Email
	}
	if request.Name != nil {
		target.Name = *request.Name
	}
	if request.Password != nil {
		hashed, err := middleware.HashPassword(*request.Password)
		if err != nil {
			return nil, api.Internal(err, "admin.HashPassword")
		}
		target.HashedPassword = hashed
	}
	if request.IsActive != nil {
		if !*request.IsActive && id == admin.ID {
			return nil, api.BadRequest("You cannot disable your own account")
		}
		target.IsActive = *request.IsActive
	}

	updated, err := a.store.UpdateAdmin(target)
	if err != nil {
		return nil, api.StoreError(err, "Admin not found", "admin.UpdateAdmin")
	}
	return updated, nil
}

// DELETE /api/admin/admins/:id
func (a *AccountManager) deleteAdmin(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if id == admin.ID {
		return nil, api.BadRequest("You cannot delete your own account")
	}
	if err := a.store.DeleteAdmin(id); err != nil {
		return nil, api.StoreError(err, "Admin not found", "admin.DeleteAdmin")
	}
	log.Info().Int("admin_id", admin.ID).Int("deleted_id", id).Msg("admin account deleted")
	return gin.H{"message": "Admin deleted successfully"}, nil
}
