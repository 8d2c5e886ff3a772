package endpoints

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Features is the flag service as the admin console needs it; *features.Service satisfies it.
type Features interface {
	Flags(ctx context.Context, familyID int) (map[string]bool, error)
	Set(ctx context.Context, familyID int, flags map[string]bool) error
}

type FamiliesController struct {
	store    db.Store
	features Features
	now      func() time.Time
}

func newFamiliesController(store db.Store, features Features) *FamiliesController {
	return &FamiliesController{store: store, features: features, now: time.Now}
}

// FamiliesModule is the admin console over tenants; mount it behind admin auth.
func FamiliesModule(store db.Store, features Features) api.Module {
	return newFamiliesController(store, features).module()
}

func (f *FamiliesController) module() api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.ADMIN_GET("/dashboard", f.dashboard)
		c.ADMIN_GET("/features", f.catalogue)

		c.ADMIN_GET("/families", f.listFamilies)
		c.ADMIN_GET("/families/:id", f.getFamily)
		c.ADMIN_PUT("/families/:id/status", f.setStatus)
		c.ADMIN_PUT("/families/:id/verify", f.verifyFamily)
		c.ADMIN_PUT("/families/:id/features", f.setFeatures)
		c.ADMIN_PUT("/families/:id/ai-limits", f.setAILimits)
		c.ADMIN_GET("/families/:id/usage", f.usage)

		c.ADMIN_PUT("/users/:id/verify", f.verifyUser)
	})
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (f *FamiliesController) family(ctx *gin.Context) (*model.Family, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	family, err := f.store.GetFamilyByID(id)
	if err != nil {
		return nil, api.StoreError(err, "Family not found", "admin.GetFamilyByID")
	}
	return family, nil
}

// aiLimit returns the stored limit, or the signup default when none was saved.
func (f *FamiliesController) aiLimit(familyID int) (*model.FamilyAILimit, error) {
	limit, err := f.store.GetAILimit(familyID)
	if errors.Is(err, db.ErrNotFound) {
		return &model.FamilyAILimit{FamilyID: familyID, MonthlyTokenLimit: model.DefaultMonthlyTokenLimit, IsAIEnabled: true}, nil
	}
	return limit, err
}

// GET /api/admin/dashboard
func (f *FamiliesController) dashboard(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	stats, err := f.store.DashboardStats(monthStart(f.now()))
	if err != nil {
		return nil, api.Internal(err, "admin.DashboardStats")
	}
	return stats, nil
}

// GET /api/admin/features
func (f *FamiliesController) catalogue(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	return model.AvailableFeatures, nil
}

// GET /api/admin/families?page=&page_size=&search=&is_active=
func (f *FamiliesController) listFamilies(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	page, apiErr := api.QueryInt(ctx, "page")
	if apiErr != nil {
		return nil, apiErr
	}
	size, apiErr := api.QueryInt(ctx, "page_size")
	if apiErr != nil {
		return nil, apiErr
	}
	filter := db.FamilyFilter{Page: 1, PageSize: defaultPageSize}
	if page != nil {
		if *page < 1 {
			return nil, api.BadRequest("page must be at least 1")
		}
		filter.Page = *page
	}
	if size != nil {
		if *size < 1 || *size > maxPageSize {
			return nil, api.BadRequest("page_size must be between 1 and 100")
		}
		filter.PageSize = *size
	}
	if search := api.QueryString(ctx, "search"); search != nil {
		filter.Search = *search
	}
	if raw := api.QueryString(ctx, "is_active"); raw != nil {
		active := api.QueryBool(ctx, "is_active")
		filter.IsActive = &active
	}

	families, total, err := f.store.ListFamilies(filter)
	if err != nil {
		return nil, api.Internal(err, "admin.ListFamilies")
	}
	return packets.FamilyList{Families: families, Total: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}

// GET /api/admin/families/:id
func (f *FamiliesController) getFamily(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	family, apiErr := f.family(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	users, err := f.store.ListFamilyMembers(family.ID)
	if err != nil {
		return nil, api.Internal(err, "admin.ListFamilyMembers")
	}
	members := make([]packets.FamilyMember, 0, len(users))
	for _, u := range users {
		members = append(members, packets.FamilyMember{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, IsEmailVerified: u.IsEmailVerified})
	}
	flags, err := f.features.Flags(ctx.Request.Context(), family.ID)
	if err != nil {
		return nil, api.Internal(err, "admin.Flags")
	}
	limit, err := f.aiLimit(family.ID)
	if err != nil {
		return nil, api.Internal(err, "admin.GetAILimit")
	}
	used, err := f.store.TokensUsedSince(family.ID, monthStart(f.now()))
	if err != nil {
		return nil, api.Internal(err, "admin.TokensUsedSince")
	}
	return packets.FamilyDetail{Family: family, Members: members, Features: flags, AILimit: limit, MonthTokensUsed: used}, nil
}

// PUT /api/admin/families/:id/status
func (f *FamiliesController) setStatus(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	family, apiErr := f.family(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.FamilyStatusRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if err := f.store.SetFamilyActive(family.ID, *request.IsActive); err != nil {
		return nil, api.StoreError(err, "Family not found", "admin.SetFamilyActive")
	}
	state := "deactivated"
	if *request.IsActive {
		state = "activated"
	}
	log.Info().Int("admin_id", admin.ID).Int("family_id", family.ID).Str("state", state).Msg("family status changed")
	return gin.H{"message": "Family " + state + " successfully"}, nil
}

// PUT /api/admin/families/:id/verify verifies the family and its owner without email.
func (f *FamiliesController) verifyFamily(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	family, apiErr := f.family(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := f.store.MarkFamilyVerified(family.ID); err != nil {
		return nil, api.StoreError(err, "Family not found", "admin.MarkFamilyVerified")
	}
	owner, err := f.store.GetUserByEmail(family.OwnerEmail)
	switch {
	case err == nil && owner.InFamily(family.ID):
		if err := f.store.MarkUserEmailVerified(owner.ID); err != nil {
			return nil, api.Internal(err, "admin.MarkUserEmailVerified")
		}
	case err != nil && !errors.Is(err, db.ErrNotFound):
		return nil, api.Internal(err, "admin.GetUserByEmail")
	}
	return gin.H{"message": "Family and owner verified successfully"}, nil
}

// PUT /api/admin/users/:id/verify
func (f *FamiliesController) verifyUser(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	user, err := f.store.GetUserByID(id)
	if err != nil {
		return nil, api.StoreError(err, "User not found", "admin.GetUserByID")
	}
	if err := f.store.MarkUserEmailVerified(user.ID); err != nil {
		return nil, api.StoreError(err, "User not found", "admin.MarkUserEmailVerified")
	}
	label := user.Name
	if user.Email != nil {
		label = *user.Email
	} else if user.Username != nil {
		label = *user.Username
	}
	return gin.H{"message": "User " + label + " verified successfully"}, nil
}

// PUT /api/admin/families/:id/features
func (f *FamiliesController) setFeatures(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	family, apiErr := f.family(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.FamilyFeaturesRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	for key := range request.Features {
		if !model.IsKnownFeature(key) {
			return nil, api.BadRequest("Unknown feature: " + key)
		}
	}
	if err := f.features.Set(ctx.Request.Context(), family.ID, request.Features); err != nil {
		return nil, api.Internal(err, "admin.SetFeatures")
	}
	flags, err := f.features.Flags(ctx.Request.Context(), family.ID)
	if err != nil {
		return nil, api.Internal(err, "admin.Flags")
	}
	return gin.H{"message": "Features updated successfully", "features": flags}, nil
}

// PUT /api/admin/families/:id/ai-limits
func (f *FamiliesController) setAILimits(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	family, apiErr := f.family(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.AILimitsRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	limit, err := f.aiLimit(family.ID)
	if err != nil {
		return nil, api.Internal(err, "admin.GetAILimit")
	}
	limit.MonthlyTokenLimit = request.MonthlyTokenLimit
	if request.MonthlyCostLimit != nil {
		if request.MonthlyCostLimit.IsNegative() {
			return nil, api.BadRequest("monthly_cost_limit_usd cannot be negative")
		}
		limit.MonthlyCostLimit = *request.MonthlyCostLimit
	}
	if request.IsAIEnabled != nil {
		limit.IsAIEnabled = *request.IsAIEnabled
	}
	saved, err := f.store.UpsertAILimit(limit)
	if err != nil {
		return nil, api.Internal(err, "admin.UpsertAILimit")
	}
	return saved, nil
}

// GET /api/admin/families/:id/usage
func (f *FamiliesController) usage(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	family, apiErr := f.family(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	report, err := f.store.UsageReport(family.ID, monthStart(f.now()))
	if err != nil {
		return nil, api.Internal(err, "admin.UsageReport")
	}
	limit, err := f.aiLimit(family.ID)
	if err != nil {
		return nil, api.Internal(err, "admin.GetAILimit")
	}
	out := packets.Usage{UsageReport: report, FamilyName: family.Name, MonthlyLimit: limit.MonthlyTokenLimit}
	if limit.MonthlyTokenLimit > 0 {
		out.UsagePercentage = math.Round(float64(report.MonthTokens)/float64(limit.MonthlyTokenLimit)*10000) / 100
	}
	return out, nil
}
