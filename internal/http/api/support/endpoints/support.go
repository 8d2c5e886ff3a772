package endpoints

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/support/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const maxUserAgent = 500

type SupportController struct {
	store db.Store
	now   func() time.Time
}

func newSupportController(store db.Store) *SupportController {
	return &SupportController{store: store, now: time.Now}
}

// SupportModule takes issue reports. Mount it behind middleware.OptionalJWT so
// signed-in users get their issues linked while anonymous reports still work.
func SupportModule(store db.Store) api.Module {
	ctl := newSupportController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/issues", ctl.createIssue)
		c.GET("/my-issues", ctl.myIssues)
	})
}

// SupportAdminModule is the admin triage side, mounted behind admin auth.
func SupportAdminModule(store db.Store) api.Module {
	ctl := newSupportController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.ADMIN_GET("/issues", ctl.listIssues)
		c.ADMIN_PUT("/issues/:id", ctl.updateIssue)
		c.ADMIN_GET("/activity", ctl.activity)
	})
}

func clientIP(ctx *gin.Context) *string {
	if ip := ctx.ClientIP(); ip != "" {
		return &ip
	}
	return nil
}

// POST /api/support/issues
func (s *SupportController) createIssue(ctx *gin.Context) (any, *api.APIError) {
	var request packets.CreateIssueRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	issue := &model.Issue{
		Subject:      strings.TrimSpace(request.Subject),
		Description:  request.Description,
		Category:     request.Category,
		Priority:     request.Priority,
		ContactEmail: request.ContactEmail,
	}
	if issue.Category == "" {
		issue.Category = "other"
	}
	if issue.Priority == "" {
		issue.Priority = "medium"
	}
	user, signedIn := middleware.GetCurrentUser(ctx)
	if signedIn {
		issue.UserID = &user.ID
		issue.FamilyID = user.FamilyID
		if issue.ContactEmail == nil {
			issue.ContactEmail = user.Email
		}
	}

	created, err := s.store.CreateIssue(issue)
	if err != nil {
		return nil, api.Internal(err, "support.CreateIssue")
	}

	details := "Issue: " + created.Subject
	entry := &model.ActivityLog{FamilyID: issue.FamilyID, UserID: issue.UserID, Action: "issue_submitted", Details: &details, IPAddress: clientIP(ctx)}
	if ua := ctx.GetHeader("User-Agent"); ua != "" {
		if len(ua) > maxUserAgent {
			ua = ua[:maxUserAgent]
		}
		entry.UserAgent = &ua
	}
	if err := s.store.LogActivity(entry); err != nil {
		log.Warn().Err(err).Int("issue_id", created.ID).Msg("failed to log issue activity")
	}
	return api.Created(created), nil
}

// GET /api/support/my-issues
func (s *SupportController) myIssues(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	issues, err := s.store.ListIssuesByUser(user.ID)
	if err != nil {
		return nil, api.Internal(err, "support.ListIssuesByUser")
	}
	return issues, nil
}

// GET /api/support/admin/issues?status=
func (s *SupportController) listIssues(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	issues, err := s.store.ListIssues(api.QueryString(ctx, "status"))
	if err != nil {
		return nil, api.Internal(err, "support.ListIssues")
	}
	return issues, nil
}

// PUT /api/support/admin/issues/:id
func (s *SupportController) updateIssue(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.UpdateIssueRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	issue, err := s.store.GetIssue(id)
	if err != nil {
		return nil, api.StoreError(err, "Issue not found", "support.GetIssue")
	}

	if request.Status != nil {
		issue.Status = *request.Status
		switch issue.Status {
		case model.IssueResolved, model.IssueClosed:
			if issue.ResolvedAt == nil {
				now := s.now().UTC()
				issue.ResolvedAt = &now
			}
		default:
			issue.ResolvedAt = nil
		}
	}
	if request.Priority != nil {
		issue.Priority = *request.Priority
	}
	if request.AdminNotes != nil {
		issue.AdminNotes = request.AdminNotes
	}

	updated, err := s.store.UpdateIssue(issue)
	if err != nil {
		return nil, api.StoreError(err, "Issue not found", "support.UpdateIssue")
	}
	log.Info().Int("admin_id", admin.ID).Int("issue_id", id).Str("status", updated.Status).Msg("issue updated")
	return updated, nil
}

// GET /api/support/admin/activity?family_id=&limit=
func (s *SupportController) activity(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	familyID, apiErr := api.QueryInt(ctx, "family_id")
	if apiErr != nil {
		return nil, apiErr
	}
	limit, apiErr := api.QueryInt(ctx, "limit")
	if apiErr != nil {
		return nil, apiErr
	}
	n := 50
	if limit != nil && *limit > 0 && *limit <= 200 {
		n = *limit
	}
	entries, err := s.store.ListActivity(familyID, n)
	if err != nil {
		return nil, api.Internal(err, "support.ListActivity")
	}
	return entries, nil
}
