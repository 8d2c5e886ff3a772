package endpoints

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/family/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
	"github.com/Nixie-Tech-LLC/familyhub/internal/notify"
)

const verificationTTL = 24 * time.Hour

// Mailer sends the account lifecycle emails.
type Mailer interface {
	VerificationEmail(name, email, familyName, token string) error
	WelcomeEmail(name, email, familyName string) error
	InviteEmail(name, email, familyName, invitedBy string) error
}

// FlagSource resolves a family's feature flags.
type FlagSource interface {
	Flags(ctx context.Context, familyID int) (map[string]bool, error)
}

type FamilyController struct {
	store    db.Store
	mailer   Mailer
	features FlagSource
	events   notify.Publisher
	now      func() time.Time
}

func newFamilyController(store db.Store, mailer Mailer, features FlagSource, events notify.Publisher) *FamilyController {
	return &FamilyController{store: store, mailer: mailer, features: features, events: events, now: time.Now}
}

// FamilyPublicModule mounts registration and email verification.
func FamilyPublicModule(store db.Store, mailer Mailer) api.Module {
	ctl := newFamilyController(store, mailer, nil, nil)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/register", ctl.register)
		c.PUBLIC_POST("/verify-email", ctl.verifyEmail)
		c.PUBLIC_POST("/resend-verification", ctl.resendVerification)
	})
}

func FamilyModule(store db.Store, mailer Mailer, features FlagSource, events notify.Publisher) api.Module {
	ctl := newFamilyController(store, mailer, features, events)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/me", ctl.getFamily)
		c.GET("/features", ctl.getFeatures)
		c.GET("/members", ctl.listMembers)
		c.POST("/members", ctl.addMember)
		c.DELETE("/members/:id", ctl.removeMember)
		c.GET("/dashboard", ctl.dashboard)
	})
}

// POST /api/family/register
func (f *FamilyController) register(ctx *gin.Context) (any, *api.APIError) {
	var request packets.RegisterFamilyRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	email := strings.ToLower(strings.TrimSpace(request.OwnerEmail))

	_, err := f.store.GetUserByEmail(email)
	if apiErr := api.Taken(err, "Email already registered", "family.GetUserByEmail"); apiErr != nil {
		return nil, apiErr
	}

	slug, err := UniqueSlug(Slugify(request.FamilyName), f.store.SlugExists)
	if err != nil {
		return nil, api.Internal(err, "family.UniqueSlug")
	}
	hashed, err := middleware.HashPassword(request.Password)
	if err != nil {
		return nil, api.Internal(err, "family.HashPassword")
	}

	token := uuid.NewString()
	expires := f.now().Add(verificationTTL)
	family, owner, err := f.store.CreateFamilyWithOwner(
		&model.Family{Name: request.FamilyName, Slug: slug, OwnerEmail: email, Country: request.Country},
		&model.User{
			Name:                     request.OwnerName,
			Email:                    &email,
			HashedPassword:           hashed,
			Role:                     model.RoleParent,
			VerificationToken:        &token,
			VerificationTokenExpires: &expires,
		},
		model.DefaultMonthlyTokenLimit,
	)
	if err != nil {
		return nil, api.Internal(err, "family.CreateFamilyWithOwner")
	}
	log.Info().Int("family_id", family.ID).Str("slug", family.Slug).Msg("family registered")

	if err := f.mailer.VerificationEmail(owner.Name, email, family.Name, token); err != nil {
		log.Warn().Err(err).Int("family_id", family.ID).Msg("verification email failed")
	}

	return api.Created(packets.RegisterFamilyResponse{
		FamilyID:             family.ID,
		FamilyName:           family.Name,
		Slug:                 family.Slug,
		OwnerEmail:           family.OwnerEmail,
		Message:              "Registration successful! Please check your email to verify your account.",
		RequiresVerification: true,
	}), nil
}

// POST /api/family/verify-email
func (f *FamilyController) verifyEmail(ctx *gin.Context) (any, *api.APIError) {
	var request packets.VerifyEmailRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}

	user, err := f.store.GetUserByVerificationToken(request.Token)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, api.BadRequest("Invalid or expired verification token")
		}
		return nil, api.Internal(err, "family.GetUserByVerificationToken")
	}
	if user.VerificationTokenExpires != nil && f.now().After(*user.VerificationTokenExpires) {
		return nil, api.BadRequest("Verification token has expired. Please request a new one.")
	}

	if err := f.store.MarkUserEmailVerified(user.ID); err != nil {
		return nil, api.Internal(err, "family.MarkUserEmailVerified")
	}

	familyName := "Your Family"
	if user.FamilyID != nil {
		if err := f.store.MarkFamilyVerified(*user.FamilyID); err != nil {
			return nil, api.Internal(err, "family.MarkFamilyVerified")
		}
		if fam, err := f.store.GetFamilyByID(*user.FamilyID); err == nil {
			familyName = fam.Name
		}
	}

	if user.Email != nil {
		if err := f.mailer.WelcomeEmail(user.Name, *user.Email, familyName); err != nil {
			log.Warn().Err(err).Int("user_id", user.ID).Msg("welcome email failed")
		}
	}
	return packets.Message{Message: "Email verified successfully! You can now login."}, nil
}

// POST /api/family/resend-verification
func (f *FamilyController) resendVerification(ctx *gin.Context) (any, *api.APIError) {
	var request packets.ResendVerificationRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	const sent = "If the email exists, a verification link has been sent."

	user, err := f.store.GetUserByEmail(strings.TrimSpace(request.Email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return packets.Message{Message: sent}, nil
		}
		return nil, api.Internal(err, "family.GetUserByEmail")
	}
	if user.IsEmailVerified {
		return nil, api.BadRequest("Email is already verified")
	}

	token := uuid.NewString()
	if err := f.store.SetUserVerificationToken(user.ID, token, f.now().Add(verificationTTL)); err != nil {
		return nil, api.Internal(err, "family.SetUserVerificationToken")
	}

	familyName := "Your Family"
	if user.FamilyID != nil {
		if fam, err := f.store.GetFamilyByID(*user.FamilyID); err == nil {
			familyName = fam.Name
		}
	}
	if err := f.mailer.VerificationEmail(user.Name, *user.Email, familyName, token); err != nil {
		log.Warn().Err(err).Int("user_id", user.ID).Msg("verification email failed")
	}
	return packets.Message{Message: sent}, nil
}

// GET /api/family/me
func (f *FamilyController) getFamily(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if user.FamilyID == nil {
		return nil, api.NotFound("No family associated with this user")
	}
	familyID := *user.FamilyID

	family, err := f.store.GetFamilyByID(familyID)
	if err != nil {
		return nil, api.StoreError(err, "Family not found", "family.GetFamilyByID")
	}
	members, err := f.store.CountFamilyMembers(familyID)
	if err != nil {
		return nil, api.Internal(err, "family.CountFamilyMembers")
	}
	flags, err := f.features.Flags(ctx.Request.Context(), familyID)
	if err != nil {
		return nil, api.Internal(err, "family.Flags")
	}

	detail := packets.FamilyDetail{Family: *family, MemberCount: members, Features: flags}

	limit, err := f.store.GetAILimit(familyID)
	switch {
	case err == nil:
		used, err := f.store.TokensUsedSince(familyID, db.MonthStart(f.now()))
		if err != nil {
			return nil, api.Internal(err, "family.TokensUsedSince")
		}
		detail.AILimit = &packets.AILimitResponse{
			MonthlyTokenLimit: limit.MonthlyTokenLimit,
			CurrentMonthUsage: used,
			UsagePercentage:   usagePercentage(used, limit.MonthlyTokenLimit),
			IsAIEnabled:       limit.IsAIEnabled,
		}
	case !errors.Is(err, db.ErrNotFound):
		return nil, api.Internal(err, "family.GetAILimit")
	}
	return detail, nil
}

func usagePercentage(used, limit int) float64 {
	if limit <= 0 {
		return 0
	}
	return math.Round(float64(used)/float64(limit)*10000) / 100
}

// GET /api/family/features
func (f *FamilyController) getFeatures(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if user.FamilyID == nil {
		return model.AllFeaturesEnabled(), nil
	}
	flags, err := f.features.Flags(ctx.Request.Context(), *user.FamilyID)
	if err != nil {
		return nil, api.Internal(err, "family.Flags")
	}
	return flags, nil
}

// GET /api/family/members
func (f *FamilyController) listMembers(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	members, err := f.store.ListFamilyMembers(familyID)
	if err != nil {
		return nil, api.Internal(err, "family.ListFamilyMembers")
	}
	out := make([]packets.MemberResponse, 0, len(members))
	for _, m := range members {
		total, err := f.store.TotalPoints(m.ID)
		if err != nil {
			return nil, api.Internal(err, "family.TotalPoints")
		}
		out = append(out, packets.MemberResponse{User: m, TotalPoints: total})
	}
	return out, nil
}

// POST /api/family/members
func (f *FamilyController) addMember(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if !user.IsParent() {
		return nil, api.Forbidden("Only parents can add family members")
	}
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.AddMemberRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if request.Email != nil && *request.Email == "" {
		request.Email = nil
	}
	if request.Username != nil && *request.Username == "" {
		request.Username = nil
	}
	if request.Email != nil {
		_, err := f.store.GetUserByEmail(*request.Email)
		if apiErr := api.Taken(err, "Email already registered", "family.GetUserByEmail"); apiErr != nil {
			return nil, apiErr
		}
	}
	if request.Username != nil {
		_, err := f.store.GetUserByUsername(*request.Username)
		if apiErr := api.Taken(err, "Username already taken", "family.GetUserByUsername"); apiErr != nil {
			return nil, apiErr
		}
	}

	role := model.RoleChild
	if request.Role == model.RoleParent {
		role = model.RoleParent
	}
	member := &model.User{
		FamilyID: &familyID,
		Name:     request.Name,
		Email:    request.Email,
		Username: request.Username,
		Role:     role,
		DOB:      request.DOB,
		School:   request.School,
		Grade:    request.Grade,
		// kids without an email have nothing to verify
		IsEmailVerified: request.Email == nil,
	}
	if request.Password != nil {
		hashed, err := middleware.HashPassword(*request.Password)
		if err != nil {
			return nil, api.Internal(err, "family.HashPassword")
		}
		member.HashedPassword = hashed
	}

	created, err := f.store.CreateUser(member)
	if err != nil {
		return nil, api.Internal(err, "family.CreateUser")
	}
	log.Info().Int("family_id", familyID).Int("member_id", created.ID).Str("role", role).Msg("family member added")
	notify.Fire(f.events, familyID, notify.EventMemberAdded, gin.H{
		"member_id": created.ID,
		"name":      created.Name,
		"role":      role,
	})

	if created.Email != nil && role == model.RoleParent {
		familyName := "Your Family"
		if fam, err := f.store.GetFamilyByID(familyID); err == nil {
			familyName = fam.Name
		}
		if err := f.mailer.InviteEmail(created.Name, *created.Email, familyName, user.Name); err != nil {
			log.Warn().Err(err).Int("member_id", created.ID).Msg("invite email failed")
		}
	}
	return api.Created(packets.MemberResponse{User: *created}), nil
}

// DELETE /api/family/members/:id
func (f *FamilyController) removeMember(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if !user.IsParent() {
		return nil, api.Forbidden("Only parents can remove family members")
	}
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if id == user.ID {
		return nil, api.BadRequest("Cannot remove yourself")
	}
	if _, err := f.store.GetFamilyMember(familyID, id); err != nil {
		return nil, api.StoreError(err, "Member not found", "family.GetFamilyMember")
	}
	if err := f.store.DeleteUser(id); err != nil {
		return nil, api.StoreError(err, "Member not found", "family.DeleteUser")
	}
	return packets.Message{Message: "Member removed successfully"}, nil
}

// GET /api/family/dashboard
func (f *FamilyController) dashboard(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	members, err := f.store.ListFamilyMembers(familyID)
	if err != nil {
		return nil, api.Internal(err, "family.ListFamilyMembers")
	}

	today := model.NewDate(f.now())
	summaries := make([]packets.MemberSummary, len(members))
	g, _ := errgroup.WithContext(ctx.Request.Context())
	g.SetLimit(4)
	for i := range members {
		m := members[i]
		g.Go(func() error {
			s, err := f.memberSummary(familyID, &m, today)
			if err != nil {
				return err
			}
			summaries[i] = *s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, api.Internal(err, "family.dashboard")
	}
	return packets.Dashboard{Date: today, Members: summaries}, nil
}

func (f *FamilyController) memberSummary(familyID int, m *model.User, today model.Date) (*packets.MemberSummary, error) {
	s := &packets.MemberSummary{UserID: m.ID, Name: m.Name, Role: m.Role, Avatar: m.Avatar}

	total, err := f.store.TotalPoints(m.ID)
	if err != nil {
		return nil, err
	}
	s.TotalPoints = total

	pending := model.TaskPending
	tasks, err := f.store.ListTasks(familyID, model.TaskFilter{AssignedTo: &m.ID, Status: &pending})
	if err != nil {
		return nil, err
	}
	s.PendingTasks = len(tasks)

	prayed, err := f.store.CountPrayedOn(m.ID, today)
	if err != nil {
		return nil, err
	}
	s.PrayersToday = prayed

	goal, err := f.store.ActiveQuranGoal(m.ID)
	switch {
	case err == nil:
		p := goal.Progress(today)
		s.QuranGoal = &packets.QuranGoalProgress{
			GoalID:             goal.ID,
			Title:              goal.Title,
			CurrentPage:        goal.CurrentPage,
			TotalPages:         goal.TotalPages,
			ProgressPercentage: p.ProgressPercentage,
			OnTrack:            p.OnTrack,
		}
	case !errors.Is(err, db.ErrNotFound):
		return nil, err
	}
	return s, nil
}
