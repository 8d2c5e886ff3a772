package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/familyhub/internal/config"
	"github.com/Nixie-Tech-LLC/familyhub/internal/currency"
	"github.com/Nixie-Tech-LLC/familyhub/internal/features"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	adminauthapi "github.com/Nixie-Tech-LLC/familyhub/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/Nixie-Tech-LLC/familyhub/internal/http/api/admin/endpoints"
	authapi "github.com/Nixie-Tech-LLC/familyhub/internal/http/api/auth/endpoints"
	currencyapi "github.com/Nixie-Tech-LLC/familyhub/internal/http/api/currency/endpoints"
	expensesapi "github.com/Nixie-Tech-LLC/familyhub/internal/http/api/expenses/endpoints"
	familyapi "github.com/Nixie-Tech-LLC/familyhub/internal/http/api/family/endpoints"
	islamicapi "github.com/Nixie-Tech-LLC/familyhub/internal/http/api/islamic/endpoints"
	learningapi "github.com/Nixie-Tech-LLC/familyhub/internal/http/api/learning/endpoints"
	notesapi "github.com/Nixie-Tech-LLC/familyhub/internal/http/api/notes/endpoints"
	goalsapi "github.com/Nixie-Tech-LLC/familyhub/internal/http/api/qurangoals/endpoints"
	remindersapi "github.com/Nixie-Tech-LLC/familyhub/internal/http/api/reminders/endpoints"
	supportapi "github.com/Nixie-Tech-LLC/familyhub/internal/http/api/support/endpoints"
	tasksapi "github.com/Nixie-Tech-LLC/familyhub/internal/http/api/tasks/endpoints"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/familyhub/internal/prayertimes"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, svc Services) {
	corsCfg := cors.Config{
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsCfg.AllowOriginFunc = func(origin string) bool { return cfg.IsDevelopment() }
	}
	r.Use(cors.New(corsCfg), middleware.RequestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	store := svc.Store
	secret := cfg.JWTSecret
	flags := features.NewService(store, svc.Cache)
	fx := currency.NewService(cfg.ExchangeRateURL, svc.Cache)
	times := prayertimes.NewClient(cfg.PrayerTimesURL, svc.Cache)

	authed := func(prefix string) api.GroupConfig {
		return api.GroupConfig{Prefix: prefix, Auth: true, SecretKey: secret, Users: store}
	}
	admin := api.GroupConfig{Prefix: "/api/admin", Admin: true, SecretKey: secret, Admins: store}

	// public
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/auth"}, authapi.AuthPublicModule(secret, store))
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/family"}, familyapi.FamilyPublicModule(store, svc.Mailer))
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/admin"}, adminauthapi.AdminLoginModule(secret, store))

	// family members
	api.MountGroup(r, authed("/api/auth"), authapi.AuthSessionModule(secret, store))
	api.MountGroup(r, authed("/api/family"), familyapi.FamilyModule(store, svc.Mailer, flags, svc.Events))
	api.MountGroup(r, authed("/api/tasks"), tasksapi.TasksModule(store, flags, svc.Events))
	api.MountGroup(r, authed("/api/islamic"), islamicapi.IslamicModule(store, flags, times, fx))
	api.MountGroup(r, authed("/api/quran-goals"), goalsapi.QuranGoalsModule(store, flags, svc.Files))
	api.MountGroup(r, authed("/api/expenses"), expensesapi.ExpensesModule(store, flags))
	api.MountGroup(r, authed("/api/currency"), currencyapi.CurrencyModule(fx))
	api.MountGroup(r, authed("/api/notes"), notesapi.NotesModule(store, flags))
	api.MountGroup(r, authed("/api"), remindersapi.RemindersModule(store, flags))
	api.MountGroup(r, authed("/api/learning"), learningapi.LearningModule(learningapi.LearningDeps{
		Store:    store,
		Features: flags,
		Tutor:    svc.Tutor,
		Budget:   svc.Budget,
		Files:    svc.Files,
		Events:   svc.Events,
	}))

	// support accepts anonymous reports
	api.MountGroup(r, api.GroupConfig{
		Prefix:     "/api/support",
		Middleware: []gin.HandlerFunc{middleware.OptionalJWT(secret, store)},
	}, supportapi.SupportModule(store))
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/support/admin",
		Admin:     true,
		SecretKey: secret,
		Admins:    store,
	}, supportapi.SupportAdminModule(store))

	// platform admins
	api.MountGroup(r, admin,
		adminauthapi.AdminAccountsModule(secret, store),
		adminapi.FamiliesModule(store, flags),
	)

	if !cfg.UseSpaces {
		r.Static("/uploads", cfg.UploadDir)
	}
}
