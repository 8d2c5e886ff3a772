package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
)

// Module is a pluggable feature that attaches its endpoints to a Controller (a gin group).
type Module interface {
	Mount(c *Controller)
}

// ModuleFunc lets you define a Module with a simple function.
type ModuleFunc func(c *Controller)

func (f ModuleFunc) Mount(c *Controller) { f(c) }

// GroupConfig tells the api package how to mount a group.
type GroupConfig struct {
	Prefix     string
	Auth       bool
	Admin      bool
	SecretKey  string                 // required if Auth or Admin
	Users      middleware.UserLoader  // required if Auth
	Admins     middleware.AdminLoader // required if Admin
	Middleware []gin.HandlerFunc      // runs after authentication
}

// MountGroup mounts one or more Modules under a prefix with optional auth.
func MountGroup(parent gin.IRoutes, cfg GroupConfig, modules ...Module) {
	var grp *gin.RouterGroup

	switch v := parent.(type) {
	case *gin.Engine:
		grp = v.Group(cfg.Prefix)
	case *gin.RouterGroup:
		if cfg.Prefix != "" {
			grp = v.Group(cfg.Prefix)
		} else {
			grp = v
		}
	default:
		log.Fatal().Str("type", fmt.Sprintf("%T", parent)).Msg("api.MountGroup: unsupported router type")
	}

	if (cfg.Auth || cfg.Admin) && cfg.SecretKey == "" {
		log.Fatal().Str("prefix", cfg.Prefix).Msg("api.MountGroup: auth enabled but SecretKey is empty")
	}
	if cfg.Auth {
		if cfg.Users == nil {
			log.Fatal().Str("prefix", cfg.Prefix).Msg("api.MountGroup: Auth enabled without a user loader")
		}
		grp.Use(middleware.JWTMiddleware(cfg.SecretKey, cfg.Users))
	}
	if cfg.Admin {
		if cfg.Admins == nil {
			log.Fatal().Str("prefix", cfg.Prefix).Msg("api.MountGroup: Admin enabled without an admin loader")
		}
		grp.Use(middleware.AdminMiddleware(cfg.SecretKey, cfg.Admins))
	}
	for _, mw := range cfg.Middleware {
		grp.Use(mw)
	}

	controller := &Controller{Group: grp}

	for _, m := range modules {
		m.Mount(controller)
	}
}
