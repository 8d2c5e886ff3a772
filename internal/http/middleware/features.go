package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type FeatureChecker interface {
	IsEnabled(ctx context.Context, familyID int, key string) (bool, error)
}

// RequireFeature answers 403 when the caller's family has switched key off.
// Users without a family see every feature.
func RequireFeature(checker FeatureChecker, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if user.FamilyID == nil {
			c.Next()
			return
		}
		enabled, err := checker.IsEnabled(c.Request.Context(), *user.FamilyID, key)
		if err != nil {
			log.Error().Err(err).Int("family_id", *user.FamilyID).Str("feature", key).Msg("feature lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
			return
		}
		if !enabled {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "feature disabled", "feature": key})
			return
		}
		c.Next()
	}
}
