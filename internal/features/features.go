package features

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
	"github.com/Nixie-Tech-LLC/familyhub/internal/redis"
)

const cacheTTL = 10 * time.Minute

type Store interface {
	GetFamilyFeatures(familyID int) (map[string]bool, error)
	SetFamilyFeatures(familyID int, flags map[string]bool) error
}

// Service answers feature-flag lookups through a short-lived Redis cache.
type Service struct {
	store Store
	cache *redis.Cache
}

func NewService(store Store, cache *redis.Cache) *Service {
	return &Service{store: store, cache: cache}
}

func cacheKey(familyID int) string { return "features:" + strconv.Itoa(familyID) }

// Flags returns every known feature for the family; unknown rows default to enabled.
func (s *Service) Flags(ctx context.Context, familyID int) (map[string]bool, error) {
	var flags map[string]bool
	if hit, err := s.cache.GetJSON(ctx, cacheKey(familyID), &flags); err != nil {
		log.Warn().Err(err).Int("family_id", familyID).Msg("[features] cache read failed")
	} else if hit {
		return flags, nil
	}

	stored, err := s.store.GetFamilyFeatures(familyID)
	if err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}
	flags = model.AllFeaturesEnabled()
	for k, v := range stored {
		if model.IsKnownFeature(k) {
			flags[k] = v
		}
	}

	if err := s.cache.SetJSON(ctx, cacheKey(familyID), flags, cacheTTL); err != nil {
		log.Warn().Err(err).Int("family_id", familyID).Msg("[features] cache write failed")
	}
	return flags, nil
}

func (s *Service) IsEnabled(ctx context.Context, familyID int, key string) (bool, error) {
	flags, err := s.Flags(ctx, familyID)
	if err != nil {
		return false, err
	}
	enabled, ok := flags[key]
	return !ok || enabled, nil
}

// Set stores the given flags and drops the cached copy.
func (s *Service) Set(ctx context.Context, familyID int, flags map[string]bool) error {
	for k := range flags {
		if !model.IsKnownFeature(k) {
			return fmt.Errorf("unknown feature %q", k)
		}
	}
	if err := s.store.SetFamilyFeatures(familyID, flags); err != nil {
		return err
	}
	s.Invalidate(ctx, familyID)
	return nil
}

func (s *Service) Invalidate(ctx context.Context, familyID int) {
	if err := s.cache.Delete(ctx, cacheKey(familyID)); err != nil {
		log.Warn().Err(err).Int("family_id", familyID).Msg("[features] cache invalidation failed")
	}
}
