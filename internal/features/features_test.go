package features

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
	"github.com/Nixie-Tech-LLC/familyhub/internal/redis"
)

type fakeStore struct {
	flags map[string]bool
	loads int
}

func (f *fakeStore) GetFamilyFeatures(int) (map[string]bool, error) {
	f.loads++
	out := map[string]bool{}
	for k, v := range f.flags {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) SetFamilyFeatures(_ int, flags map[string]bool) error {
	for k, v := range flags {
		f.flags[k] = v
	}
	return nil
}

func newService(t *testing.T, store Store) *Service {
	mr := miniredis.RunT(t)
	return NewService(store, redis.NewCacheWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()})))
}

func TestFlags_DefaultsAndCache(t *testing.T) {
	store := &fakeStore{flags: map[string]bool{model.FeatureZakat: false, "legacy_flag": false}}
	svc := newService(t, store)
	ctx := context.Background()

	flags, err := svc.Flags(ctx, 3)
	require.NoError(t, err)
	assert.False(t, flags[model.FeatureZakat])
	assert.True(t, flags[model.FeatureTasks])
	assert.NotContains(t, flags, "legacy_flag")
	assert.Len(t, flags, len(model.AvailableFeatures))

	on, err := svc.IsEnabled(ctx, 3, model.FeatureZakat)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, 1, store.loads)
}

func TestSet_InvalidatesCache(t *testing.T) {
	store := &fakeStore{flags: map[string]bool{}}
	svc := newService(t, store)
	ctx := context.Background()

	on, err := svc.IsEnabled(ctx, 1, model.FeatureNotes)
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, svc.Set(ctx, 1, map[string]bool{model.FeatureNotes: false}))
	on, err = svc.IsEnabled(ctx, 1, model.FeatureNotes)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, 2, store.loads)
}

func TestSet_RejectsUnknown(t *testing.T) {
	svc := NewService(&fakeStore{flags: map[string]bool{}}, nil)
	assert.Error(t, svc.Set(context.Background(), 1, map[string]bool{"bogus": true}))
}
