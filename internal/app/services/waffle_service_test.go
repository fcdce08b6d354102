package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourse/discovery/internal/app/models"
	"github.com/opencourse/discovery/internal/pkg/apperrors"
)

type fakeSwitchStore struct {
	switches map[string]*models.Switch
	reads    int
}

func (f *fakeSwitchStore) GetByName(ctx context.Context, name string) (*models.Switch, error) {
	f.reads++
	sw, ok := f.switches[name]
	if !ok {
		return nil, apperrors.ErrSwitchNotFound
	}
	return sw, nil
}

func (f *fakeSwitchStore) GetAll(ctx context.Context) ([]*models.Switch, error) {
	all := make([]*models.Switch, 0, len(f.switches))
	for _, sw := range f.switches {
		all = append(all, sw)
	}
	return all, nil
}

func (f *fakeSwitchStore) Upsert(ctx context.Context, sw *models.Switch) error {
	if f.switches == nil {
		f.switches = map[string]*models.Switch{}
	}
	f.switches[sw.Name] = sw
	return nil
}

func newWaffleForTest(t *testing.T, store SwitchStore) (*WaffleService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWaffleService(store, client, time.Minute), mr
}

func TestWaffleService_IsActive(t *testing.T) {
	ctx := context.Background()

	t.Run("Should report an active switch", func(t *testing.T) {
		store := &fakeSwitchStore{switches: map[string]*models.Switch{
			models.SwitchMastersCourseMode: {Name: models.SwitchMastersCourseMode, Active: true},
		}}
		svc, _ := newWaffleForTest(t, store)

		assert.True(t, svc.IsActive(ctx, models.SwitchMastersCourseMode))
	})

	t.Run("Should report unknown switches as inactive", func(t *testing.T) {
		svc, _ := newWaffleForTest(t, &fakeSwitchStore{})
		assert.False(t, svc.IsActive(ctx, "no_such_switch"))
	})

	t.Run("Should serve repeat checks from the cache", func(t *testing.T) {
		store := &fakeSwitchStore{switches: map[string]*models.Switch{
			"flag": {Name: "flag", Active: true},
		}}
		svc, _ := newWaffleForTest(t, store)

		assert.True(t, svc.IsActive(ctx, "flag"))
		assert.True(t, svc.IsActive(ctx, "flag"))
		assert.Equal(t, 1, store.reads)
	})

	t.Run("Should fall back to the store when the cache entry expires", func(t *testing.T) {
		store := &fakeSwitchStore{switches: map[string]*models.Switch{
			"flag": {Name: "flag", Active: true},
		}}
		svc, mr := newWaffleForTest(t, store)

		require.True(t, svc.IsActive(ctx, "flag"))
		mr.FastForward(2 * time.Minute)
		require.True(t, svc.IsActive(ctx, "flag"))
		assert.Equal(t, 2, store.reads)
	})

	t.Run("Should fall back to the store when redis is unreachable", func(t *testing.T) {
		store := &fakeSwitchStore{switches: map[string]*models.Switch{
			"flag": {Name: "flag", Active: true},
		}}
		svc, mr := newWaffleForTest(t, store)
		mr.Close()

		assert.True(t, svc.IsActive(ctx, "flag"))
	})

	t.Run("Should work without a cache", func(t *testing.T) {
		store := &fakeSwitchStore{switches: map[string]*models.Switch{
			"flag": {Name: "flag", Active: true},
		}}
		svc := NewWaffleService(store, nil, time.Minute)

		assert.True(t, svc.IsActive(context.Background(), "flag"))
	})
}

func TestWaffleService_SetSwitch(t *testing.T) {
	ctx := context.Background()

	t.Run("Should persist the switch and refresh the cache", func(t *testing.T) {
		store := &fakeSwitchStore{switches: map[string]*models.Switch{
			"flag": {Name: "flag", Active: false},
		}}
		svc, _ := newWaffleForTest(t, store)

		// Prime the cache with the inactive state.
		require.False(t, svc.IsActive(ctx, "flag"))

		require.NoError(t, svc.SetSwitch(ctx, &models.Switch{Name: "flag", Active: true}))

		assert.True(t, svc.IsActive(ctx, "flag"))
	})
}
