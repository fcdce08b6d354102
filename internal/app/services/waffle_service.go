package services

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opencourse/discovery/internal/app/models"
	"github.com/opencourse/discovery/internal/app/repositories"
	"github.com/opencourse/discovery/internal/pkg/apperrors"
	"github.com/opencourse/discovery/internal/pkg/logger"
)

const switchCachePrefix = "waffle:switch:"

// SwitchStore is the database access the waffle service needs.
type SwitchStore interface {
	GetByName(ctx context.Context, name string) (*models.Switch, error)
	GetAll(ctx context.Context) ([]*models.Switch, error)
	Upsert(ctx context.Context, sw *models.Switch) error
}

// WaffleService answers feature switch checks. Reads go through a Redis
// cache so hot-path checks don't hit the database; a missing or unreachable
// cache falls back to the store. Unknown switches read as inactive.
type WaffleService struct {
	store SwitchStore
	cache *redis.Client
	ttl   time.Duration
}

// NewWaffleService creates a new waffle service instance
func NewWaffleService(store SwitchStore, cache *redis.Client, ttl time.Duration) *WaffleService {
	return &WaffleService{
		store: store,
		cache: cache,
		ttl:   ttl,
	}
}

var _ SwitchStore = (*repositories.SwitchRepository)(nil)

// IsActive reports whether the named switch is on.
func (s *WaffleService) IsActive(ctx context.Context, name string) bool {
	if s.cache != nil {
		val, err := s.cache.Get(ctx, switchCachePrefix+name).Result()
		if err == nil {
			return val == "1"
		}
		if !errors.Is(err, redis.Nil) {
			logger.Warn().Err(err).Str("switch", name).Msg("Switch cache read failed, falling back to store")
		}
	}

	sw, err := s.store.GetByName(ctx, name)
	if err != nil {
		if !errors.Is(err, apperrors.ErrSwitchNotFound) {
			logger.Error().Err(err).Str("switch", name).Msg("Switch lookup failed")
		}
		return false
	}

	s.cacheSet(ctx, name, sw.Active)
	return sw.Active
}

func (s *WaffleService) cacheSet(ctx context.Context, name string, active bool) {
	if s.cache == nil {
		return
	}
	val := "0"
	if active {
		val = "1"
	}
	if err := s.cache.Set(ctx, switchCachePrefix+name, val, s.ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("switch", name).Msg("Switch cache write failed")
	}
}

// GetSwitch retrieves a switch by name.
func (s *WaffleService) GetSwitch(ctx context.Context, name string) (*models.Switch, error) {
	return s.store.GetByName(ctx, name)
}

// GetAllSwitches retrieves all switches.
func (s *WaffleService) GetAllSwitches(ctx context.Context) ([]*models.Switch, error) {
	return s.store.GetAll(ctx)
}

// SetSwitch creates or updates a switch and refreshes its cache entry.
func (s *WaffleService) SetSwitch(ctx context.Context, sw *models.Switch) error {
	if err := s.store.Upsert(ctx, sw); err != nil {
		return err
	}
	s.cacheSet(ctx, sw.Name, sw.Active)
	return nil
}
