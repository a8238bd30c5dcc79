package services

import (
	"context"
	"fmt"
	"time"

	"il2-rankmod/light/internal/common"
	"il2-rankmod/light/internal/constants"
	"il2-rankmod/light/internal/metrics"
	"il2-rankmod/light/internal/models/gorm"
)

const squadronCacheTTL = 30 * time.Minute

// SquadronRef is what a promotion event needs from a pilot's squadron row.
type SquadronRef struct {
	ConfigID int64
	CareerID int64
}

// SquadronLookup resolves squadron row ids. Missing rows or null columns come
// back as -1 with found=false.
type SquadronLookup interface {
	Resolve(ctx context.Context, squadronID int64) (ref SquadronRef, found bool, err error)
}

type squadronGetter interface {
	Get(ctx context.Context, squadronID int64) (*gorm.Squadron, error)
}

// CachedSquadronLookup keeps squadron rows in the in-memory cache. A
// squadron's config and career never change once the game creates it.
type CachedSquadronLookup struct {
	cache   common.CacheInterface
	repo    squadronGetter
	metrics *metrics.MetricsRegistry
}

func NewCachedSquadronLookup(cache common.CacheInterface, repo squadronGetter, m *metrics.MetricsRegistry) *CachedSquadronLookup {
	return &CachedSquadronLookup{cache: cache, repo: repo, metrics: m}
}

func (l *CachedSquadronLookup) Resolve(ctx context.Context, squadronID int64) (SquadronRef, bool, error) {
	key := fmt.Sprintf("%s%d", constants.CachePrefixSquadron, squadronID)

	if cached, ok := l.cache.Get(key); ok {
		if ref, ok := cached.(SquadronRef); ok {
			l.metrics.ObserveCache(string(constants.CachePrefixSquadron), true)
			return ref, ref.CareerID >= 0, nil
		}
	}
	l.metrics.ObserveCache(string(constants.CachePrefixSquadron), false)

	unresolved := SquadronRef{ConfigID: constants.UnresolvedID, CareerID: constants.UnresolvedID}

	row, err := l.repo.Get(ctx, squadronID)
	if err != nil {
		return unresolved, false, err
	}
	if row == nil {
		return unresolved, false, nil
	}

	ref := unresolved
	if row.ConfigID != nil {
		ref.ConfigID = *row.ConfigID
	}
	if row.CareerID != nil {
		ref.CareerID = *row.CareerID
	}

	// Only complete rows are cached so a squadron created mid-session is
	// picked up once the game fills it in.
	if row.ConfigID != nil && row.CareerID != nil {
		l.cache.Set(key, ref, squadronCacheTTL)
	}
	return ref, row.CareerID != nil, nil
}
