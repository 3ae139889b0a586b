package redis_adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"marketplace-service/internal/constants"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedRegionProvider - декоратор над справочником регионов с кешем в redis.
// Ошибки кеша не мешают загрузке: запрос уходит напрямую в справочник.
type CachedRegionProvider struct {
	next   port.RegionProviderPort
	client redis.Cmdable
	ttl    time.Duration
}

func NewCachedRegionProvider(next port.RegionProviderPort, client redis.Cmdable, ttl time.Duration) *CachedRegionProvider {
	return &CachedRegionProvider{
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

// cacheKey - regions:{level}:{parentId}, у провинций parentId пустой
func cacheKey(level domain.RegionLevel, parentID string) string {
	return fmt.Sprintf("%s:%s:%s", constants.RegionCacheKeyPrefix, level.String(), parentID)
}

func (p *CachedRegionProvider) FetchChildren(ctx context.Context, level domain.RegionLevel, parentID string) ([]domain.Region, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":    "CachedRegionProvider",
		"region_level": level.String(),
		"parent_id":    parentID,
	})
	key := cacheKey(level, parentID)

	cached, err := p.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var regions []domain.Region
		jsonErr := json.Unmarshal(cached, &regions)
		if jsonErr == nil {
			logger.Debug("Region list served from cache", port.Fields{"count": len(regions)})
			return regions, nil
		}
		logger.Warn("Corrupted cache entry, refetching", port.Fields{"key": key, "error": jsonErr.Error()})
	case errors.Is(err, redis.Nil):
		logger.Debug("Cache miss", port.Fields{"key": key})
	default:
		logger.Warn("Cache read failed, fetching directly", port.Fields{"key": key, "error": err.Error()})
	}

	regions, err := p.next.FetchChildren(ctx, level, parentID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(regions)
	if err != nil {
		logger.Error("Failed to encode region list for cache", err, nil)
		return regions, nil
	}
	if err := p.client.Set(ctx, key, payload, p.ttl).Err(); err != nil {
		logger.Warn("Cache write failed", port.Fields{"key": key, "error": err.Error()})
	}
	return regions, nil
}

// Invalidate удаляет закешированный список одного уровня.
func (p *CachedRegionProvider) Invalidate(ctx context.Context, level domain.RegionLevel, parentID string) error {
	if err := p.client.Del(ctx, cacheKey(level, parentID)).Err(); err != nil {
		return fmt.Errorf("could not invalidate region cache: %w", err)
	}
	return nil
}
