package exercises

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/2beens/trainlog/internal/telemetry/tracing"
	"github.com/2beens/trainlog/internal/workout/engine"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=catalog_cache_mocks_test.go -package=exercises_test

type catalogSource interface {
	Catalog(ctx context.Context, userID int) (engine.Catalog, error)
}

const DefaultCatalogExpireSeconds = 60

// CatalogCache keeps recently used catalogs in memory, keyed by user id.
type CatalogCache struct {
	source        catalogSource
	cache         *freecache.Cache
	expireSeconds int
}

func NewCatalogCache(source catalogSource, sizeMB int, expireSeconds int) *CatalogCache {
	if expireSeconds <= 0 {
		expireSeconds = DefaultCatalogExpireSeconds
	}
	return &CatalogCache{
		source:        source,
		cache:         freecache.NewCache(sizeMB * 1024 * 1024),
		expireSeconds: expireSeconds,
	}
}

func (c *CatalogCache) Catalog(ctx context.Context, userID int) (_ engine.Catalog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.exercises.catalog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	key := cacheKey(userID)
	if cached, err := c.cache.Get(key); err == nil {
		var catalog engine.Catalog
		unmarshalErr := json.Unmarshal(cached, &catalog)
		if unmarshalErr == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return catalog, nil
		}
		log.Warnf("failed to unmarshal cached catalog for user %d: %s", userID, unmarshalErr)
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	catalog, err := c.source.Catalog(ctx, userID)
	if err != nil {
		return nil, err
	}

	catalogJson, err := json.Marshal(catalog)
	if err != nil {
		log.Errorf("failed to marshal catalog for user %d: %s", userID, err)
		return catalog, nil
	}
	if err := c.cache.Set(key, catalogJson, c.expireSeconds); err != nil {
		log.Warnf("failed to cache catalog for user %d: %s", userID, err)
	}

	return catalog, nil
}

// Invalidate drops the cached catalog of the user; called on every catalog write.
func (c *CatalogCache) Invalidate(userID int) {
	c.cache.Del(cacheKey(userID))
}

func cacheKey(userID int) []byte {
	return []byte("catalog::" + strconv.Itoa(userID))
}
