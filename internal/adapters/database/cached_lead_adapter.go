package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aimehq/venue-intake/internal/domain/entities"
	"github.com/aimehq/venue-intake/internal/domain/providers"
	"github.com/aimehq/venue-intake/internal/domain/repositories"
)

// CachedLeadAdapter wraps LeadAdapter with caching of the latest round
// per event. Writes invalidate synchronously so a Continue that follows
// its own Save never reads a stale round.
type CachedLeadAdapter struct {
	adapter repositories.LeadRepository
	cache   providers.CacheProvider
}

// NewCachedLeadAdapter creates a new cached lead adapter
func NewCachedLeadAdapter(adapter repositories.LeadRepository, cache providers.CacheProvider) repositories.LeadRepository {
	return &CachedLeadAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// latestRoundTTL is short because replies can arrive minutes apart
const latestRoundTTL = 120

func eventCacheKey(eventID string) string {
	return fmt.Sprintf("event:latest:%s", eventID)
}

// Save persists the record and invalidates the event's cache entry
func (a *CachedLeadAdapter) Save(ctx context.Context, record *entities.EventRecord) error {
	if err := a.adapter.Save(ctx, record); err != nil {
		return err
	}

	if err := a.cache.Delete(ctx, eventCacheKey(record.EventID)); err != nil {
		log.Printf("Failed to invalidate event cache %s: %v", record.EventID, err)
	}

	return nil
}

// SaveIfLatest persists the record conditionally and invalidates the
// event's cache entry on success
func (a *CachedLeadAdapter) SaveIfLatest(ctx context.Context, record *entities.EventRecord, expectedRound int) error {
	if err := a.adapter.SaveIfLatest(ctx, record, expectedRound); err != nil {
		return err
	}

	if err := a.cache.Delete(ctx, eventCacheKey(record.EventID)); err != nil {
		log.Printf("Failed to invalidate event cache %s: %v", record.EventID, err)
	}

	return nil
}

// LoadLatest retrieves the latest round for an event with caching
func (a *CachedLeadAdapter) LoadLatest(ctx context.Context, eventID string) (*entities.EventRecord, error) {
	cacheKey := eventCacheKey(eventID)

	// Try to get from cache first
	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var record entities.EventRecord
		if err := json.Unmarshal(cached, &record); err == nil {
			return &record, nil
		}
		// If unmarshal fails, continue to fetch from DB
		log.Printf("Failed to unmarshal cached event %s: %v", eventID, err)
	}

	// Cache miss - fetch from database
	record, err := a.adapter.LoadLatest(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(record); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, latestRoundTTL); err != nil {
				log.Printf("Failed to cache event %s: %v", eventID, err)
			}
		}
	}()

	return record, nil
}
