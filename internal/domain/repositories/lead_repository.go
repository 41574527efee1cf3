package repositories

import (
	"context"

	"github.com/aimehq/venue-intake/internal/domain/entities"
)

// LeadRepository defines persistence for event records. Records are keyed
// by event id and versioned by round number; "latest" is the highest round.
type LeadRepository interface {
	// Save persists the record for its round unconditionally
	Save(ctx context.Context, record *entities.EventRecord) error

	// SaveIfLatest persists the record only if the highest stored round for
	// the event still equals expectedRound. Returns a STALE_ROUND error when
	// another writer advanced the event first.
	SaveIfLatest(ctx context.Context, record *entities.EventRecord, expectedRound int) error

	// LoadLatest returns the most recent round for the event, or a
	// NOT_FOUND error when the event id is unknown
	LoadLatest(ctx context.Context, eventID string) (*entities.EventRecord, error)
}
