package providers

import (
	"context"

	"github.com/aimehq/venue-intake/internal/domain/entities"
)

// LeadExtractor defines the interface for language-model field extraction.
// Both methods return (nil, error) when the model produced nothing
// parseable; a non-nil result with every field absent is a distinct,
// valid outcome.
type LeadExtractor interface {
	// ExtractLead extracts all schema fields from an inbound email
	ExtractLead(ctx context.Context, emailText string) (*entities.LeadFields, error)

	// ExtractReply extracts only the given missing fields from a client reply
	ExtractReply(ctx context.Context, replyText string, missing []entities.FieldName) (*entities.LeadFields, error)
}
