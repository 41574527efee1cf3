package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aimehq/venue-intake/internal/domain/entities"
	"github.com/aimehq/venue-intake/internal/domain/providers"
	"github.com/aimehq/venue-intake/internal/domain/repositories"
	"github.com/aimehq/venue-intake/internal/i18n"
	"github.com/aimehq/venue-intake/internal/infrastructure/observability"
	apperrors "github.com/aimehq/venue-intake/pkg/errors"
	"github.com/google/uuid"
)

// IntakeService sequences one extraction-validate-merge-respond round per
// call: Start for the initial inbound email, Continue for each client
// reply. All state crosses the repository boundary; invocations share no
// mutable in-memory state and may run in parallel.
type IntakeService struct {
	repo         repositories.LeadRepository
	extractor    providers.LeadExtractor
	communicator *Communicator
}

// NewIntakeService creates a new intake service
func NewIntakeService(
	repo repositories.LeadRepository,
	extractor providers.LeadExtractor,
	communicator *Communicator,
) *IntakeService {
	return &IntakeService{
		repo:         repo,
		extractor:    extractor,
		communicator: communicator,
	}
}

// IntakeResult is the bundle returned by Start and Continue
type IntakeResult struct {
	EventID          string               `json:"event_id"`
	ExtractedData    entities.LeadFields  `json:"extracted_data"`
	MissingFields    []entities.FieldName `json:"missing_fields"`
	FollowupEmail    string               `json:"followup_email"`
	IsComplete       bool                 `json:"is_complete"`
	Round            int                  `json:"round_number"`
	Attachments      []string             `json:"attachments"`
	LanguageFallback bool                 `json:"language_fallback"`
}

// Start processes an initial meeting request email: extract, validate,
// compose the round-1 reply, persist. Exactly one write happens on
// success and none on failure.
func (s *IntakeService) Start(ctx context.Context, emailText, language string) (*IntakeResult, error) {
	eventID := newEventID(time.Now())

	fields, err := s.extractor.ExtractLead(ctx, emailText)
	if err != nil {
		return nil, apperrors.NewExtractionError("failed to extract information from email", err)
	}
	if fields == nil {
		return nil, apperrors.NewExtractionError("failed to extract information from email", nil)
	}

	missing := entities.MissingFields(*fields)

	msg, err := s.communicator.Compose(missing, *fields, 1, language)
	if err != nil {
		return nil, err
	}

	record := entities.NewEventRecord(eventID, 1, *fields)
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}

	return &IntakeResult{
		EventID:          eventID,
		ExtractedData:    *fields,
		MissingFields:    missing,
		FollowupEmail:    msg.Body,
		IsComplete:       record.IsComplete,
		Round:            1,
		Attachments:      detectAttachments(emailText),
		LanguageFallback: msg.LanguageFallback,
	}, nil
}

// Continue processes a client reply for an existing event. The missing
// fields are recomputed from the persisted record, not from the caller's
// view, and the reply extractor is scoped to exactly that set. A failed
// reply extraction degrades gracefully: the round still advances and a
// follow-up is still generated, just without new information merged in.
func (s *IntakeService) Continue(ctx context.Context, eventID, replyText string, roundNumber int) (*IntakeResult, error) {
	current, err := s.repo.LoadLatest(ctx, eventID)
	if err != nil {
		return nil, err
	}

	missing := entities.MissingFields(current.Fields)

	extracted, err := s.extractor.ExtractReply(ctx, replyText, missing)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("event_id", eventID).
			Msg("reply extraction failed; advancing round without new data")
		extracted = nil
	}

	newRound := roundNumber + 1
	result, err := s.finishRound(ctx, current, extracted, newRound)
	if !apperrors.IsType(err, apperrors.ErrorTypeStaleRound) {
		return result, err
	}

	// Lost the optimistic write: another round landed between our read and
	// write. Retry once against the fresh state, then give up.
	fresh, err := s.repo.LoadLatest(ctx, eventID)
	if err != nil {
		return nil, err
	}
	result, err = s.finishRound(ctx, fresh, extracted, fresh.Round+1)
	if apperrors.IsType(err, apperrors.ErrorTypeStaleRound) {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("concurrent update on event %s", eventID),
		)
	}
	return result, err
}

// finishRound merges, revalidates, composes and persists one reply round
// conditioned on the loaded record still being the latest
func (s *IntakeService) finishRound(ctx context.Context, current *entities.EventRecord, extracted *entities.LeadFields, newRound int) (*IntakeResult, error) {
	merged := entities.Merge(current.Fields, extracted)
	stillMissing := entities.MissingFields(merged)

	msg, err := s.communicator.Compose(stillMissing, merged, newRound, i18n.DefaultLanguage)
	if err != nil {
		return nil, err
	}

	record := entities.NewEventRecord(current.EventID, newRound, merged)
	if err := s.repo.SaveIfLatest(ctx, record, current.Round); err != nil {
		return nil, err
	}

	return &IntakeResult{
		EventID:          current.EventID,
		ExtractedData:    merged,
		MissingFields:    stillMissing,
		FollowupEmail:    msg.Body,
		IsComplete:       record.IsComplete,
		Round:            newRound,
		Attachments:      []string{},
		LanguageFallback: msg.LanguageFallback,
	}, nil
}

// GetEvent returns the latest persisted state for an event id
func (s *IntakeService) GetEvent(ctx context.Context, eventID string) (*entities.EventRecord, error) {
	return s.repo.LoadLatest(ctx, eventID)
}

// newEventID builds a date-stamped identifier with 32 bits of random
// suffix, e.g. REQ-20260828-9F1C04AB
func newEventID(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("REQ-%s-%s", now.Format("20060102"), suffix)
}

var attachmentPattern = regexp.MustCompile(`(?i)\b[\w-]+\.(?:pdf|docx|xlsx|pptx|txt|zip)\b`)

// detectAttachments returns deduplicated attachment references mentioned in
// the email text, in order of first appearance
func detectAttachments(emailText string) []string {
	matches := attachmentPattern.FindAllString(emailText, -1)
	seen := map[string]struct{}{}
	out := []string{}
	for _, m := range matches {
		key := strings.ToLower(m)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}
