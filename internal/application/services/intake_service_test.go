package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aimehq/venue-intake/internal/application/services"
	"github.com/aimehq/venue-intake/internal/domain/entities"
	"github.com/aimehq/venue-intake/internal/i18n"
	apperrors "github.com/aimehq/venue-intake/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mocks

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Save(ctx context.Context, record *entities.EventRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockLeadRepository) SaveIfLatest(ctx context.Context, record *entities.EventRecord, expectedRound int) error {
	args := m.Called(ctx, record, expectedRound)
	return args.Error(0)
}

func (m *MockLeadRepository) LoadLatest(ctx context.Context, eventID string) (*entities.EventRecord, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EventRecord), args.Error(1)
}

type MockLeadExtractor struct {
	mock.Mock
}

func (m *MockLeadExtractor) ExtractLead(ctx context.Context, emailText string) (*entities.LeadFields, error) {
	args := m.Called(ctx, emailText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LeadFields), args.Error(1)
}

func (m *MockLeadExtractor) ExtractReply(ctx context.Context, replyText string, missing []entities.FieldName) (*entities.LeadFields, error) {
	args := m.Called(ctx, replyText, missing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LeadFields), args.Error(1)
}

func newIntakeService(repo *MockLeadRepository, extractor *MockLeadExtractor) *services.IntakeService {
	return services.NewIntakeService(repo, extractor, services.NewCommunicator(i18n.DefaultCatalog()))
}

// Tests

func TestIntakeService_Start(t *testing.T) {
	t.Run("complete extraction renders thank-you and saves round 1", func(t *testing.T) {
		repo := new(MockLeadRepository)
		extractor := new(MockLeadExtractor)
		service := newIntakeService(repo, extractor)

		fields := allFields()
		extractor.On("ExtractLead", mock.Anything, mock.Anything).Return(&fields, nil)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(r *entities.EventRecord) bool {
			return r.Round == 1 && r.IsComplete && strings.HasPrefix(r.EventID, "REQ-")
		})).Return(nil)

		result, err := service.Start(context.Background(), "We'd like to book the Annual Summit...", "English")
		require.NoError(t, err)

		assert.Empty(t, result.MissingFields)
		assert.True(t, result.IsComplete)
		assert.Equal(t, 1, result.Round)
		assert.Contains(t, result.FollowupEmail, "Hi Priya,")
		repo.AssertExpectations(t)
	})

	t.Run("partial extraction lists the missing fields in schema order", func(t *testing.T) {
		repo := new(MockLeadRepository)
		extractor := new(MockLeadExtractor)
		service := newIntakeService(repo, extractor)

		extractor.On("ExtractLead", mock.Anything, mock.Anything).
			Return(&entities.LeadFields{FullName: "Arjun", EventType: "conference"}, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		result, err := service.Start(context.Background(), "Hi, Arjun here about a conference", "English")
		require.NoError(t, err)

		assert.False(t, result.IsComplete)
		assert.Len(t, result.MissingFields, 9)
		assert.Equal(t, entities.FieldEmail, result.MissingFields[0])
		assert.Contains(t, result.FollowupEmail, "Could you please provide")
	})

	t.Run("extraction failure surfaces as extraction error with no write", func(t *testing.T) {
		repo := new(MockLeadRepository)
		extractor := new(MockLeadExtractor)
		service := newIntakeService(repo, extractor)

		extractor.On("ExtractLead", mock.Anything, mock.Anything).Return(nil, errors.New("model timeout"))

		_, err := service.Start(context.Background(), "garbled", "English")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExtraction))
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("nil extraction without error is still an extraction failure", func(t *testing.T) {
		repo := new(MockLeadRepository)
		extractor := new(MockLeadExtractor)
		service := newIntakeService(repo, extractor)

		extractor.On("ExtractLead", mock.Anything, mock.Anything).Return(nil, nil)

		_, err := service.Start(context.Background(), "garbled", "English")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExtraction))
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("persistence failure propagates after extraction", func(t *testing.T) {
		repo := new(MockLeadRepository)
		extractor := new(MockLeadExtractor)
		service := newIntakeService(repo, extractor)

		fields := allFields()
		extractor.On("ExtractLead", mock.Anything, mock.Anything).Return(&fields, nil)
		repo.On("Save", mock.Anything, mock.Anything).
			Return(apperrors.NewInternalError("failed to save lead", errors.New("connection refused")))

		_, err := service.Start(context.Background(), "text", "English")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	})

	t.Run("detects attachment references", func(t *testing.T) {
		repo := new(MockLeadRepository)
		extractor := new(MockLeadExtractor)
		service := newIntakeService(repo, extractor)

		fields := allFields()
		extractor.On("ExtractLead", mock.Anything, mock.Anything).Return(&fields, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		result, err := service.Start(context.Background(),
			"Attached are agenda.pdf and floorplan.XLSX, plus agenda.pdf again.", "English")
		require.NoError(t, err)
		assert.Equal(t, []string{"agenda.pdf", "floorplan.XLSX"}, result.Attachments)
	})

	t.Run("unsupported language is flagged, not failed", func(t *testing.T) {
		repo := new(MockLeadRepository)
		extractor := new(MockLeadExtractor)
		service := newIntakeService(repo, extractor)

		fields := allFields()
		extractor.On("ExtractLead", mock.Anything, mock.Anything).Return(&fields, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		result, err := service.Start(context.Background(), "text", "Spanish")
		require.NoError(t, err)
		assert.True(t, result.LanguageFallback)
	})
}

func TestIntakeService_Continue(t *testing.T) {
	t.Run("unknown event id fails with not found and no write", func(t *testing.T) {
		repo := new(MockLeadRepository)
		extractor := new(MockLeadExtractor)
		service := newIntakeService(repo, extractor)

		repo.On("LoadLatest", mock.Anything, "REQ-20260828-FFFFFFFF").
			Return(nil, apperrors.NewNotFoundError("event REQ-20260828-FFFFFFFF not found"))

		_, err := service.Continue(context.Background(), "REQ-20260828-FFFFFFFF", "reply", 1)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
		repo.AssertNotCalled(t, "SaveIfLatest")
		extractor.AssertNotCalled(t, "ExtractReply")
	})

	t.Run("reply fills one gap and round advances by one", func(t *testing.T) {
		repo := new(MockLeadRepository)
		extractor := new(MockLeadExtractor)
		service := newIntakeService(repo, extractor)

		stored := allFields()
		stored.Budget = ""
		stored.EventEndDate = ""
		current := entities.NewEventRecord("REQ-20260828-1A2B3C4D", 1, stored)

		repo.On("LoadLatest", mock.Anything, "REQ-20260828-1A2B3C4D").Return(current, nil)

		// Reply extraction is scoped to exactly the persisted record's gaps
		wantMissing := []entities.FieldName{entities.FieldBudget, entities.FieldEventEndDate}
		extractor.On("ExtractReply", mock.Anything, "Our budget is $20,000", wantMissing).
			Return(&entities.LeadFields{Budget: "$20,000"}, nil)

		repo.On("SaveIfLatest", mock.Anything, mock.MatchedBy(func(r *entities.EventRecord) bool {
			return r.Round == 2 && r.Fields.Budget == "$20,000" && !r.IsComplete
		}), 1).Return(nil)

		result, err := service.Continue(context.Background(), "REQ-20260828-1A2B3C4D", "Our budget is $20,000", 1)
		require.NoError(t, err)

		assert.Equal(t, 2, result.Round)
		assert.Equal(t, []entities.FieldName{entities.FieldEventEndDate}, result.MissingFields)
		assert.Contains(t, result.FollowupEmail, "I still need a few more details")
		repo.AssertExpectations(t)
		extractor.AssertExpectations(t)
	})

	t.Run("completing reply renders thank-you", func(t *testing.T) {
		repo := new(MockLeadRepository)
		extractor := new(MockLeadExtractor)
		service := newIntakeService(repo, extractor)

		stored := allFields()
		stored.Budget = ""
		current := entities.NewEventRecord("REQ-20260828-1A2B3C4D", 2, stored)

		repo.On("LoadLatest", mock.Anything, mock.Anything).Return(current, nil)
		extractor.On("ExtractReply", mock.Anything, mock.Anything, mock.Anything).
			Return(&entities.LeadFields{Budget: "$50,000"}, nil)
		repo.On("SaveIfLatest", mock.Anything, mock.MatchedBy(func(r *entities.EventRecord) bool {
			return r.Round == 3 && r.IsComplete
		}), 2).Return(nil)

		result, err := service.Continue(context.Background(), "REQ-20260828-1A2B3C4D", "Budget is $50,000", 2)
		require.NoError(t, err)
		assert.True(t, result.IsComplete)
		assert.Empty(t, result.MissingFields)
		assert.Contains(t, result.FollowupEmail, "Thank you for providing all the details")
	})

	t.Run("failed reply extraction still advances the round", func(t *testing.T) {
		repo := new(MockLeadRepository)
		extractor := new(MockLeadExtractor)
		service := newIntakeService(repo, extractor)

		stored := allFields()
		stored.Budget = ""
		current := entities.NewEventRecord("REQ-20260828-1A2B3C4D", 1, stored)

		repo.On("LoadLatest", mock.Anything, mock.Anything).Return(current, nil)
		extractor.On("ExtractReply", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("model returned no JSON"))
		repo.On("SaveIfLatest", mock.Anything, mock.MatchedBy(func(r *entities.EventRecord) bool {
			return r.Round == 2 && r.Fields.Budget == ""
		}), 1).Return(nil)

		result, err := service.Continue(context.Background(), "REQ-20260828-1A2B3C4D", "??", 1)
		require.NoError(t, err)

		assert.Equal(t, 2, result.Round)
		assert.Equal(t, []entities.FieldName{entities.FieldBudget}, result.MissingFields)
		assert.Contains(t, result.FollowupEmail, "Do you have a budget?")
	})

	t.Run("stale write retries once against fresh state", func(t *testing.T) {
		repo := new(MockLeadRepository)
		extractor := new(MockLeadExtractor)
		service := newIntakeService(repo, extractor)

		stored := allFields()
		stored.Budget = ""
		first := entities.NewEventRecord("REQ-20260828-1A2B3C4D", 1, stored)
		fresh := entities.NewEventRecord("REQ-20260828-1A2B3C4D", 2, stored)

		repo.On("LoadLatest", mock.Anything, mock.Anything).Return(first, nil).Once()
		extractor.On("ExtractReply", mock.Anything, mock.Anything, mock.Anything).
			Return(&entities.LeadFields{Budget: "$10,000"}, nil)
		repo.On("SaveIfLatest", mock.Anything, mock.Anything, 1).
			Return(apperrors.NewStaleRoundError("round 1 is no longer latest")).Once()
		repo.On("LoadLatest", mock.Anything, mock.Anything).Return(fresh, nil).Once()
		repo.On("SaveIfLatest", mock.Anything, mock.MatchedBy(func(r *entities.EventRecord) bool {
			return r.Round == 3 && r.Fields.Budget == "$10,000"
		}), 2).Return(nil).Once()

		result, err := service.Continue(context.Background(), "REQ-20260828-1A2B3C4D", "Budget $10,000", 1)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Round)
		repo.AssertExpectations(t)
	})

	t.Run("second collision fails with conflict", func(t *testing.T) {
		repo := new(MockLeadRepository)
		extractor := new(MockLeadExtractor)
		service := newIntakeService(repo, extractor)

		stored := allFields()
		stored.Budget = ""
		record := entities.NewEventRecord("REQ-20260828-1A2B3C4D", 1, stored)

		repo.On("LoadLatest", mock.Anything, mock.Anything).Return(record, nil)
		extractor.On("ExtractReply", mock.Anything, mock.Anything, mock.Anything).
			Return(&entities.LeadFields{Budget: "$10,000"}, nil)
		repo.On("SaveIfLatest", mock.Anything, mock.Anything, mock.Anything).
			Return(apperrors.NewStaleRoundError("round is no longer latest"))

		_, err := service.Continue(context.Background(), "REQ-20260828-1A2B3C4D", "Budget $10,000", 1)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})
}
