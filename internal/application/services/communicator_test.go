package services_test

import (
	"testing"

	"github.com/aimehq/venue-intake/internal/application/services"
	"github.com/aimehq/venue-intake/internal/domain/entities"
	"github.com/aimehq/venue-intake/internal/i18n"
	apperrors "github.com/aimehq/venue-intake/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func allFields() entities.LeadFields {
	return entities.LeadFields{
		FullName:              "Priya Sharma",
		Email:                 "p@x.com",
		Phone:                 "+1 555 0100",
		Location:              "Austin, TX",
		EventName:             "Annual Summit",
		EventType:             "conference",
		NumberOfAttendees:     intPtr(120),
		NumberOfSleepingRooms: intPtr(60),
		Budget:                "$50,000",
		EventStartDate:        "2026-03-15",
		EventEndDate:          "2026-03-17",
	}
}

func TestCommunicator_Compose_TemplateSelection(t *testing.T) {
	communicator := services.NewCommunicator(i18n.DefaultCatalog())

	t.Run("no missing fields renders thank-you summary", func(t *testing.T) {
		msg, err := communicator.Compose(nil, allFields(), 1, "English")
		require.NoError(t, err)

		assert.Contains(t, msg.Body, "Hi Priya,")
		assert.Contains(t, msg.Body, "Annual Summit (conference)")
		assert.Contains(t, msg.Body, "Attendees: 120 people")
		assert.Contains(t, msg.Body, "Dates: 2026-03-15 to 2026-03-17")
		assert.False(t, msg.LanguageFallback)
	})

	t.Run("round 1 with missing fields renders first follow-up", func(t *testing.T) {
		missing := []entities.FieldName{entities.FieldBudget, entities.FieldEventEndDate}
		msg, err := communicator.Compose(missing, entities.LeadFields{FullName: "Arjun", EventType: "conference"}, 1, "English")
		require.NoError(t, err)

		assert.Contains(t, msg.Body, "Hi Arjun,")
		assert.Contains(t, msg.Body, "Thank you for your conference request!")
		assert.Contains(t, msg.Body, "• Budget")
		assert.Contains(t, msg.Body, "• Event End Date")
		assert.Contains(t, msg.Body, "- Do you have a budget?")
	})

	t.Run("round 2 renders subsequent follow-up", func(t *testing.T) {
		missing := []entities.FieldName{entities.FieldEventEndDate}
		msg, err := communicator.Compose(missing, entities.LeadFields{FullName: "Arjun", EventName: "Kickoff"}, 2, "English")
		require.NoError(t, err)

		assert.Contains(t, msg.Body, "additional information about your Kickoff!")
		assert.Contains(t, msg.Body, "- What is the event end date?")
		assert.NotContains(t, msg.Body, "Optional Services")
	})
}

func TestCommunicator_Compose_Greeting(t *testing.T) {
	communicator := services.NewCommunicator(i18n.DefaultCatalog())

	t.Run("greeting uses only the first name token", func(t *testing.T) {
		fields := allFields()
		fields.FullName = "Priya Sharma Patel"
		msg, err := communicator.Compose(nil, fields, 1, "English")
		require.NoError(t, err)
		assert.Contains(t, msg.Body, "Hi Priya,")
		assert.NotContains(t, msg.Body, "Hi Priya Sharma")
	})

	t.Run("missing name falls back to Guest", func(t *testing.T) {
		missing := entities.MissingFields(entities.LeadFields{})
		msg, err := communicator.Compose(missing, entities.LeadFields{}, 1, "English")
		require.NoError(t, err)
		assert.Contains(t, msg.Body, "Hi Guest,")
	})

	t.Run("sentinel name falls back to Guest", func(t *testing.T) {
		fields := entities.LeadFields{FullName: "n/a"}
		missing := entities.MissingFields(fields)
		msg, err := communicator.Compose(missing, fields, 1, "English")
		require.NoError(t, err)
		assert.Contains(t, msg.Body, "Hi Guest,")
	})
}

func TestCommunicator_Compose_LanguageFallback(t *testing.T) {
	communicator := services.NewCommunicator(i18n.DefaultCatalog())

	t.Run("voice-only bundle falls back to English wholesale", func(t *testing.T) {
		msg, err := communicator.Compose(nil, allFields(), 1, "Spanish")
		require.NoError(t, err)
		assert.True(t, msg.LanguageFallback)
		assert.Contains(t, msg.Body, "Warm regards")
	})

	t.Run("unknown language falls back with flag", func(t *testing.T) {
		msg, err := communicator.Compose(nil, allFields(), 1, "Klingon")
		require.NoError(t, err)
		assert.True(t, msg.LanguageFallback)
	})
}

func TestCommunicator_Compose_QuestionFallback(t *testing.T) {
	// A bundle with templates but without a prompt for one field generates
	// the question from the field label.
	catalog := i18n.NewCatalog(map[string]i18n.Bundle{
		i18n.DefaultLanguage: {
			Voice: "en-US-AriaNeural",
			Prompts: map[entities.FieldName]string{
				entities.FieldBudget: "Do you have a budget?",
			},
			Templates: i18n.Templates{
				ThankYou:        "Hi {full_name}, all set for {event_name}.",
				Followup:        "Hi {full_name},\n{missing_list}\n{questions}",
				PartialFollowup: "Hi {full_name},\n{missing_list}\n{questions}",
			},
		},
	})
	communicator := services.NewCommunicator(catalog)

	missing := []entities.FieldName{entities.FieldBudget, entities.FieldEventEndDate}
	msg, err := communicator.Compose(missing, entities.LeadFields{FullName: "Arjun"}, 1, "English")
	require.NoError(t, err)

	assert.Contains(t, msg.Body, "- Do you have a budget?")
	assert.Contains(t, msg.Body, "- Event End Date?")
}

func TestCommunicator_Compose_StrictRendering(t *testing.T) {
	catalog := i18n.NewCatalog(map[string]i18n.Bundle{
		i18n.DefaultLanguage: {
			Voice: "en-US-AriaNeural",
			Templates: i18n.Templates{
				ThankYou:        "Hi {full_name}, see you at {venue_code}.",
				Followup:        "Hi {full_name}",
				PartialFollowup: "Hi {full_name}",
			},
		},
	})
	communicator := services.NewCommunicator(catalog)

	_, err := communicator.Compose(nil, allFields(), 1, "English")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTemplateRender))
	assert.Contains(t, err.Error(), "venue_code")
}
