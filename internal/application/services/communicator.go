package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aimehq/venue-intake/internal/domain/entities"
	"github.com/aimehq/venue-intake/internal/i18n"
	apperrors "github.com/aimehq/venue-intake/pkg/errors"
)

// placeholderValue is substituted for a field that is somehow absent on the
// thank-you path despite the empty missing-field check
const placeholderValue = "TBD"

// defaultGreetingName is used when no contact name is on file
const defaultGreetingName = "Guest"

// Communicator selects and renders one of the three message templates based
// on the missing-field set and round number, localized per language
type Communicator struct {
	catalog i18n.Catalog
}

// NewCommunicator creates a communicator over an immutable language catalog
func NewCommunicator(catalog i18n.Catalog) *Communicator {
	return &Communicator{catalog: catalog}
}

// ComposedMessage is the rendered email body plus localization metadata
type ComposedMessage struct {
	Body string

	// LanguageFallback is set when the requested language had no complete
	// bundle and the base language was used instead
	LanguageFallback bool
}

// Compose renders the email body for the given state:
//   - no missing fields: thank-you confirmation summarizing every value
//   - missing fields, round 1: first follow-up
//   - missing fields, round >= 2: subsequent follow-up
//
// The three branches are exhaustive.
func (c *Communicator) Compose(missing []entities.FieldName, fields entities.LeadFields, round int, language string) (*ComposedMessage, error) {
	bundle, fellBack := c.catalog.Resolve(language)

	vars := map[string]string{
		"full_name":  greetingName(fields),
		"event_name": fieldOrDefault(fields, entities.FieldEventName, "your event"),
		"event_type": fieldOrDefault(fields, entities.FieldEventType, "event"),
	}

	var tmpl string
	switch {
	case len(missing) == 0:
		tmpl = bundle.Templates.ThankYou
		for _, name := range []entities.FieldName{
			entities.FieldLocation,
			entities.FieldNumberOfAttendees,
			entities.FieldNumberOfSleepingRooms,
			entities.FieldBudget,
			entities.FieldEventStartDate,
			entities.FieldEventEndDate,
		} {
			vars[string(name)] = fieldOrDefault(fields, name, placeholderValue)
		}
	case round == 1:
		tmpl = bundle.Templates.Followup
		vars["missing_list"] = missingList(missing)
		vars["questions"] = questionList(missing, bundle)
	default:
		tmpl = bundle.Templates.PartialFollowup
		vars["missing_list"] = missingList(missing)
		vars["questions"] = questionList(missing, bundle)
	}

	body, err := renderTemplate(tmpl, vars)
	if err != nil {
		return nil, err
	}

	return &ComposedMessage{
		Body:             body,
		LanguageFallback: fellBack,
	}, nil
}

// greetingName returns the first whitespace-separated token of the stored
// full name. The full name itself stays unmodified in the record.
func greetingName(fields entities.LeadFields) string {
	name, ok := fields.Value(entities.FieldFullName)
	if !ok {
		return defaultGreetingName
	}
	return strings.Fields(name)[0]
}

func fieldOrDefault(fields entities.LeadFields, name entities.FieldName, fallback string) string {
	if v, ok := fields.Value(name); ok {
		return v
	}
	return fallback
}

func missingList(missing []entities.FieldName) string {
	lines := make([]string, len(missing))
	for i, name := range missing {
		lines[i] = "• " + name.Label()
	}
	return strings.Join(lines, "\n")
}

func questionList(missing []entities.FieldName, bundle i18n.Bundle) string {
	lines := make([]string, len(missing))
	for i, name := range missing {
		question, ok := bundle.Prompts[name]
		if !ok {
			question = name.Label() + "?"
		}
		lines[i] = "- " + question
	}
	return strings.Join(lines, "\n")
}

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// renderTemplate substitutes {name} placeholders from vars. Any placeholder
// left without a substitution after defaulting is an error rather than a
// silently broken message.
func renderTemplate(tmpl string, vars map[string]string) (string, error) {
	var unresolved []string
	body := placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		key := match[1 : len(match)-1]
		if value, ok := vars[key]; ok {
			return value
		}
		unresolved = append(unresolved, key)
		return match
	})

	if len(unresolved) > 0 {
		return "", apperrors.NewTemplateRenderError(
			fmt.Sprintf("no substitution for placeholder(s): %s", strings.Join(unresolved, ", ")),
		)
	}
	return body, nil
}
