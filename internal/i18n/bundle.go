package i18n

import (
	"github.com/aimehq/venue-intake/internal/domain/entities"
)

// DefaultLanguage is the base language every lookup falls back to
const DefaultLanguage = "English"

// Templates holds the three message templates for one language
type Templates struct {
	ThankYou        string
	Followup        string
	PartialFollowup string
}

// Bundle holds the localized assets for one language: a voice id for
// speech synthesis, per-field clarifying questions, and message templates
type Bundle struct {
	Voice     string
	Prompts   map[entities.FieldName]string
	Templates Templates
}

// complete reports whether the bundle can render every template on its own
func (b Bundle) complete() bool {
	return b.Templates.ThankYou != "" &&
		b.Templates.Followup != "" &&
		b.Templates.PartialFollowup != ""
}

// Catalog is an immutable mapping from language name to bundle. It is
// built once at process start and passed into the communicator; it is
// never mutated at runtime.
type Catalog struct {
	bundles map[string]Bundle
}

// NewCatalog builds a catalog from the given bundles. The default language
// must be present and complete.
func NewCatalog(bundles map[string]Bundle) Catalog {
	copied := make(map[string]Bundle, len(bundles))
	for name, b := range bundles {
		copied[name] = b
	}
	return Catalog{bundles: copied}
}

// Resolve returns the bundle for the language, falling back to the base
// bundle wholesale when the requested one is missing or incomplete. The
// second return reports whether a fallback happened, so callers can
// surface the downgrade without treating it as an error. Partial
// localization is never mixed into a single message.
func (c Catalog) Resolve(language string) (Bundle, bool) {
	base := c.bundles[DefaultLanguage]
	if language == "" || language == DefaultLanguage {
		return base, false
	}
	bundle, ok := c.bundles[language]
	if !ok || !bundle.complete() {
		return base, true
	}
	return bundle, false
}

// Voice returns the synthesis voice for the language, defaulting to the
// base language's voice when the language is unmapped. Voice selection is
// independent of template completeness: a language with only a voice
// configured still speaks in its own voice.
func (c Catalog) Voice(language string) string {
	if bundle, ok := c.bundles[language]; ok && bundle.Voice != "" {
		return bundle.Voice
	}
	return c.bundles[DefaultLanguage].Voice
}
