package i18n_test

import (
	"testing"

	"github.com/aimehq/venue-intake/internal/i18n"
	"github.com/stretchr/testify/assert"
)

func TestCatalog_Resolve(t *testing.T) {
	catalog := i18n.DefaultCatalog()

	t.Run("base language resolves without fallback", func(t *testing.T) {
		bundle, fellBack := catalog.Resolve("English")
		assert.False(t, fellBack)
		assert.NotEmpty(t, bundle.Templates.ThankYou)
	})

	t.Run("incomplete bundle falls back wholesale", func(t *testing.T) {
		bundle, fellBack := catalog.Resolve("Spanish")
		assert.True(t, fellBack)
		// English templates, never partially localized
		assert.Contains(t, bundle.Templates.Followup, "Warm regards")
	})

	t.Run("unknown language falls back", func(t *testing.T) {
		_, fellBack := catalog.Resolve("Klingon")
		assert.True(t, fellBack)
	})

	t.Run("empty language means base", func(t *testing.T) {
		_, fellBack := catalog.Resolve("")
		assert.False(t, fellBack)
	})
}

func TestCatalog_Voice(t *testing.T) {
	catalog := i18n.DefaultCatalog()

	// A voice-only bundle still speaks in its own voice
	assert.Equal(t, "es-ES-ElviraNeural", catalog.Voice("Spanish"))
	assert.Equal(t, "de-DE-KatjaNeural", catalog.Voice("German"))
	assert.Equal(t, "en-US-AriaNeural", catalog.Voice("Klingon"))
	assert.Equal(t, "en-US-AriaNeural", catalog.Voice("English"))
}
