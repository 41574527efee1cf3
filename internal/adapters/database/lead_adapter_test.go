package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBudget(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"plain number", "25000", 25000, true},
		{"dollar sign", "$25000", 25000, true},
		{"thousands separators", "$25,000", 25000, true},
		{"k suffix", "$25k", 25000, true},
		{"uppercase k suffix", "25K", 25000, true},
		{"euro sign", "€10,500", 10500, true},
		{"decimal", "$1,234.50", 1234.50, true},
		{"empty", "", 0, false},
		{"sentinel", "n/a", 0, false},
		{"free text", "around fifteen thousand", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBudget(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func TestFormatBudget(t *testing.T) {
	assert.Equal(t, "$25,000", FormatBudget(25000))
	assert.Equal(t, "$1,234.50", FormatBudget(1234.5))
	assert.Equal(t, "$500", FormatBudget(500))
	assert.Equal(t, "$1,000,000", FormatBudget(1000000))
}

func TestBudgetRoundTrip(t *testing.T) {
	amount, ok := ParseBudget("$25k")
	assert.True(t, ok)
	assert.Equal(t, "$25,000", FormatBudget(amount))
}

// TestSaveIfLatestStaleRound documents the optimistic concurrency check
func TestSaveIfLatestStaleRound(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}

	// This test would require a test database setup
	// For now, we document the expected behavior:
	//
	// GIVEN: An event whose latest persisted round is 2
	// WHEN: SaveIfLatest is called with expectedRound=1
	// THEN: The insert is refused with a STALE_ROUND error and no row is written
	//
	// The unique constraint on (event_id, round_number) backs the in-transaction
	// check, so two writers racing on the same round cannot both land
	t.Log("Expected: stale expectedRound is rejected, unique constraint catches races")
}
