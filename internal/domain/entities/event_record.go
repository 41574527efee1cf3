package entities

import (
	"time"
)

// EventRecord is the accumulating state for one planning request. One row
// exists per (event id, round); the latest round is the current state.
type EventRecord struct {
	EventID    string     `json:"event_id" db:"event_id"`
	Round      int        `json:"round_number" db:"round_number"`
	Fields     LeadFields `json:"fields"`
	IsComplete bool       `json:"is_complete" db:"is_complete"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// NewEventRecord builds a record for the given round with the completeness
// flag derived from the fields
func NewEventRecord(eventID string, round int, fields LeadFields) *EventRecord {
	now := time.Now()
	return &EventRecord{
		EventID:    eventID,
		Round:      round,
		Fields:     fields,
		IsComplete: IsComplete(fields),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
