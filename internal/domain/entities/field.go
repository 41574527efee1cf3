package entities

import "strings"

// FieldName identifies one required intake field
type FieldName string

const (
	FieldFullName              FieldName = "full_name"
	FieldEmail                 FieldName = "email"
	FieldPhone                 FieldName = "phone"
	FieldLocation              FieldName = "location"
	FieldEventName             FieldName = "event_name"
	FieldEventType             FieldName = "event_type"
	FieldNumberOfAttendees     FieldName = "number_of_attendees"
	FieldNumberOfSleepingRooms FieldName = "number_of_sleeping_rooms"
	FieldBudget                FieldName = "budget"
	FieldEventStartDate        FieldName = "event_start_date"
	FieldEventEndDate          FieldName = "event_end_date"
)

// schemaOrder is the canonical field order used everywhere missing fields
// are reported
var schemaOrder = []FieldName{
	FieldFullName,
	FieldEmail,
	FieldPhone,
	FieldLocation,
	FieldEventName,
	FieldEventType,
	FieldNumberOfAttendees,
	FieldNumberOfSleepingRooms,
	FieldBudget,
	FieldEventStartDate,
	FieldEventEndDate,
}

// Schema returns the required fields in canonical order
func Schema() []FieldName {
	out := make([]FieldName, len(schemaOrder))
	copy(out, schemaOrder)
	return out
}

// sentinels are values that count as "no information" despite being
// non-empty text
var sentinels = map[string]struct{}{
	"":     {},
	"n/a":  {},
	"none": {},
	"null": {},
}

// IsPresentValue applies the uniform presence rule: a value is present
// unless it is empty or case-insensitively equal to a reserved sentinel
func IsPresentValue(value string) bool {
	_, absent := sentinels[strings.ToLower(strings.TrimSpace(value))]
	return !absent
}

// Label turns a field name into a display label: underscores to spaces,
// title-cased ("number_of_attendees" -> "Number Of Attendees")
func (f FieldName) Label() string {
	words := strings.Split(string(f), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
