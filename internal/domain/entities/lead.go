package entities

import (
	"strconv"
	"strings"
)

// LeadFields is the closed record of the eleven intake fields. Text fields
// stay free-form in transit; counts are pointers so "absent" and "zero"
// stay distinct. Dates are carried as YYYY-MM-DD strings, normalized
// upstream by the extractor.
type LeadFields struct {
	FullName              string `json:"full_name,omitempty"`
	Email                 string `json:"email,omitempty"`
	Phone                 string `json:"phone,omitempty"`
	Location              string `json:"location,omitempty"`
	EventName             string `json:"event_name,omitempty"`
	EventType             string `json:"event_type,omitempty"`
	NumberOfAttendees     *int   `json:"number_of_attendees,omitempty"`
	NumberOfSleepingRooms *int   `json:"number_of_sleeping_rooms,omitempty"`
	Budget                string `json:"budget,omitempty"`
	EventStartDate        string `json:"event_start_date,omitempty"`
	EventEndDate          string `json:"event_end_date,omitempty"`
}

// Has reports whether the named field holds a present value per the
// sentinel rule. Unknown field names count as absent.
func (f *LeadFields) Has(name FieldName) bool {
	switch name {
	case FieldNumberOfAttendees:
		return f.NumberOfAttendees != nil
	case FieldNumberOfSleepingRooms:
		return f.NumberOfSleepingRooms != nil
	default:
		return IsPresentValue(f.text(name))
	}
}

// Value returns the field's display value and whether it is present
func (f *LeadFields) Value(name FieldName) (string, bool) {
	switch name {
	case FieldNumberOfAttendees:
		if f.NumberOfAttendees == nil {
			return "", false
		}
		return strconv.Itoa(*f.NumberOfAttendees), true
	case FieldNumberOfSleepingRooms:
		if f.NumberOfSleepingRooms == nil {
			return "", false
		}
		return strconv.Itoa(*f.NumberOfSleepingRooms), true
	default:
		v := strings.TrimSpace(f.text(name))
		return v, IsPresentValue(v)
	}
}

func (f *LeadFields) text(name FieldName) string {
	switch name {
	case FieldFullName:
		return f.FullName
	case FieldEmail:
		return f.Email
	case FieldPhone:
		return f.Phone
	case FieldLocation:
		return f.Location
	case FieldEventName:
		return f.EventName
	case FieldEventType:
		return f.EventType
	case FieldBudget:
		return f.Budget
	case FieldEventStartDate:
		return f.EventStartDate
	case FieldEventEndDate:
		return f.EventEndDate
	}
	return ""
}

func (f *LeadFields) setText(name FieldName, value string) {
	switch name {
	case FieldFullName:
		f.FullName = value
	case FieldEmail:
		f.Email = value
	case FieldPhone:
		f.Phone = value
	case FieldLocation:
		f.Location = value
	case FieldEventName:
		f.EventName = value
	case FieldEventType:
		f.EventType = value
	case FieldBudget:
		f.Budget = value
	case FieldEventStartDate:
		f.EventStartDate = value
	case FieldEventEndDate:
		f.EventEndDate = value
	}
}

// MissingFields returns the absent fields in schema order. Pure and total:
// a zero-value record yields the full schema.
func MissingFields(fields LeadFields) []FieldName {
	missing := []FieldName{}
	for _, name := range schemaOrder {
		if !fields.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// IsComplete reports whether every schema field holds a present value
func IsComplete(fields LeadFields) bool {
	return len(MissingFields(fields)) == 0
}

// Merge combines an existing record with newly extracted fields. A field is
// overwritten only when the new value is present per the sentinel rule, so
// present values are never erased back to absent. A nil extraction (the
// extractor failed) is a no-op.
func Merge(existing LeadFields, extracted *LeadFields) LeadFields {
	if extracted == nil {
		return existing
	}

	merged := existing
	for _, name := range schemaOrder {
		switch name {
		case FieldNumberOfAttendees:
			if extracted.NumberOfAttendees != nil {
				v := *extracted.NumberOfAttendees
				merged.NumberOfAttendees = &v
			}
		case FieldNumberOfSleepingRooms:
			if extracted.NumberOfSleepingRooms != nil {
				v := *extracted.NumberOfSleepingRooms
				merged.NumberOfSleepingRooms = &v
			}
		default:
			if v := strings.TrimSpace(extracted.text(name)); IsPresentValue(v) {
				merged.setText(name, v)
			}
		}
	}
	return merged
}
