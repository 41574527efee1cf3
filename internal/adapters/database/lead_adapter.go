package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/aimehq/venue-intake/internal/domain/entities"
	"github.com/aimehq/venue-intake/internal/domain/repositories"
	"github.com/aimehq/venue-intake/internal/infrastructure/clients/postgres"
	apperrors "github.com/aimehq/venue-intake/pkg/errors"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
)

const leadsTable = "venue_leads"

// LeadAdapter implements the LeadRepository interface. Every round is a
// separate row keyed (event_id, round_number); the unique constraint on
// that pair backs the optimistic concurrency check.
type LeadAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewLeadAdapter creates a new lead adapter
func NewLeadAdapter(client *postgres.Client) repositories.LeadRepository {
	return &LeadAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Save inserts the record unconditionally. Used for round 1, where the
// event id is freshly generated and cannot collide.
func (a *LeadAdapter) Save(ctx context.Context, record *entities.EventRecord) error {
	query, args, err := a.db.Insert(leadsTable).Rows(leadRecord(record)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to save lead", err)
	}

	return nil
}

// SaveIfLatest inserts the record only if expectedRound is still the
// highest persisted round for the event. The check and insert run in one
// transaction with the latest row locked, so two concurrent replies for
// the same round cannot both land.
func (a *LeadAdapter) SaveIfLatest(ctx context.Context, record *entities.EventRecord, expectedRound int) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query, args, err := a.db.Select("round_number").
		From(leadsTable).
		Where(goqu.Ex{"event_id": record.EventID}).
		Order(goqu.I("round_number").Desc()).
		Limit(1).
		ForUpdate(exp.Wait).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build round query", err)
	}

	var latestRound int
	err = tx.QueryRowContext(ctx, query, args...).Scan(&latestRound)
	if err == sql.ErrNoRows {
		return apperrors.NewNotFoundError(fmt.Sprintf("event %s not found", record.EventID))
	}
	if err != nil {
		return apperrors.NewInternalError("failed to read latest round", err)
	}

	if latestRound != expectedRound {
		return apperrors.NewStaleRoundError(
			fmt.Sprintf("round %d is no longer latest for event %s", expectedRound, record.EventID),
		)
	}

	query, args, err = a.db.Insert(leadsTable).Rows(leadRecord(record)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperrors.NewStaleRoundError(
				fmt.Sprintf("round %d already written for event %s", record.Round, record.EventID),
			)
		}
		return apperrors.NewInternalError("failed to save lead round", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit lead round", err)
	}

	return nil
}

// LoadLatest retrieves the highest-round record for an event id
func (a *LeadAdapter) LoadLatest(ctx context.Context, eventID string) (*entities.EventRecord, error) {
	query, args, err := a.db.Select(
		"event_id", "round_number", "full_name", "email", "phone", "location",
		"event_name", "event_type", "number_of_attendees", "number_of_sleeping_rooms",
		"budget", "event_start_date", "event_end_date",
		"is_complete", "created_at", "updated_at",
	).From(leadsTable).
		Where(goqu.Ex{"event_id": eventID}).
		Order(goqu.I("round_number").Desc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	record := &entities.EventRecord{}
	var (
		fullName, email, phone, location  sql.NullString
		eventName, eventType              sql.NullString
		attendees, sleepingRooms          sql.NullInt64
		budget                            sql.NullFloat64
		startDate, endDate                sql.NullTime
	)

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&record.EventID,
		&record.Round,
		&fullName,
		&email,
		&phone,
		&location,
		&eventName,
		&eventType,
		&attendees,
		&sleepingRooms,
		&budget,
		&startDate,
		&endDate,
		&record.IsComplete,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("event %s not found", eventID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load lead", err)
	}

	record.Fields = entities.LeadFields{
		FullName:  fullName.String,
		Email:     email.String,
		Phone:     phone.String,
		Location:  location.String,
		EventName: eventName.String,
		EventType: eventType.String,
	}
	if attendees.Valid {
		v := int(attendees.Int64)
		record.Fields.NumberOfAttendees = &v
	}
	if sleepingRooms.Valid {
		v := int(sleepingRooms.Int64)
		record.Fields.NumberOfSleepingRooms = &v
	}
	if budget.Valid {
		record.Fields.Budget = FormatBudget(budget.Float64)
	}
	if startDate.Valid {
		record.Fields.EventStartDate = startDate.Time.Format("2006-01-02")
	}
	if endDate.Valid {
		record.Fields.EventEndDate = endDate.Time.Format("2006-01-02")
	}

	return record, nil
}

// leadRecord maps an event record onto table columns. Absent fields go in
// as NULL so the presence rule survives the round trip.
func leadRecord(record *entities.EventRecord) goqu.Record {
	row := goqu.Record{
		"event_id":                 record.EventID,
		"round_number":             record.Round,
		"full_name":                nullText(record.Fields.FullName),
		"email":                    nullText(record.Fields.Email),
		"phone":                    nullText(record.Fields.Phone),
		"location":                 nullText(record.Fields.Location),
		"event_name":               nullText(record.Fields.EventName),
		"event_type":               nullText(record.Fields.EventType),
		"number_of_attendees":      record.Fields.NumberOfAttendees,
		"number_of_sleeping_rooms": record.Fields.NumberOfSleepingRooms,
		"is_complete":              record.IsComplete,
		"created_at":               record.CreatedAt,
		"updated_at":               record.UpdatedAt,
	}

	if amount, ok := ParseBudget(record.Fields.Budget); ok {
		row["budget"] = amount
	} else {
		row["budget"] = nil
	}
	row["event_start_date"] = nullText(record.Fields.EventStartDate)
	row["event_end_date"] = nullText(record.Fields.EventEndDate)

	return row
}

func nullText(value string) interface{} {
	if !entities.IsPresentValue(value) {
		return nil
	}
	return strings.TrimSpace(value)
}

// ParseBudget converts free-form budget text into a numeric amount.
// Currency symbols and thousands separators are stripped, and a trailing
// k multiplies by a thousand, so "$25k" and "25,000" both parse to 25000.
func ParseBudget(value string) (float64, bool) {
	if !entities.IsPresentValue(value) {
		return 0, false
	}

	clean := strings.TrimSpace(value)
	clean = strings.Trim(clean, "$€£ ")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)

	multiplier := 1.0
	if n := strings.TrimSuffix(strings.ToLower(clean), "k"); n != strings.ToLower(clean) {
		clean = n
		multiplier = 1000
	}

	amount, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return amount * multiplier, true
}

// FormatBudget renders a stored amount back into display form, e.g.
// 25000 -> "$25,000" and 1234.5 -> "$1,234.50"
func FormatBudget(amount float64) string {
	whole := int64(amount)
	fraction := amount - float64(whole)

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	if fraction > 0.004 {
		return fmt.Sprintf("$%s.%02d", b.String(), int(fraction*100+0.5))
	}
	return "$" + b.String()
}
