package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aimehq/venue-intake/internal/adapters/database"
	"github.com/aimehq/venue-intake/internal/domain/entities"
	"github.com/aimehq/venue-intake/internal/infrastructure/clients/postgres"
	"github.com/aimehq/venue-intake/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS venue_leads (
	event_id                 TEXT        NOT NULL,
	round_number             INTEGER     NOT NULL,
	full_name                TEXT,
	email                    TEXT,
	phone                    TEXT,
	location                 TEXT,
	event_name               TEXT,
	event_type               TEXT,
	number_of_attendees      INTEGER,
	number_of_sleeping_rooms INTEGER,
	budget                   NUMERIC(14, 2),
	event_start_date         DATE,
	event_end_date           DATE,
	is_complete              BOOLEAN     NOT NULL DEFAULT FALSE,
	created_at               TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at               TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (event_id, round_number)
);

CREATE INDEX IF NOT EXISTS idx_venue_leads_event_round
	ON venue_leads (event_id, round_number DESC);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping venue_leads before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `DROP TABLE IF EXISTS venue_leads`); err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	log.Println("Schema ready")

	if os.Getenv("SEED_DEMO_DATA") != "true" {
		return
	}

	leadRepo := database.NewLeadAdapter(pgClient)

	attendees := 120
	rooms := 60
	today := time.Now().Format("20060102")

	// A completed request
	complete := entities.NewEventRecord("REQ-"+today+"-DEMO0001", 1, entities.LeadFields{
		FullName:              "Priya Sharma",
		Email:                 "priya.sharma@example.com",
		Phone:                 "+1-415-555-0134",
		Location:              "Austin, TX",
		EventName:             "Annual Sales Summit",
		EventType:             "conference",
		NumberOfAttendees:     &attendees,
		NumberOfSleepingRooms: &rooms,
		Budget:                "$45,000",
		EventStartDate:        "2026-10-12",
		EventEndDate:          "2026-10-14",
	})
	if err := leadRepo.Save(ctx, complete); err != nil {
		log.Printf("Failed to seed complete request: %v", err)
	}

	// A request still missing budget and dates, two rounds in
	partial := entities.NewEventRecord("REQ-"+today+"-DEMO0002", 1, entities.LeadFields{
		FullName:  "Arjun Mehta",
		Email:     "arjun@example.com",
		Location:  "Chicago, IL",
		EventName: "Leadership Offsite",
		EventType: "corporate event",
	})
	if err := leadRepo.Save(ctx, partial); err != nil {
		log.Printf("Failed to seed partial request: %v", err)
	}

	round2 := entities.Merge(partial.Fields, &entities.LeadFields{
		Phone:             "+1-312-555-0188",
		NumberOfAttendees: &attendees,
	})
	if err := leadRepo.SaveIfLatest(ctx, entities.NewEventRecord(partial.EventID, 2, round2), 1); err != nil {
		log.Printf("Failed to seed reply round: %v", err)
	}

	log.Println("Demo data seeded")
}
