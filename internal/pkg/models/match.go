package models

import (
	"time"
)

// Tier is the tournament strength bracket within the circuit.
type Tier string

const (
	TierT1 Tier = "T1"
	TierT2 Tier = "T2"
	TierT3 Tier = "T3"
	TierT4 Tier = "T4"
)

// Surface is the court surface a fixture is played on.
type Surface string

const (
	SurfaceHard   Surface = "Hard"
	SurfaceClay   Surface = "Clay"
	SurfaceGrass  Surface = "Grass"
	SurfaceIndoor Surface = "Indoor"
)

// Status is the lifecycle state of a fixture.
type Status string

const (
	StatusUpcoming  Status = "Upcoming"
	StatusLive      Status = "Live"
	StatusCompleted Status = "Completed"
	StatusPostponed Status = "Postponed"
	StatusCancelled Status = "Cancelled"
)

// UnknownTournament is the sentinel context name used when no header block
// could be attributed to a row. Records under it are still ingested.
const UnknownTournament = "Unknown"

// MatchRecord is one scraped fixture. It is built fresh each cycle from a DOM
// snapshot, enriched in place by the resolver and price matcher, then handed
// once to ingestion.
type MatchRecord struct {
	ID              string     `json:"id"`
	TournamentName  string     `json:"tournament_name"`
	Tier            Tier       `json:"tier"`
	Surface         Surface    `json:"surface"`
	ParticipantA    string     `json:"participant_a"`
	ParticipantB    string     `json:"participant_b"`
	Round           string     `json:"round,omitempty"`
	Status          Status     `json:"status"`
	LiveScore       string     `json:"live_score,omitempty"`
	ScheduledTime   *time.Time `json:"scheduled_time,omitempty"`
	PriceA          float64    `json:"price_a,omitempty"`
	PriceB          float64    `json:"price_b,omitempty"`
	Priced          bool       `json:"priced"`
	SourceTimestamp time.Time  `json:"source_timestamp"`
}

// TournamentContext is the resolved header context a row belongs to.
// It is consumed transiently by the resolver and never persisted on its own.
type TournamentContext struct {
	Name     string
	Category string
	Tier     Tier
	Surface  Surface
}

// Unknown reports whether the context is the sentinel produced when no header
// was found within the traversal bound.
func (c TournamentContext) Unknown() bool {
	return c.Name == UnknownTournament
}

// PricedFixture is one entry from the secondary priced-fixture feed.
// The two sources share no identifier; linkage is by name similarity only.
type PricedFixture struct {
	ParticipantA string  `json:"participant_a"`
	ParticipantB string  `json:"participant_b"`
	PriceA       float64 `json:"price_a"`
	PriceB       float64 `json:"price_b"`
}

// OutcomeStatus classifies what happened to one record during ingestion.
type OutcomeStatus string

const (
	OutcomeCreated   OutcomeStatus = "created"
	OutcomeDuplicate OutcomeStatus = "duplicate"
	OutcomeError     OutcomeStatus = "error"
)

// IngestionOutcome is the per-record result reported back by an ingestion worker.
type IngestionOutcome struct {
	RecordID   string
	Status     OutcomeStatus
	ExternalID string
	Err        error
}

// CycleReport aggregates one scrape cycle. Zero Extracted with zero Errored
// means an upstream outage; Errored > 0 with successes means partial failure.
type CycleReport struct {
	CycleID         string    `json:"cycle_id"`
	Extracted       int       `json:"extracted"`
	Created         int       `json:"created"`
	Duplicate       int       `json:"duplicate"`
	Errored         int       `json:"errored"`
	ExternalIDs     []string  `json:"external_ids,omitempty"`
	DurationSeconds float64   `json:"duration_seconds"`
	FinishedAt      time.Time `json:"finished_at"`
}
