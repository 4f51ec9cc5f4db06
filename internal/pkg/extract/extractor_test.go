package extract

import (
	"testing"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/models"
)

const primarySnapshot = `
<html><body>
<div class="sportName tennis">
  <div class="event__header">
    <div class="event__title--type">ITF</div>
    <div class="event__title--name">T2 CityX - Hard</div>
  </div>
  <div class="event__match" id="g_2_aaa">
    <div class="event__time">11:30</div>
    <div class="event__participant--home">Anna Bondar</div>
    <div class="event__participant--away">Sara Errani</div>
  </div>
  <div class="event__match" id="g_2_bbb">
    <div class="event__stage">2nd set</div>
    <div class="event__participant--home">Maria Timofeeva</div>
    <div class="event__participant--away">Elena Pridankina</div>
    <div class="event__score">1:0</div>
  </div>
</div>
</body></html>`

// Rows carry only the generated id prefix; every class-based row selector
// misses, so the cascade has to fall through to the id strategy.
const idPrefixSnapshot = `
<html><body>
<div class="sportName tennis">
  <div class="event__header">
    <div class="event__title--type">ITF</div>
    <div class="event__title--name">T3 CityY - Clay</div>
  </div>
  <div id="g_2_ccc" class="eventRow">
    <div class="event__time">12:00</div>
    <div class="event__participant--home">Anna Bondar</div>
    <div class="event__participant--away">Sara Errani</div>
  </div>
  <div id="g_2_ddd" class="eventRow">
    <div class="event__time">13:00</div>
    <div class="event__participant--home">Maria Timofeeva</div>
    <div class="event__participant--away">Elena Pridankina</div>
  </div>
</div>
</body></html>`

// Participant classes are gone entirely; names are only recoverable via the
// generic text-node heuristic.
const genericParticipantSnapshot = `
<html><body>
<div class="sportName tennis">
  <div class="event__header">
    <div class="event__title--type">ITF</div>
    <div class="event__title--name">T2 CityX - Hard</div>
  </div>
  <div class="event__match" id="g_2_eee">
    <span>11:30</span>
    <span>Maria Timofeeva</span>
    <span>vs</span>
    <span>Elena Pridankina</span>
  </div>
</div>
</body></html>`

const noParticipantSnapshot = `
<html><body>
<div class="event__match" id="g_2_fff">
  <span>vs</span>
  <span>v</span>
</div>
</body></html>`

func TestExtract_PrimaryStrategy(t *testing.T) {
	engine := NewEngine()

	records, err := engine.Extract(primarySnapshot, "")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.ParticipantA != "Anna Bondar" || first.ParticipantB != "Sara Errani" {
		t.Errorf("unexpected participants: %q vs %q", first.ParticipantA, first.ParticipantB)
	}
	if first.TournamentName != "ITF T2 CityX - Hard" {
		t.Errorf("unexpected tournament name: %q", first.TournamentName)
	}
	if first.Tier != models.TierT2 {
		t.Errorf("expected tier T2, got %s", first.Tier)
	}
	if first.Surface != models.SurfaceHard {
		t.Errorf("expected Hard surface, got %s", first.Surface)
	}
	if first.Status != models.StatusUpcoming {
		t.Errorf("expected Upcoming, got %s", first.Status)
	}
	if first.ScheduledTime == nil {
		t.Error("expected scheduled time to be parsed")
	} else if first.ScheduledTime.Hour() != 11 || first.ScheduledTime.Minute() != 30 {
		t.Errorf("unexpected scheduled time: %v", first.ScheduledTime)
	}
	if first.ID == "" {
		t.Error("record ID must be set")
	}

	second := records[1]
	if second.Status != models.StatusLive {
		t.Errorf("expected Live for row with stage text, got %s", second.Status)
	}
	if second.LiveScore != "1:0" {
		t.Errorf("expected live score 1:0, got %q", second.LiveScore)
	}
}

func TestExtract_FallsBackToIDPrefixStrategy(t *testing.T) {
	engine := NewEngine()

	records, err := engine.Extract(idPrefixSnapshot, "")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("second-priority selector should still yield 2 records, got %d", len(records))
	}
	if records[0].Surface != models.SurfaceClay {
		t.Errorf("expected Clay surface, got %s", records[0].Surface)
	}
	if records[0].Tier != models.TierT3 {
		t.Errorf("expected tier T3, got %s", records[0].Tier)
	}
}

func TestExtract_GenericParticipantHeuristic(t *testing.T) {
	engine := NewEngine()

	records, err := engine.Extract(genericParticipantSnapshot, "")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ParticipantA != "Maria Timofeeva" || records[0].ParticipantB != "Elena Pridankina" {
		t.Errorf("heuristic picked wrong participants: %q vs %q",
			records[0].ParticipantA, records[0].ParticipantB)
	}
}

func TestExtract_DropsRowsWithoutParticipants(t *testing.T) {
	engine := NewEngine()

	records, err := engine.Extract(noParticipantSnapshot, "")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected row to be dropped, got %d records", len(records))
	}
}

func TestExtract_EmptySnapshotIsError(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Extract("<html><body><p>maintenance</p></body></html>", "")
	if err != ErrExtractionEmpty {
		t.Fatalf("expected ErrExtractionEmpty, got %v", err)
	}
}

func TestExtract_TierFilter(t *testing.T) {
	engine := NewEngine()

	records, err := engine.Extract(primarySnapshot, "WTA")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("filter %q should exclude all ITF fixtures, got %d records", "WTA", len(records))
	}

	records, err = engine.Extract(primarySnapshot, "itf")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("case-insensitive filter should keep 2 records, got %d", len(records))
	}
}
