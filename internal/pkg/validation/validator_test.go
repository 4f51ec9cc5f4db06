package validation

import (
	"testing"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/models"
)

func record(a, b, tournament string) *models.MatchRecord {
	return &models.MatchRecord{
		ID:             "rec-1",
		TournamentName: tournament,
		Tier:           models.TierT2,
		Surface:        models.SurfaceHard,
		ParticipantA:   a,
		ParticipantB:   b,
		Status:         models.StatusUpcoming,
	}
}

func TestValidate(t *testing.T) {
	v := NewValidator("ITF", "Men")

	tests := []struct {
		name     string
		record   *models.MatchRecord
		accepted bool
	}{
		{"valid record", record("Anna Bondar", "Sara Errani", "ITF T2 CityX - Hard"), true},
		{"identical participants", record("Anna Bondar", "Anna Bondar", "ITF T2 CityX - Hard"), false},
		{"identical ignoring case", record("Anna Bondar", "anna bondar", "ITF T2 CityX - Hard"), false},
		{"participant too short", record("An", "Sara Errani", "ITF T2 CityX - Hard"), false},
		{"participant is stopword", record("live", "Sara Errani", "ITF T2 CityX - Hard"), false},
		{"excluded bracket without wanted keyword", record("Anna Bondar", "Sara Errani", "ATP Men T2 CityX"), false},
		{"excluded keyword but wanted present", record("Anna Bondar", "Sara Errani", "ITF Men T2 CityX"), true},
		{"unknown tournament kept", record("Anna Bondar", "Sara Errani", models.UnknownTournament), true},
		{"nil record", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accepted, reason := v.Validate(tt.record)
			if accepted != tt.accepted {
				t.Errorf("Validate() accepted = %v, want %v (reason %q)", accepted, tt.accepted, reason)
			}
			if !accepted && reason == "" {
				t.Error("every rejection must carry a reason")
			}
			if accepted && reason != "" {
				t.Errorf("accepted record should have empty reason, got %q", reason)
			}
		})
	}
}
