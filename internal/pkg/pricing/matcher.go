package pricing

import (
	"log/slog"
	"strings"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/models"
)

// The two sources share no common identifier, so name similarity is the only
// linkage available. The 0.8 floor trades recall for never cross-assigning
// prices to the wrong fixture.
const (
	scoreExact     = 1.0
	scoreSurname   = 0.8
	matchThreshold = 0.8
)

// AttachPrices fuzzy-matches every record against the priced-fixture feed and
// assigns prices in place. A record with no fixture at or above the threshold
// simply stays unpriced; that is an expected outcome, not an error.
func AttachPrices(records []models.MatchRecord, fixtures []models.PricedFixture) {
	if len(fixtures) == 0 {
		return
	}

	for i := range records {
		best, bestScore, swapped := bestFixture(&records[i], fixtures)
		if bestScore < matchThreshold {
			continue
		}

		if swapped {
			records[i].PriceA = best.PriceB
			records[i].PriceB = best.PriceA
		} else {
			records[i].PriceA = best.PriceA
			records[i].PriceB = best.PriceB
		}
		records[i].Priced = true

		slog.Debug("Attached prices",
			"record_id", records[i].ID,
			"score", bestScore,
			"swapped", swapped)
	}
}

func bestFixture(record *models.MatchRecord, fixtures []models.PricedFixture) (models.PricedFixture, float64, bool) {
	var (
		best      models.PricedFixture
		bestScore float64
		swapped   bool
	)
	for _, f := range fixtures {
		score, sw := scoreFixture(record, f)
		if score > bestScore {
			best, bestScore, swapped = f, score, sw
		}
	}
	return best, bestScore, swapped
}

// scoreFixture rates how well a priced fixture matches a record:
// 1.0 for an exact case-insensitive full-name match in either orientation,
// 0.8 when only the surnames (last tokens) line up, 0 otherwise.
// swapped reports that the record's A side matched the fixture's away side.
func scoreFixture(record *models.MatchRecord, f models.PricedFixture) (score float64, swapped bool) {
	a := record.ParticipantA
	b := record.ParticipantB

	switch {
	case strings.EqualFold(a, f.ParticipantA) && strings.EqualFold(b, f.ParticipantB):
		return scoreExact, false
	case strings.EqualFold(a, f.ParticipantB) && strings.EqualFold(b, f.ParticipantA):
		return scoreExact, true
	}

	sa, sb := surname(a), surname(b)
	fa, fb := surname(f.ParticipantA), surname(f.ParticipantB)

	switch {
	case sa != "" && sb != "" && strings.EqualFold(sa, fa) && strings.EqualFold(sb, fb):
		return scoreSurname, false
	case sa != "" && sb != "" && strings.EqualFold(sa, fb) && strings.EqualFold(sb, fa):
		return scoreSurname, true
	}

	return 0, false
}

func surname(name string) string {
	fields := strings.Fields(strings.TrimSpace(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
