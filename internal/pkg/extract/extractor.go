package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/models"
)

// ErrExtractionEmpty means no row strategy matched anything in the snapshot.
// Zero records is the correct result for the cycle, but the caller should
// raise an operational alert: either the site is down or every selector broke.
var ErrExtractionEmpty = errors.New("extract: no row strategy matched any fixture")

// Engine turns a DOM snapshot into draft match records.
type Engine struct {
	resolver *Resolver
}

func NewEngine() *Engine {
	return &Engine{resolver: NewResolver()}
}

// Extract runs the row strategy cascade over the snapshot and builds a record
// per usable row. tierFilter, when non-empty, keeps only fixtures whose
// resolved tournament context mentions the keyword (case-insensitive).
//
// Rows yielding fewer than two plausible participant strings are dropped with
// a log line, never an error. Rows whose tournament header cannot be found
// get the sentinel Unknown context and are still emitted.
func (e *Engine) Extract(snapshot, tierFilter string) ([]models.MatchRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snapshot))
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	rows, strategyName := selectRows(doc)
	if rows == nil {
		return nil, ErrExtractionEmpty
	}
	slog.Debug("Row strategy matched", "strategy", strategyName, "rows", rows.Length())

	now := time.Now().UTC()
	var records []models.MatchRecord

	rows.Each(func(i int, row *goquery.Selection) {
		a, b := extractParticipants(row)
		if a == "" || b == "" {
			slog.Debug("Dropping row without two plausible participants", "row_index", i)
			return
		}

		tctx := e.resolver.Resolve(row)
		if tctx.Unknown() {
			slog.Debug("No tournament header within traversal bound, keeping record with sentinel context", "row_index", i)
		}

		if tierFilter != "" && !containsFold(tctx.Name+" "+tctx.Category, tierFilter) {
			slog.Debug("Skipping fixture outside tier filter",
				"row_index", i, "tournament", tctx.Name, "filter", tierFilter)
			return
		}

		record := models.MatchRecord{
			ID:              models.RecordID(tctx.Tier, a, b, tctx.Name),
			TournamentName:  tctx.Name,
			Tier:            tctx.Tier,
			Surface:         tctx.Surface,
			ParticipantA:    a,
			ParticipantB:    b,
			Round:           extractRound(row),
			Status:          extractStatus(row),
			LiveScore:       extractScore(row),
			ScheduledTime:   extractScheduledTime(row, now),
			SourceTimestamp: now,
		}
		records = append(records, record)
	})

	return records, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
