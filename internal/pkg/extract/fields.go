package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/models"
)

// participantStopwords are tokens the generic text-node heuristic must never
// mistake for a player name.
var participantStopwords = map[string]bool{
	"vs":       true,
	"v":        true,
	"live":     true,
	"finished": true,
	"ret":      true,
	"walkover": true,
}

const minParticipantLen = 4 // generic-heuristic floor; shorter tokens are markup noise

var (
	// Set scores are single digits on the right; HH:MM times never are, so
	// the recovery regex cannot mistake a start time for a score.
	scoreRe = regexp.MustCompile(`\b\d{1,2}\s*[:-]\s*\d\b`)
	timeRe  = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	roundRe = regexp.MustCompile(`(?i)\b(final|semifinal|quarterfinal|1/8|1/16|1/32|round\s+\d+|qualification)\b`)
)

func trimmedText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// extractParticipants pulls both player names from a row. The dedicated
// selector chains are tried first; when the markup has shifted under all of
// them, the generic heuristic scans every text node in the row and keeps the
// first two plausible name tokens.
func extractParticipants(row *goquery.Selection) (string, string) {
	home := participantHomeChain.find(row)
	away := participantAwayChain.find(row)
	if home != "" && away != "" {
		return home, away
	}

	candidates := genericParticipantScan(row)
	if home == "" && len(candidates) > 0 {
		home = candidates[0]
		candidates = candidates[1:]
	}
	if away == "" {
		for _, c := range candidates {
			if c != home {
				away = c
				break
			}
		}
	}
	return home, away
}

// genericParticipantScan is the last-resort participant strategy: walk the
// row's leaf text nodes and keep tokens that look like names.
func genericParticipantScan(row *goquery.Selection) []string {
	var candidates []string
	row.Find("*").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Length() > 0 {
			return
		}
		text := trimmedText(sel)
		if !plausibleParticipant(text) {
			return
		}
		for _, seen := range candidates {
			if seen == text {
				return
			}
		}
		candidates = append(candidates, text)
	})
	return candidates
}

func plausibleParticipant(text string) bool {
	if len(text) < minParticipantLen {
		return false
	}
	if participantStopwords[strings.ToLower(text)] {
		return false
	}
	// Pure numbers and score fragments are not names.
	if scoreRe.MatchString(text) || timeRe.MatchString(text) {
		return false
	}
	return true
}

// extractScore returns the live/final score text, falling back to a regex scan
// over the whole row when no score selector matches.
func extractScore(row *goquery.Selection) string {
	if score := scoreChain.find(row); score != "" {
		return score
	}
	return scoreRe.FindString(trimmedText(row))
}

// statusMarkers map stage-text markers onto the fixed status enum, checked in
// order so precedence is fixed: terminal states win over live markers in mixed
// text like "finished after 3rd set". Matches are word-bounded, otherwise a
// participant surname would flip the status ("Oliver" contains "live",
// "Basset" contains "set").
var statusMarkers = []struct {
	re     *regexp.Regexp
	status models.Status
}{
	{regexp.MustCompile(`(?i)\bpostponed\b`), models.StatusPostponed},
	{regexp.MustCompile(`(?i)\b(cancelled|canceled|walkover)\b`), models.StatusCancelled},
	{regexp.MustCompile(`(?i)\b(finished|ended|after)\b`), models.StatusCompleted},
	{regexp.MustCompile(`(?i)\b(live|set)\b`), models.StatusLive},
}

func extractStatus(row *goquery.Selection) models.Status {
	text := statusChain.find(row)
	if text == "" {
		text = trimmedText(row)
	}
	for _, m := range statusMarkers {
		if m.re.MatchString(text) {
			return m.status
		}
	}
	return models.StatusUpcoming
}

// extractScheduledTime parses the row's HH:MM start time into a timestamp on
// today's date (UTC). The site only shows same-day fixtures on this page.
func extractScheduledTime(row *goquery.Selection, now time.Time) *time.Time {
	text := timeChain.find(row)
	if text == "" {
		text = trimmedText(row)
	}
	m := timeRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	parsed, err := time.Parse("15:04", m[1]+":"+m[2])
	if err != nil {
		return nil
	}

	ts := time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
	return &ts
}

func extractRound(row *goquery.Selection) string {
	if round := roundChain.find(row); round != "" {
		return round
	}
	return roundRe.FindString(trimmedText(row))
}
