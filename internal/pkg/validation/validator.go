package validation

import (
	"fmt"
	"strings"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/models"
)

const minNameLen = 3

// nameStopwords are strings that sometimes leak out of the extraction
// fallback chains in place of a real participant name.
var nameStopwords = map[string]bool{
	"vs":       true,
	"v":        true,
	"live":     true,
	"finished": true,
	"ret":      true,
	"walkover": true,
	"tba":      true,
}

// Validator applies pure rejection rules to extracted records.
// WantedKeyword/ExcludedKeyword scope the tournament bracket: a record whose
// context carries the excluded keyword without the wanted one is out of scope
// (e.g. opposite gender or a tier the pipeline does not track).
type Validator struct {
	WantedKeyword   string
	ExcludedKeyword string
}

func NewValidator(wantedKeyword, excludedKeyword string) *Validator {
	return &Validator{
		WantedKeyword:   wantedKeyword,
		ExcludedKeyword: excludedKeyword,
	}
}

// Validate reports whether the record is acceptable. Every rejection carries
// a reason so rejections stay observable in logs; rejection is an expected,
// frequent outcome, not an error path.
func (v *Validator) Validate(record *models.MatchRecord) (bool, string) {
	if record == nil {
		return false, "record is nil"
	}

	a := strings.TrimSpace(record.ParticipantA)
	b := strings.TrimSpace(record.ParticipantB)

	if reason := checkName(a, "participant_a"); reason != "" {
		return false, reason
	}
	if reason := checkName(b, "participant_b"); reason != "" {
		return false, reason
	}

	if strings.EqualFold(a, b) {
		return false, fmt.Sprintf("identical participants: %q", a)
	}

	if v.ExcludedKeyword != "" {
		context := strings.ToLower(record.TournamentName)
		excluded := strings.Contains(context, strings.ToLower(v.ExcludedKeyword))
		wanted := v.WantedKeyword != "" && strings.Contains(context, strings.ToLower(v.WantedKeyword))
		if excluded && !wanted {
			return false, fmt.Sprintf("excluded bracket: %q in tournament %q", v.ExcludedKeyword, record.TournamentName)
		}
	}

	return true, ""
}

func checkName(name, field string) string {
	if len(name) < minNameLen {
		return fmt.Sprintf("%s too short: %q", field, name)
	}
	if nameStopwords[strings.ToLower(name)] {
		return fmt.Sprintf("%s is a stopword: %q", field, name)
	}
	return ""
}
