package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/models"
)

// Fixture rows sit next to their tournament header blocks, not inside them,
// so attribution has to walk backward through the document.
const maxTraversalDepth = 20

const headerSelector = `div.event__header, div[class*="tournament"], [data-tournament]`

var (
	headerNameChain = fieldChain{
		"div.event__title--name",
		"div.event__titleBox--name",
		`[data-tournament-name]`,
	}
	headerCategoryChain = fieldChain{
		"div.event__title--type",
		"div.event__titleBox--type",
		`[data-tournament-type]`,
	}
)

// surfaceMarkers classify header text onto the surface enum. Checked in
// order so combined labels resolve the same way every run: "Indoor Hard" is
// Indoor, never Hard. Carpet counts as indoor.
var surfaceMarkers = []struct {
	keyword string
	surface models.Surface
}{
	{"indoor", models.SurfaceIndoor},
	{"carpet", models.SurfaceIndoor},
	{"grass", models.SurfaceGrass},
	{"clay", models.SurfaceClay},
	{"hard", models.SurfaceHard},
}

// tierKeywords classifies the bracket token in tournament names.
var tierKeywords = map[string]models.Tier{
	"t1": models.TierT1,
	"t2": models.TierT2,
	"t3": models.TierT3,
	"t4": models.TierT4,
}

var tierTokenRe = regexp.MustCompile(`(?i)\bt[1-4]\b`)

// categoryTokens are leading qualifiers stripped when parsing a raw header
// text that has no structured name sub-field.
var categoryTokens = []string{"tennis:", "tennis", "itf", "wta", "atp", "challenger", "utr"}

// Resolver attributes fixture rows to their nearest preceding tournament
// header block.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve walks backward from the row through at most maxTraversalDepth
// sibling/ancestor levels and returns the context of the closest preceding
// header in document order. Picking the closest candidate (not the first
// header in the document) is what keeps a row out of a stale earlier section.
//
// When no header is found within the bound, the sentinel Unknown context is
// returned and the record is still emitted: resolution failure never drops data.
func (r *Resolver) Resolve(row *goquery.Selection) models.TournamentContext {
	steps := 0
	for node := row; node.Length() > 0 && steps < maxTraversalDepth; node = node.Parent() {
		for sib := node.Prev(); sib.Length() > 0 && steps < maxTraversalDepth; sib = sib.Prev() {
			steps++
			if header := headerIn(sib); header != nil {
				return composeContext(header)
			}
		}
		steps++
	}
	return unknownContext()
}

// headerIn returns the header element within sel closest to the row, or nil.
// Last() matters: when a container holds several headers, the last one in
// document order is the one the following rows belong to.
func headerIn(sel *goquery.Selection) *goquery.Selection {
	if sel.Is(headerSelector) {
		return sel
	}
	if found := sel.Find(headerSelector); found.Length() > 0 {
		return found.Last()
	}
	return nil
}

func composeContext(header *goquery.Selection) models.TournamentContext {
	name := headerNameChain.find(header)
	category := headerCategoryChain.find(header)
	raw := trimmedText(header)

	if name == "" {
		name, category = parseRawHeader(raw)
	}
	if name == "" {
		return unknownContext()
	}

	full := name
	if category != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(category)) {
		full = category + " " + name
	}

	return models.TournamentContext{
		Name:     full,
		Category: category,
		Tier:     classifyTier(full + " " + raw),
		Surface:  classifySurface(full + " " + raw),
	}
}

// parseRawHeader recovers a tournament name and category from unstructured
// header text: strip leading category tokens (remembering the last one as the
// category), then cut the name at the first surface keyword.
func parseRawHeader(raw string) (name, category string) {
	text := strings.TrimSpace(raw)
	lowered := strings.ToLower(text)
	for _, token := range categoryTokens {
		if strings.HasPrefix(lowered, token) {
			if trimmed := strings.TrimSuffix(token, ":"); trimmed != "tennis" {
				category = strings.ToUpper(trimmed)
			}
			text = strings.TrimSpace(text[len(token):])
			lowered = strings.ToLower(text)
		}
	}

	cut := -1
	for _, m := range surfaceMarkers {
		if idx := strings.Index(lowered, m.keyword); idx > 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	if cut > 0 {
		text = strings.TrimSpace(text[:cut])
		text = strings.TrimRight(text, "-–— ")
	}

	return strings.TrimSpace(text), category
}

func classifySurface(text string) models.Surface {
	lowered := strings.ToLower(text)
	for _, m := range surfaceMarkers {
		if strings.Contains(lowered, m.keyword) {
			return m.surface
		}
	}
	return models.SurfaceHard
}

func classifyTier(text string) models.Tier {
	token := strings.ToLower(tierTokenRe.FindString(text))
	if tier, ok := tierKeywords[token]; ok {
		return tier
	}
	return models.TierT4
}

func unknownContext() models.TournamentContext {
	return models.TournamentContext{
		Name:    models.UnknownTournament,
		Tier:    models.TierT4,
		Surface: models.SurfaceHard,
	}
}
