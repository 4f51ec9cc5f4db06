package extract

import (
	"github.com/PuerkitoBio/goquery"
)

// rowStrategy is one attempt at locating fixture rows in the snapshot.
// Strategies are tried in order and the first one returning a non-empty set
// wins: no single selector survives the site's markup revisions, so the chain
// is the contract, not any individual selector.
type rowStrategy struct {
	name     string
	selector string
}

var rowStrategies = []rowStrategy{
	// Primary: the class the site has used for most of its revisions.
	{name: "primary_class", selector: "div.event__match"},
	// Fixture rows carry generated ids with a stable prefix.
	{name: "id_prefix", selector: `div[id^="g_"]`},
	// Generic: anything whose class mentions a match row.
	{name: "class_substring", selector: `div[class*="match"]`},
	// Newer revisions moved identity into data attributes.
	{name: "data_attribute", selector: `[data-event-id]`},
}

// selectRows runs the row strategy cascade over the document.
// Returns the matched selection and the name of the strategy that produced it,
// or (nil, "") when every strategy came up empty.
func selectRows(doc *goquery.Document) (*goquery.Selection, string) {
	for _, strat := range rowStrategies {
		sel := doc.Find(strat.selector)
		if sel.Length() > 0 {
			return sel, strat.name
		}
	}
	return nil, ""
}

// fieldChain is an ordered list of selectors for one field within a row.
// Same first-non-empty contract as rowStrategies.
type fieldChain []string

func (c fieldChain) find(row *goquery.Selection) string {
	for _, selector := range c {
		if text := trimmedText(row.Find(selector).First()); text != "" {
			return text
		}
	}
	return ""
}

var (
	participantHomeChain = fieldChain{
		"div.event__participant--home",
		"div.event__homeParticipant",
		`[data-home]`,
		`[class*="participant"][class*="home"]`,
	}
	participantAwayChain = fieldChain{
		"div.event__participant--away",
		"div.event__awayParticipant",
		`[data-away]`,
		`[class*="participant"][class*="away"]`,
	}
	scoreChain = fieldChain{
		"div.event__score",
		"div.event__scores",
		`[data-score]`,
		`[class*="score"]`,
	}
	statusChain = fieldChain{
		"div.event__stage",
		"div.event__status",
		`[data-stage]`,
		`[class*="stage"]`,
	}
	timeChain = fieldChain{
		"div.event__time",
		`[data-start-time]`,
		`[class*="time"]`,
	}
	roundChain = fieldChain{
		"div.event__round",
		`[data-round]`,
		`[class*="round"]`,
	}
)
