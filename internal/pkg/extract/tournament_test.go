package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/mxxx222/TennisBot-sub003/internal/pkg/models"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture html: %v", err)
	}
	return doc
}

// Two adjacent tournament sections: each row must resolve to its nearest
// preceding header, not the first header in the document.
func TestResolve_NearestPrecedingHeader(t *testing.T) {
	doc := docFrom(t, `
<div>
  <div class="event__header">
    <div class="event__title--type">ITF</div>
    <div class="event__title--name">T2 CityX - Hard</div>
  </div>
  <div class="event__match" id="row1"></div>
  <div class="event__header">
    <div class="event__title--type">ITF</div>
    <div class="event__title--name">T3 CityY - Clay</div>
  </div>
  <div class="event__match" id="row2"></div>
</div>`)

	resolver := NewResolver()

	ctx1 := resolver.Resolve(doc.Find("#row1"))
	if ctx1.Name != "ITF T2 CityX - Hard" {
		t.Errorf("row1 resolved to %q, want first header", ctx1.Name)
	}

	ctx2 := resolver.Resolve(doc.Find("#row2"))
	if ctx2.Name != "ITF T3 CityY - Clay" {
		t.Errorf("row2 resolved to %q, want second header, not the stale first one", ctx2.Name)
	}
	if ctx2.Surface != models.SurfaceClay {
		t.Errorf("row2 surface = %s, want Clay", ctx2.Surface)
	}
	if ctx2.Tier != models.TierT3 {
		t.Errorf("row2 tier = %s, want T3", ctx2.Tier)
	}
}

// Headers live in a sibling container one level up from the rows.
func TestResolve_ClimbsAncestors(t *testing.T) {
	doc := docFrom(t, `
<div>
  <div class="wrapper">
    <div class="event__header">
      <div class="event__title--name">T4 CityZ - Grass</div>
    </div>
  </div>
  <div class="rows">
    <div class="event__match" id="row1"></div>
  </div>
</div>`)

	ctx := NewResolver().Resolve(doc.Find("#row1"))
	if ctx.Name != "T4 CityZ - Grass" {
		t.Errorf("resolved to %q, want header from sibling container", ctx.Name)
	}
	if ctx.Surface != models.SurfaceGrass {
		t.Errorf("surface = %s, want Grass", ctx.Surface)
	}
}

func TestResolve_NoHeaderYieldsSentinel(t *testing.T) {
	doc := docFrom(t, `<div><div class="event__match" id="row1"></div></div>`)

	ctx := NewResolver().Resolve(doc.Find("#row1"))
	if !ctx.Unknown() {
		t.Fatalf("expected sentinel Unknown context, got %q", ctx.Name)
	}
	if ctx.Surface != models.SurfaceHard {
		t.Errorf("sentinel surface = %s, want default Hard", ctx.Surface)
	}
}

// The traversal bound must stop a deep walk instead of scanning the whole
// document backward.
func TestResolve_RespectsTraversalBound(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<div><div class="event__header"><div class="event__title--name">T1 Far - Hard</div></div>`)
	for i := 0; i < maxTraversalDepth+5; i++ {
		b.WriteString(`<div class="spacer"></div>`)
	}
	b.WriteString(`<div class="event__match" id="deep"></div></div>`)

	ctx := NewResolver().Resolve(docFrom(t, b.String()).Find("#deep"))
	if !ctx.Unknown() {
		t.Errorf("header beyond the traversal bound should not be attributed, got %q", ctx.Name)
	}
}

func TestResolve_RawHeaderParsing(t *testing.T) {
	doc := docFrom(t, `
<div>
  <div class="event__header">ITF T2 CityX - Hard</div>
  <div class="event__match" id="row1"></div>
</div>`)

	ctx := NewResolver().Resolve(doc.Find("#row1"))
	if ctx.Name != "ITF T2 CityX" {
		t.Errorf("raw header parsed to %q, want %q", ctx.Name, "ITF T2 CityX")
	}
	if ctx.Category != "ITF" {
		t.Errorf("category = %q, want ITF", ctx.Category)
	}
	if ctx.Tier != models.TierT2 {
		t.Errorf("tier = %s, want T2", ctx.Tier)
	}
	if ctx.Surface != models.SurfaceHard {
		t.Errorf("surface = %s, want Hard", ctx.Surface)
	}
}

func TestClassifySurface(t *testing.T) {
	tests := []struct {
		text     string
		expected models.Surface
	}{
		{"ITF T2 CityX - Hard", models.SurfaceHard},
		{"itf t3 cityy, CLAY", models.SurfaceClay},
		{"T4 CityZ grass court", models.SurfaceGrass},
		{"T1 Open (indoor)", models.SurfaceIndoor},
		{"T1 Open carpet", models.SurfaceIndoor},
		{"T1 Open Indoor Hard", models.SurfaceIndoor}, // indoor outranks hard
		{"T2 CityQ indoor clay", models.SurfaceIndoor},
		{"T2 CityQ", models.SurfaceHard}, // default when no keyword
	}

	for _, tt := range tests {
		if got := classifySurface(tt.text); got != tt.expected {
			t.Errorf("classifySurface(%q) = %s, want %s", tt.text, got, tt.expected)
		}
	}
}

func TestClassifyTier(t *testing.T) {
	tests := []struct {
		text     string
		expected models.Tier
	}{
		{"ITF T1 Major", models.TierT1},
		{"itf t2 cityx", models.TierT2},
		{"T3", models.TierT3},
		{"no tier token here", models.TierT4},
		{"T9 not a bracket", models.TierT4},
	}

	for _, tt := range tests {
		if got := classifyTier(tt.text); got != tt.expected {
			t.Errorf("classifyTier(%q) = %s, want %s", tt.text, got, tt.expected)
		}
	}
}
