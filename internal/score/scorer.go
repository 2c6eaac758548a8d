// Package score labels claim/evidence pairs with a conservative lexical
// heuristic: supported, contradiction, or unknown.
package score

import (
	"regexp"
	"strings"

	"github.com/pkoval/claimlens/internal/model"
)

var (
	tokenRe = regexp.MustCompile(`[a-z0-9]+`)
	monthRe = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\b`)
	yearRe  = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

// stopwords dropped before computing overlap. Small on purpose.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "for": true, "to": true,
	"at": true, "by": true, "with": true, "from": true, "this": true,
	"that": true, "it": true, "is": true, "was": true, "were": true,
	"are": true, "be": true, "as": true, "not": true, "no": true,
	"did": true, "does": true, "have": true, "has": true, "had": true,
	"later": true, "first": true, "will": true, "would": true,
	"can": true, "could": true, "should": true,
}

// Result is the verdict for one claim/evidence pair.
type Result struct {
	Label   model.EvidenceLabel
	Overlap float64
}

// Scorer computes lexical overlap and date contradictions.
// Thresholds come from configuration, not constants.
type Scorer struct {
	cfg model.ScoringConfig
}

// NewScorer creates a scorer with the given thresholds.
func NewScorer(cfg model.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score labels one evidence chunk against a claim.
//
// Overlap is asymmetric containment: the fraction of the claim's
// non-stopword tokens present in the evidence. The ladder, first match
// wins:
//  1. date contradiction with enough shared context and overlap above
//     the contradiction floor
//  2. overlap at or above the support threshold -> supported
//  3. overlap at or above the weak threshold, and any dates present on
//     both sides align -> supported
//  4. otherwise unknown
func (s *Scorer) Score(claim, evidence string) Result {
	claimTokens := normalizeTokens(claim)
	evTokens := normalizeTokens(evidence)

	if len(claimTokens) == 0 || len(evTokens) == 0 {
		return Result{Label: model.LabelUnknown, Overlap: 0}
	}

	evSet := make(map[string]bool, len(evTokens))
	for _, t := range evTokens {
		evSet[t] = true
	}
	common := 0
	for _, t := range claimTokens {
		if evSet[t] {
			common++
		}
	}
	overlap := float64(common) / float64(len(claimTokens))

	if s.hasDateContradiction(claim, evidence, common) && overlap >= s.cfg.ContradictionOverlap {
		return Result{Label: model.LabelContradiction, Overlap: overlap}
	}

	if overlap >= s.cfg.SupportOverlap {
		return Result{Label: model.LabelSupported, Overlap: overlap}
	}

	if overlap >= s.cfg.WeakSupportOverlap {
		c := extractDates(claim)
		e := extractDates(evidence)
		if datesAlign(c, e) {
			return Result{Label: model.LabelSupported, Overlap: overlap}
		}
	}

	return Result{Label: model.LabelUnknown, Overlap: overlap}
}

// dates holds the month and year tokens found in one text.
type dates struct {
	months []string
	years  []string
}

func (d dates) any() bool {
	return len(d.months) > 0 || len(d.years) > 0
}

func extractDates(text string) dates {
	var d dates
	for _, m := range monthRe.FindAllString(text, -1) {
		d.months = append(d.months, strings.ToLower(m))
	}
	d.years = yearRe.FindAllString(text, -1)
	return d
}

// hasDateContradiction reports a clear date disagreement: both sides carry
// dates, the texts share enough non-trivial context, and a date type
// present on both sides has no common value.
func (s *Scorer) hasDateContradiction(claim, evidence string, sharedContext int) bool {
	c := extractDates(claim)
	e := extractDates(evidence)

	if !c.any() || !e.any() {
		return false
	}

	minShared := s.cfg.MinSharedContext
	if minShared <= 0 {
		minShared = 2
	}
	if sharedContext < minShared {
		return false
	}

	if len(c.months) > 0 && len(e.months) > 0 && !intersects(c.months, e.months) {
		return true
	}
	if len(c.years) > 0 && len(e.years) > 0 && !intersects(c.years, e.years) {
		return true
	}
	return false
}

// datesAlign is true when every date type present on both sides shares at
// least one value. A side with no dates never blocks alignment.
func datesAlign(c, e dates) bool {
	monthsOK := len(c.months) == 0 || len(e.months) == 0 || intersects(c.months, e.months)
	yearsOK := len(c.years) == 0 || len(e.years) == 0 || intersects(c.years, e.years)
	return monthsOK && yearsOK
}

func intersects(a, b []string) bool {
	set := make(map[string]bool, len(b))
	for _, x := range b {
		set[x] = true
	}
	for _, x := range a {
		if set[x] {
			return true
		}
	}
	return false
}

func normalizeTokens(text string) []string {
	var out []string
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if stopwords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}
