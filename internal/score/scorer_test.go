package score

import (
	"testing"

	"github.com/pkoval/claimlens/internal/model"
)

func newTestScorer() *Scorer {
	return NewScorer(model.DefaultConfig().Scoring)
}

func TestScorer_SupportedWhenEvidenceContainsClaim(t *testing.T) {
	s := newTestScorer()

	r := s.Score(
		"Revenue grew 20% in 2022",
		"The company reported revenue growth of 20% in 2022.",
	)
	if r.Label != model.LabelSupported {
		t.Errorf("Expected supported, got %s (overlap %.2f)", r.Label, r.Overlap)
	}
	if r.Overlap < 0.6 {
		t.Errorf("Expected overlap >= 0.6, got %.2f", r.Overlap)
	}
}

func TestScorer_ContradictionOnYearMismatch(t *testing.T) {
	s := newTestScorer()

	r := s.Score(
		"Revenue grew 20% in 2022",
		"Revenue grew 20% in 2023.",
	)
	if r.Label != model.LabelContradiction {
		t.Errorf("Expected contradiction, got %s (overlap %.2f)", r.Label, r.Overlap)
	}
}

func TestScorer_ContradictionOnMonthMismatch(t *testing.T) {
	s := newTestScorer()

	r := s.Score(
		"The product launched in March with strong early sales",
		"The product launched in October with strong early sales.",
	)
	if r.Label != model.LabelContradiction {
		t.Errorf("Expected contradiction, got %s (overlap %.2f)", r.Label, r.Overlap)
	}
}

func TestScorer_NoContradictionWithoutSharedContext(t *testing.T) {
	s := newTestScorer()

	// Both sides carry years but talk about different things entirely
	r := s.Score(
		"The bridge opened in 2022",
		"Quarterly earnings beat forecasts in 2023.",
	)
	if r.Label == model.LabelContradiction {
		t.Errorf("Expected no contradiction without shared context, got %s", r.Label)
	}
}

func TestScorer_WeakSupportRequiresDateAlignment(t *testing.T) {
	s := newTestScorer()

	aligned := s.Score(
		"The Orion satellite launched in 2021 carrying twelve instruments onboard",
		"In 2021 the Orion satellite launched successfully.",
	)
	if aligned.Label != model.LabelSupported {
		t.Errorf("Expected supported on weak overlap with aligned year, got %s (overlap %.2f)",
			aligned.Label, aligned.Overlap)
	}
}

func TestScorer_UnknownBelowThresholds(t *testing.T) {
	s := newTestScorer()

	r := s.Score(
		"Glaciers in Patagonia retreated rapidly last decade",
		"The new library opened downtown near the station.",
	)
	if r.Label != model.LabelUnknown {
		t.Errorf("Expected unknown, got %s (overlap %.2f)", r.Label, r.Overlap)
	}
}

func TestScorer_EmptyInputsAreUnknown(t *testing.T) {
	s := newTestScorer()

	if r := s.Score("", "some evidence text here"); r.Label != model.LabelUnknown || r.Overlap != 0 {
		t.Errorf("Expected unknown with zero overlap, got %s %.2f", r.Label, r.Overlap)
	}
	if r := s.Score("a claim about things", ""); r.Label != model.LabelUnknown || r.Overlap != 0 {
		t.Errorf("Expected unknown with zero overlap, got %s %.2f", r.Label, r.Overlap)
	}
	// All-stopword claim has nothing to match on
	if r := s.Score("it is the and of", "it is the and of"); r.Label != model.LabelUnknown {
		t.Errorf("Expected unknown for stopword-only claim, got %s", r.Label)
	}
}

func TestNormalizeTokens(t *testing.T) {
	got := normalizeTokens("The Revenue grew 20% in 2022!")
	want := []string{"revenue", "grew", "20", "2022"}

	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestExtractDates(t *testing.T) {
	d := extractDates("Shipped in March 2021 and again in December 2021.")

	if len(d.months) != 2 || d.months[0] != "march" || d.months[1] != "december" {
		t.Errorf("Unexpected months: %v", d.months)
	}
	if len(d.years) != 2 || d.years[0] != "2021" {
		t.Errorf("Unexpected years: %v", d.years)
	}
}
