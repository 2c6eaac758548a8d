package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pkoval/claimlens/internal/model"
)

func newTestBuilder() *Builder {
	b := NewBuilder(model.OutputConfig{IncludeFooter: true})
	b.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return b
}

func sampleInputs() ([]model.Claim, map[string]model.Status, map[string][]model.EvidenceItem) {
	claims := []model.Claim{
		{ID: "c1", Text: "Revenue grew 20% in 2022"},
		{ID: "c2", Text: "the CEO resigned"},
	}
	statuses := map[string]model.Status{
		"c1": model.StatusSupported,
		"c2": model.StatusUnknown,
	}
	evidence := map[string][]model.EvidenceItem{
		"c1": {
			{Idx: 2, Text: "The company reported revenue growth of 20% in 2022."},
			{Idx: 4, Text: "Fiscal results were strong across segments."},
			{Idx: 6, Text: "Another supporting chunk."},
			{Idx: 8, Text: "A fourth chunk beyond the citation cap."},
		},
		"c2": {
			{Idx: 2, Text: "The company reported revenue growth of 20% in 2022."},
		},
	}
	return claims, statuses, evidence
}

func TestBuild_SummaryAndCitations(t *testing.T) {
	b := newTestBuilder()
	claims, statuses, evidence := sampleInputs()

	r := b.Build("the answer", "", "", claims, statuses, evidence)

	if r.Summary.Total != 2 || r.Summary.Supported != 1 || r.Summary.Unknown != 1 {
		t.Errorf("Unexpected summary: %+v", r.Summary)
	}
	if len(r.Claims[0].Citations) != 3 {
		t.Errorf("Expected top-3 citations, got %v", r.Claims[0].Citations)
	}
	if r.Claims[0].Citations[0] != 2 || r.Claims[0].Citations[2] != 6 {
		t.Errorf("Unexpected citation order: %v", r.Claims[0].Citations)
	}
	if !strings.HasPrefix(r.Claims[0].TopSnippet, "The company reported") {
		t.Errorf("Unexpected top snippet: %q", r.Claims[0].TopSnippet)
	}
}

func TestBuild_ReferencesDeduplicated(t *testing.T) {
	b := newTestBuilder()
	claims, statuses, evidence := sampleInputs()

	r := b.Build("the answer", "", "", claims, statuses, evidence)

	// Chunk 2 is cited by both claims but referenced once
	counts := map[int]int{}
	for _, ref := range r.References {
		counts[ref.CID]++
		if ref.Snippet == "" {
			t.Errorf("Reference C%d missing snippet", ref.CID)
		}
	}
	if counts[2] != 1 {
		t.Errorf("Expected chunk 2 referenced once, got %d", counts[2])
	}
	if len(r.References) != 3 {
		t.Errorf("Expected 3 references, got %d", len(r.References))
	}
}

func TestBuild_MissingStatusIsPending(t *testing.T) {
	b := newTestBuilder()
	claims := []model.Claim{{ID: "c1", Text: "unevaluated claim"}}

	r := b.Build("answer", "", "", claims, map[string]model.Status{}, nil)
	if r.Claims[0].Status != model.StatusPending {
		t.Errorf("Expected pending, got %s", r.Claims[0].Status)
	}
}

func TestBuild_DiffOnlyWithDraft(t *testing.T) {
	b := newTestBuilder()
	claims, statuses, evidence := sampleInputs()

	noDraft := b.Build("answer text.", "", "", claims, statuses, evidence)
	if noDraft.Diff != "" {
		t.Error("Expected no diff without a draft")
	}

	withDraft := b.Build("Old sentence here.", "New sentence here.", "template", claims, statuses, evidence)
	if !strings.Contains(withDraft.Diff, "- Old sentence here.") || !strings.Contains(withDraft.Diff, "+ New sentence here.") {
		t.Errorf("Unexpected diff:\n%s", withDraft.Diff)
	}
	if withDraft.DraftMode != "template" {
		t.Errorf("Expected draft mode carried through, got %q", withDraft.DraftMode)
	}
}

func TestRenderMarkdown(t *testing.T) {
	b := newTestBuilder()
	claims, statuses, evidence := sampleInputs()
	r := b.Build("The answer text.", "## Draft\nrewritten.", "template", claims, statuses, evidence)

	md := b.RenderMarkdown(r)

	if !strings.HasPrefix(md, "# Claimlens — Review Report") {
		t.Error("Markdown missing title")
	}
	if !strings.Contains(md, "**Summary** — total: 2, supported: 1, unknown: 1") {
		t.Error("Markdown missing summary line")
	}
	if !strings.Contains(md, "| 1 | supported | Revenue grew 20% in 2022 | [C2] [C4] [C6] |") {
		t.Errorf("Markdown missing claim row:\n%s", md)
	}
	if !strings.Contains(md, "## Before / After") {
		t.Error("Markdown missing before/after section")
	}
	if !strings.Contains(md, "## References") || !strings.Contains(md, "- C2: The company reported") {
		t.Error("Markdown missing references")
	}
	if !strings.Contains(md, `Status "unknown" means not confidently supported`) {
		t.Error("Markdown missing footer note")
	}
}

func TestRenderMarkdown_EscapesPipes(t *testing.T) {
	b := newTestBuilder()
	claims := []model.Claim{{ID: "c1", Text: "a | b"}}
	r := b.Build("answer", "", "", claims, map[string]model.Status{"c1": model.StatusUnknown}, nil)

	md := b.RenderMarkdown(r)
	if !strings.Contains(md, `a \| b`) {
		t.Error("Pipe in claim text not escaped")
	}
}

func TestRenderMarkdown_NoFooter(t *testing.T) {
	b := NewBuilder(model.OutputConfig{IncludeFooter: false})
	claims, statuses, evidence := sampleInputs()
	r := b.Build("answer", "", "", claims, statuses, evidence)

	if strings.Contains(b.RenderMarkdown(r), "not a contradiction signal") {
		t.Error("Footer rendered despite being disabled")
	}
}

func TestRenderJSON(t *testing.T) {
	b := newTestBuilder()
	claims, statuses, evidence := sampleInputs()
	r := b.Build("answer", "", "", claims, statuses, evidence)

	out, err := b.RenderJSON(r)
	if err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	var parsed model.Report
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if parsed.Summary.Total != 2 {
		t.Errorf("Round-trip lost summary: %+v", parsed.Summary)
	}
}

func TestRoughSentenceDiff(t *testing.T) {
	before := "The sky is blue. Grass is green. Water is wet."
	after := "The sky is blue. Grass is emerald. Water is wet."

	diff := RoughSentenceDiff(before, after)
	if !strings.Contains(diff, "- Grass is green.") {
		t.Errorf("Diff missing removal:\n%s", diff)
	}
	if !strings.Contains(diff, "+ Grass is emerald.") {
		t.Errorf("Diff missing addition:\n%s", diff)
	}
	if strings.Contains(diff, "sky") {
		t.Error("Unchanged sentence appeared in diff")
	}

	if RoughSentenceDiff(before, before) != "" {
		t.Error("Expected empty diff for identical texts")
	}
}
