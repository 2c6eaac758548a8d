// Package draft produces a grounded rewrite of the answer: a model
// backend when configured, a deterministic template otherwise.
package draft

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkoval/claimlens/internal/model"
)

// Inputs is everything draft generation needs from a completed check.
type Inputs struct {
	Answer   string
	Claims   []model.Claim
	Statuses map[string]model.Status
	Evidence map[string][]model.EvidenceItem
}

// Mode records which generator produced the draft.
type Mode string

const (
	ModeLLM      Mode = "llm"
	ModeTemplate Mode = "template"
)

// Template produces the fallback draft. It keeps the answer verbatim,
// appends a TODO line per non-supported claim with its best evidence
// hint, and closes with a References block of every cited chunk.
// Deterministic for fixed inputs.
func Template(in Inputs) string {
	var lines []string
	lines = append(lines,
		"## Grounded Revision (Template Mode)",
		"",
		"> This draft keeps supported facts and annotates uncertain parts with TODO.",
		"",
		in.Answer,
		"",
	)

	var notes []string
	for _, c := range in.Claims {
		if in.Statuses[c.ID] == model.StatusSupported {
			continue
		}

		items := in.Evidence[c.ID]
		if len(items) > 2 {
			items = items[:2]
		}

		var cites []string
		for _, it := range items {
			cites = append(cites, fmt.Sprintf("[C%d]", it.Idx))
		}
		hint := "(no close match)"
		if len(items) > 0 {
			hint = snippet(items[0].Text, 200)
		}
		notes = append(notes, fmt.Sprintf("- TODO: Verify/ground: %q %s  · Hint: %s",
			c.Text, strings.Join(cites, " "), hint))
	}
	if len(notes) > 0 {
		lines = append(lines, "### TODOs (needs grounding)")
		lines = append(lines, notes...)
		lines = append(lines, "")
	}

	if refs := referenceLines(in.Claims, in.Evidence); len(refs) > 0 {
		lines = append(lines, "### References (chunks)")
		lines = append(lines, refs...)
	}

	return strings.Join(lines, "\n")
}

// referenceLines collects every evidence chunk once, ordered by index.
func referenceLines(claims []model.Claim, evidence map[string][]model.EvidenceItem) []string {
	seen := make(map[int]string)
	for _, c := range claims {
		for _, it := range evidence[c.ID] {
			if _, ok := seen[it.Idx]; !ok {
				seen[it.Idx] = it.Text
			}
		}
	}

	idxs := make([]int, 0, len(seen))
	for idx := range seen {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)

	out := make([]string, 0, len(idxs))
	for _, idx := range idxs {
		out = append(out, fmt.Sprintf("- [C%d] %s", idx, snippet(seen[idx], 260)))
	}
	return out
}

func snippet(text string, max int) string {
	s := strings.Join(strings.Fields(text), " ")
	if len(s) > max {
		s = s[:max]
	}
	return s
}
