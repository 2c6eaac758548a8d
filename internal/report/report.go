// Package report assembles and renders the shareable review artifact.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkoval/claimlens/internal/model"
)

// Builder assembles reports from check results.
type Builder struct {
	includeFooter bool
	now           func() time.Time
}

// NewBuilder creates a report builder.
func NewBuilder(cfg model.OutputConfig) *Builder {
	return &Builder{
		includeFooter: cfg.IncludeFooter,
		now:           time.Now,
	}
}

// Build assembles the report: one row per claim with its top-3 citations
// and best snippet, a de-duplicated references block, and a rough
// sentence diff when a draft exists.
func (b *Builder) Build(answer, draft string, draftMode string, claims []model.Claim,
	statuses map[string]model.Status, evidence map[string][]model.EvidenceItem) model.Report {

	rows := make([]model.ReportClaim, 0, len(claims))
	supported := 0

	for _, c := range claims {
		items := evidence[c.ID]

		var cites []int
		for i, it := range items {
			if i >= 3 {
				break
			}
			cites = append(cites, it.Idx)
		}

		topSnippet := ""
		if len(items) > 0 {
			topSnippet = snippet(items[0].Text, 280)
		}

		status := statuses[c.ID]
		if status == "" {
			status = model.StatusPending
		}
		if status == model.StatusSupported {
			supported++
		}

		rows = append(rows, model.ReportClaim{
			ID:         c.ID,
			Text:       c.Text,
			Status:     status,
			Citations:  cites,
			TopSnippet: topSnippet,
		})
	}

	diff := ""
	if draft != "" {
		diff = RoughSentenceDiff(answer, draft)
	}

	return model.Report{
		GeneratedAt: b.now().UTC(),
		Summary: model.ReportSummary{
			Total:     len(claims),
			Supported: supported,
			Unknown:   len(claims) - supported,
		},
		Answer:     answer,
		Draft:      draft,
		DraftMode:  draftMode,
		Claims:     rows,
		References: buildReferences(rows, claims, evidence),
		Diff:       diff,
	}
}

// buildReferences collects each cited chunk once, in first-citation
// order, resolving the snippet from whichever claim cited it.
func buildReferences(rows []model.ReportClaim, claims []model.Claim,
	evidence map[string][]model.EvidenceItem) []model.Reference {

	seen := make(map[int]bool)
	var refs []model.Reference

	for _, r := range rows {
		for _, cid := range r.Citations {
			if seen[cid] {
				continue
			}
			seen[cid] = true

			text := ""
			for _, c := range claims {
				for _, it := range evidence[c.ID] {
					if it.Idx == cid {
						text = snippet(it.Text, 320)
						break
					}
				}
				if text != "" {
					break
				}
			}
			refs = append(refs, model.Reference{CID: cid, Snippet: text})
		}
	}
	return refs
}

// RenderMarkdown renders the report for humans.
func (b *Builder) RenderMarkdown(r model.Report) string {
	var lines []string

	lines = append(lines,
		"# Claimlens — Review Report",
		fmt.Sprintf("_Generated: %s_", r.GeneratedAt.Format(time.RFC3339)),
		"",
		fmt.Sprintf("**Summary** — total: %d, supported: %d, unknown: %d",
			r.Summary.Total, r.Summary.Supported, r.Summary.Unknown),
		"",
		"| # | Status | Claim | Citations |",
		"|:-:|:------:|-------|:---------:|",
	)

	for i, row := range r.Claims {
		var cites []string
		for _, c := range row.Citations {
			cites = append(cites, fmt.Sprintf("[C%d]", c))
		}
		citeCell := strings.Join(cites, " ")
		if citeCell == "" {
			citeCell = "-"
		}
		lines = append(lines, fmt.Sprintf("| %d | %s | %s | %s |",
			i+1, row.Status, strings.ReplaceAll(row.Text, "|", `\|`), citeCell))
	}
	lines = append(lines, "")

	if r.Draft != "" {
		lines = append(lines,
			"## Before / After",
			"**Before (answer):**",
			"",
			"```",
			r.Answer,
			"```",
			"",
			"**After (fix draft):**",
			"",
			"```",
			r.Draft,
			"```",
		)
	}

	if r.Diff != "" {
		lines = append(lines, "", "## Rough Diff", r.Diff)
	}

	if len(r.References) > 0 {
		lines = append(lines, "", "## References")
		for _, ref := range r.References {
			lines = append(lines, fmt.Sprintf("- C%d: %s", ref.CID, ref.Snippet))
		}
	}

	if b.includeFooter {
		lines = append(lines, "",
			`_Note: Status "unknown" means not confidently supported by top-k evidence; it is not a contradiction signal._`)
	}

	return strings.Join(lines, "\n")
}

// RenderJSON renders the report as indented JSON.
func (b *Builder) RenderJSON(r model.Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}

func snippet(text string, max int) string {
	s := strings.Join(strings.Fields(text), " ")
	if len(s) > max {
		s = s[:max]
	}
	return s
}
