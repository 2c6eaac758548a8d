package model

import "time"

// Report is the complete shareable review artifact.
type Report struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	Summary     ReportSummary `json:"summary"`
	Answer      string        `json:"answer"`
	Draft       string        `json:"draft,omitempty"`
	DraftMode   string        `json:"draftMode,omitempty"` // "llm" or "template"
	Claims      []ReportClaim `json:"claims"`
	References  []Reference   `json:"references"`
	Diff        string        `json:"diff,omitempty"` // Rough sentence diff, markdown
}

// ReportSummary counts claims by outcome.
type ReportSummary struct {
	Total     int `json:"total"`
	Supported int `json:"supported"`
	Unknown   int `json:"unknown"`
}

// ReportClaim is one claim row in the report.
type ReportClaim struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Status     Status `json:"status"`
	Citations  []int  `json:"citations"`            // Cited chunk indexes
	TopSnippet string `json:"topSnippet,omitempty"` // Best evidence snippet, truncated
}

// Reference maps a cited chunk index to a truncated snippet.
type Reference struct {
	CID     int    `json:"cid"`
	Snippet string `json:"snippet"`
}
