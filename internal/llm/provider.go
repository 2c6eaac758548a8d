// Package llm generates grounded rewrite drafts through an optional
// model backend. The template fallback in the draft package always
// works without it.
package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkoval/claimlens/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Rewrite generates a grounded draft of the answer
	Rewrite(ctx context.Context, req RewriteRequest) (*RewriteResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// RewriteRequest contains the input for draft generation
type RewriteRequest struct {
	// Answer is the original text being fact-checked
	Answer string

	// Claims are the mined claims, with per-claim status and evidence
	Claims   []model.Claim
	Statuses map[string]model.Status
	Evidence map[string][]model.EvidenceItem

	// Model overrides the configured model when set
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// RewriteResponse contains the generated draft
type RewriteResponse struct {
	Draft      string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictCitations rejects drafts citing chunk ids outside the
	// evidence set (should always be true)
	StrictCitations bool

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:        "", // Disabled by default
		Timeout:         60,
		StrictCitations: true,
		MaxTokens:       800,
	}
}

const systemPrompt = "You rewrite the user's answer so every claim is grounded by the provided evidence snippets. " +
	"Keep only supported facts. Where evidence is weak, mark TODO and cite chunk ids. " +
	"Use concise, factual tone. Add inline citation markers like [C1], [C2] where appropriate."

// BuildPrompt constructs the rewrite prompt: the answer, then one line
// per claim with its status and up to two evidence snippets.
func BuildPrompt(req RewriteRequest) string {
	var b strings.Builder

	b.WriteString(systemPrompt)
	b.WriteString("\n\nUSER ANSWER:\n")
	b.WriteString(req.Answer)
	b.WriteString("\n\nEVIDENCE:\n")

	for _, c := range req.Claims {
		status := req.Statuses[c.ID]
		if status == "" {
			status = model.StatusUnknown
		}
		fmt.Fprintf(&b, "- Claim: %q | status: %s | evidence:\n", c.Text, status)

		items := req.Evidence[c.ID]
		if len(items) > 2 {
			items = items[:2]
		}
		if len(items) == 0 {
			b.WriteString("  - (no close match)\n")
			continue
		}
		for _, it := range items {
			fmt.Fprintf(&b, "  - [C%d] %s\n", it.Idx, snippet(it.Text, 280))
		}
	}

	b.WriteString("\nRewrite now. Add citation markers [C#] next to supported statements. " +
		"For unsupported statements, rewrite with TODO and the most relevant [C#] if any.")
	return b.String()
}

var citationRe = regexp.MustCompile(`\[C(\d+)\]`)

// VerifyCitations checks that every [C#] marker in the draft refers to
// a chunk that actually appeared in the evidence set. A draft citing
// invented chunks is worse than no draft.
func VerifyCitations(draft string, evidence map[string][]model.EvidenceItem) error {
	allowed := make(map[string]bool)
	for _, items := range evidence {
		for _, it := range items {
			allowed[fmt.Sprintf("%d", it.Idx)] = true
		}
	}

	for _, m := range citationRe.FindAllStringSubmatch(draft, -1) {
		if !allowed[m[1]] {
			return fmt.Errorf("draft cites unknown chunk [C%s]", m[1])
		}
	}
	return nil
}

// snippet collapses whitespace and truncates to max characters.
func snippet(text string, max int) string {
	s := strings.Join(strings.Fields(text), " ")
	if len(s) > max {
		s = s[:max]
	}
	return s
}
