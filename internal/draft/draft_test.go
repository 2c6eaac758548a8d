package draft

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pkoval/claimlens/internal/llm"
	"github.com/pkoval/claimlens/internal/model"
)

func sampleInputs() Inputs {
	return Inputs{
		Answer: "Revenue grew 20% in 2022 and the CEO resigned in March.",
		Claims: []model.Claim{
			{ID: "c1", Text: "Revenue grew 20% in 2022"},
			{ID: "c2", Text: "the CEO resigned in March"},
		},
		Statuses: map[string]model.Status{
			"c1": model.StatusSupported,
			"c2": model.StatusUnknown,
		},
		Evidence: map[string][]model.EvidenceItem{
			"c1": {{Idx: 2, Text: "The company reported revenue growth of 20% in 2022."}},
			"c2": {{Idx: 5, Text: "Leadership changes were announced."}},
		},
	}
}

func TestTemplate_StructureAndTODOs(t *testing.T) {
	out := Template(sampleInputs())

	if !strings.HasPrefix(out, "## Grounded Revision (Template Mode)") {
		t.Error("Draft missing template heading")
	}
	if !strings.Contains(out, "Revenue grew 20% in 2022 and the CEO resigned in March.") {
		t.Error("Draft missing the original answer")
	}
	// Only the unknown claim gets a TODO
	if !strings.Contains(out, `TODO: Verify/ground: "the CEO resigned in March" [C5]`) {
		t.Errorf("Draft missing TODO for unknown claim:\n%s", out)
	}
	if strings.Contains(out, `TODO: Verify/ground: "Revenue grew 20% in 2022"`) {
		t.Error("Supported claim should not get a TODO")
	}
	if !strings.Contains(out, "### References (chunks)") {
		t.Error("Draft missing references block")
	}
	if !strings.Contains(out, "- [C2] The company reported") || !strings.Contains(out, "- [C5] Leadership changes") {
		t.Errorf("References incomplete:\n%s", out)
	}
}

func TestTemplate_Deterministic(t *testing.T) {
	in := sampleInputs()
	if Template(in) != Template(in) {
		t.Error("Expected identical drafts for identical inputs")
	}
}

func TestTemplate_NoEvidenceHint(t *testing.T) {
	in := Inputs{
		Answer:   "A lonely unverified statement.",
		Claims:   []model.Claim{{ID: "c1", Text: "A lonely unverified statement"}},
		Statuses: map[string]model.Status{"c1": model.StatusUnknown},
		Evidence: map[string][]model.EvidenceItem{},
	}
	out := Template(in)

	if !strings.Contains(out, "(no close match)") {
		t.Error("Expected placeholder hint for claim without evidence")
	}
	if strings.Contains(out, "### References") {
		t.Error("Expected no references block without evidence")
	}
}

type failingProvider struct{}

func (failingProvider) Name() string { return "fake" }
func (failingProvider) Rewrite(context.Context, llm.RewriteRequest) (*llm.RewriteResponse, error) {
	return nil, errors.New("backend down")
}
func (failingProvider) IsAvailable(context.Context) bool { return true }

// downProvider is unreachable; Rewrite records whether it was called anyway.
type downProvider struct {
	rewrites int
}

func (*downProvider) Name() string { return "fake" }
func (d *downProvider) Rewrite(context.Context, llm.RewriteRequest) (*llm.RewriteResponse, error) {
	d.rewrites++
	return nil, errors.New("backend down")
}
func (*downProvider) IsAvailable(context.Context) bool { return false }

type okProvider struct{}

func (okProvider) Name() string { return "fake" }
func (okProvider) Rewrite(context.Context, llm.RewriteRequest) (*llm.RewriteResponse, error) {
	return &llm.RewriteResponse{Draft: "A polished rewrite [C2]."}, nil
}
func (okProvider) IsAvailable(context.Context) bool { return true }

func TestDrafter_NilProviderUsesTemplate(t *testing.T) {
	d := NewDrafter(nil, nil)
	out, mode := d.Generate(context.Background(), sampleInputs())

	if mode != ModeTemplate {
		t.Errorf("Expected template mode, got %s", mode)
	}
	if !strings.Contains(out, "Template Mode") {
		t.Error("Expected template draft")
	}
}

func TestDrafter_FallsBackOnError(t *testing.T) {
	var errBuf bytes.Buffer
	d := NewDrafter(failingProvider{}, &errBuf)
	out, mode := d.Generate(context.Background(), sampleInputs())

	if mode != ModeTemplate {
		t.Errorf("Expected fallback to template, got %s", mode)
	}
	if !strings.Contains(out, "Template Mode") {
		t.Error("Expected template draft after provider failure")
	}
	if !strings.Contains(errBuf.String(), "backend down") {
		t.Errorf("Expected fallback notice, got %q", errBuf.String())
	}
}

func TestDrafter_SkipsUnreachableBackend(t *testing.T) {
	var errBuf bytes.Buffer
	p := &downProvider{}
	d := NewDrafter(p, &errBuf)
	out, mode := d.Generate(context.Background(), sampleInputs())

	if mode != ModeTemplate {
		t.Errorf("Expected template mode, got %s", mode)
	}
	if !strings.Contains(out, "Template Mode") {
		t.Error("Expected template draft for unreachable backend")
	}
	if p.rewrites != 0 {
		t.Errorf("Expected no rewrite attempts against an unreachable backend, got %d", p.rewrites)
	}
	if !strings.Contains(errBuf.String(), "unreachable") {
		t.Errorf("Expected unreachable notice, got %q", errBuf.String())
	}
}

func TestDrafter_UsesProviderWhenHealthy(t *testing.T) {
	d := NewDrafter(okProvider{}, nil)
	out, mode := d.Generate(context.Background(), sampleInputs())

	if mode != ModeLLM {
		t.Errorf("Expected llm mode, got %s", mode)
	}
	if out != "A polished rewrite [C2]." {
		t.Errorf("Unexpected draft: %q", out)
	}
}
