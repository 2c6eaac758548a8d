package draft

import (
	"context"
	"fmt"
	"io"

	"github.com/pkoval/claimlens/internal/llm"
)

// Drafter generates the grounded rewrite. With a nil provider it goes
// straight to the template; with one configured it tries the model and
// falls back silently, noting the reason on errw.
type Drafter struct {
	provider llm.Provider
	errw     io.Writer
}

// NewDrafter creates a drafter. provider may be nil; errw may be nil to
// discard fallback notices.
func NewDrafter(provider llm.Provider, errw io.Writer) *Drafter {
	if errw == nil {
		errw = io.Discard
	}
	return &Drafter{provider: provider, errw: errw}
}

// Generate returns the draft and the mode that produced it.
// The template path cannot fail, so neither can Generate.
func (d *Drafter) Generate(ctx context.Context, in Inputs) (string, Mode) {
	if d.provider != nil {
		if !d.provider.IsAvailable(ctx) {
			fmt.Fprintf(d.errw, "LLM backend unreachable (%s), using template\n", d.provider.Name())
			return Template(in), ModeTemplate
		}
		resp, err := d.provider.Rewrite(ctx, llm.RewriteRequest{
			Answer:   in.Answer,
			Claims:   in.Claims,
			Statuses: in.Statuses,
			Evidence: in.Evidence,
		})
		if err == nil {
			return resp.Draft, ModeLLM
		}
		fmt.Fprintf(d.errw, "LLM draft failed (%s), using template: %v\n", d.provider.Name(), err)
	}
	return Template(in), ModeTemplate
}
