package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CheckFunc runs a review for one answer and returns the rendered report.
type CheckFunc func(ctx context.Context, answer string) (string, error)

// ReviewJob checks one answer file against the store and writes the
// rendered report next to it.
type ReviewJob struct {
	AnswerPath string
	OutputDir  string
	Check      CheckFunc
}

// ReviewResult is the outcome of one batch review.
type ReviewResult struct {
	AnswerPath string
	OutputPath string
	Err        error
}

// GetError returns the job error, if any
func (r ReviewResult) GetError() error {
	return r.Err
}

// Execute reads the answer file, runs the check and writes the report.
func (j ReviewJob) Execute(ctx context.Context) Result {
	res := ReviewResult{AnswerPath: j.AnswerPath}

	data, err := os.ReadFile(j.AnswerPath)
	if err != nil {
		res.Err = fmt.Errorf("read answer: %w", err)
		return res
	}

	rendered, err := j.Check(ctx, string(data))
	if err != nil {
		res.Err = fmt.Errorf("check %s: %w", filepath.Base(j.AnswerPath), err)
		return res
	}

	res.OutputPath = j.outputPath()
	if err := os.WriteFile(res.OutputPath, []byte(rendered), 0644); err != nil {
		res.Err = fmt.Errorf("write report: %w", err)
	}
	return res
}

// outputPath derives the report path: <output-dir>/<answer-stem>.report.md
func (j ReviewJob) outputPath() string {
	base := filepath.Base(j.AnswerPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	dir := j.OutputDir
	if dir == "" {
		dir = filepath.Dir(j.AnswerPath)
	}
	return filepath.Join(dir, stem+".report.md")
}
