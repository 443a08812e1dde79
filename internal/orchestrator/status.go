package orchestrator

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"icontitle/internal/config"
)

// OutputState describes the output file relative to what a run would write.
type OutputState string

const (
	OutputMissing OutputState = "missing"
	OutputCurrent OutputState = "up to date"
	OutputStale   OutputState = "stale"
)

// StatusResult contains the analysis of a merge that was not written.
type StatusResult struct {
	Summary *Summary
	Output  OutputState
}

// Status merges the configured catalogs without writing anything and reports
// whether the existing output file matches what Run would produce.
func Status(cfg *config.Configuration) (*StatusResult, error) {
	start := time.Now()

	cat, summary, err := merge(cfg)
	if err != nil {
		return nil, err
	}
	summary.Duration = time.Since(start)

	state, err := outputState(cfg.OutputFile, cat.Bytes())
	if err != nil {
		return nil, err
	}

	return &StatusResult{
		Summary: summary,
		Output:  state,
	}, nil
}

func outputState(path string, want []byte) (OutputState, error) {
	current, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return OutputMissing, nil
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if bytes.Equal(current, want) {
		return OutputCurrent, nil
	}
	return OutputStale, nil
}

// OutputMessage describes the state of the output file.
func (r *StatusResult) OutputMessage() string {
	return fmt.Sprintf("Output %s is %s", r.Summary.OutputPath, r.Output)
}
