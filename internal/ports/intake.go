package ports

import (
	"context"

	"github.com/mikey/llm-doc-triage/internal/core"
)

// Pipeline defines the triage entry points an intake drives
type Pipeline interface {
	// Process classifies and dispatches an already loaded input
	Process(ctx context.Context, in core.RawInput) core.PipelineResult

	// RunPath loads a file and processes it
	RunPath(ctx context.Context, path string) (core.PipelineResult, error)
}

// Intake defines the interface for sources that feed documents into the pipeline
type Intake interface {
	// Start starts accepting documents
	Start() error

	// Stop stops accepting documents and releases resources
	Stop() error
}
