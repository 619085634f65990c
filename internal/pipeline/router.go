package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/llm-doc-triage/internal/agents/emailagent"
	"github.com/mikey/llm-doc-triage/internal/agents/jsonagent"
	"github.com/mikey/llm-doc-triage/internal/agents/textagent"
	"github.com/mikey/llm-doc-triage/internal/classifier"
	"github.com/mikey/llm-doc-triage/internal/core"
	"go.uber.org/zap"
)

// Sink keys written after every run
const (
	KeyLastClassification = "last_classification"
	KeyLastOutput         = "last_output"
)

// Router drives one input through Load, Classify, Dispatch and Persist
type Router struct {
	loader     *Loader
	classifier *classifier.Classifier
	jsonAgent  *jsonagent.Agent
	emailAgent *emailagent.Agent
	textAgent  *textagent.Agent
	sink       core.Sink
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// NewRouter creates a new Router. A nil sink disables persistence.
func NewRouter(
	loader *Loader,
	classifier *classifier.Classifier,
	jsonAgent *jsonagent.Agent,
	emailAgent *emailagent.Agent,
	textAgent *textagent.Agent,
	sink core.Sink,
	logger *zap.Logger,
) *Router {
	return &Router{
		loader:     loader,
		classifier: classifier,
		jsonAgent:  jsonAgent,
		emailAgent: emailAgent,
		textAgent:  textAgent,
		sink:       sink,
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// RunPath loads the file at path and processes it. Only loading can fail.
func (r *Router) RunPath(ctx context.Context, path string) (core.PipelineResult, error) {
	in, err := r.loader.Load(ctx, path)
	if err != nil {
		r.logger.Error("Failed to load input", zap.String("path", path), zap.Error(err))
		return core.PipelineResult{}, err
	}
	return r.Process(ctx, in), nil
}

// Process classifies an already loaded input, dispatches it to its agent and
// persists the outcome
func (r *Router) Process(ctx context.Context, in core.RawInput) core.PipelineResult {
	id := r.newID()
	logger := r.logger.With(zap.String("id", id), zap.String("source", in.Source))

	classification := r.classifier.Classify(ctx, in)
	output := r.Dispatch(ctx, in, classification)

	logger.Info("Routed input",
		zap.String("format", string(classification.Format)),
		zap.String("route_to", string(classification.RouteTo)),
		zap.Float64("confidence", classification.Confidence))

	r.persist(ctx, logger, classification, output)

	return core.PipelineResult{
		ID:             id,
		Source:         in.Source,
		Classification: classification,
		Output:         output,
		ProcessedAt:    r.now().UTC(),
	}
}

// Dispatch hands the input to the agent named by the classification
func (r *Router) Dispatch(ctx context.Context, in core.RawInput, classification core.ClassificationResult) any {
	switch classification.RouteTo {
	case core.RouteJSONAgent:
		return r.jsonAgent.Process(ctx, in)
	case core.RouteEmailAgent:
		return r.emailAgent.Process(ctx, in.String())
	default:
		return r.textAgent.Process(ctx, in.String())
	}
}

func (r *Router) persist(ctx context.Context, logger *zap.Logger, classification core.ClassificationResult, output any) {
	if r.sink == nil {
		return
	}
	entries := []struct {
		key   string
		value any
	}{
		{KeyLastClassification, classification},
		{KeyLastOutput, output},
	}
	for _, entry := range entries {
		if err := r.put(ctx, entry.key, entry.value); err != nil {
			logger.Error("Failed to persist pipeline result", zap.String("key", entry.key), zap.Error(err))
		}
	}
}

func (r *Router) put(ctx context.Context, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return r.sink.Put(ctx, key, string(encoded))
}
