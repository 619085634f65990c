package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/mikey/llm-doc-triage/internal/heuristics"
	"github.com/mikey/llm-doc-triage/internal/inference"
	"go.uber.org/zap"
)

// Confidence assigned by the heuristic path
const (
	ConfidenceMapping    = 0.95
	ConfidenceStructured = 0.90
	ConfidenceEmail      = 0.85
	ConfidenceText       = 0.50
)

// Metadata keys attached to every classification
const (
	MetaSource         = "source"
	MetaContentLength  = "content_length"
	MetaIsStructured   = "is_structured"
	MetaHasAttachments = "has_attachments"
	MetaInferenceError = "inference_error"
	MetaError          = "error"
)

// SourceHeuristic marks a decision made without a backend
const SourceHeuristic = "heuristic"

// Classifier decides the format and route of a raw input
type Classifier struct {
	textClassifier core.TextClassifier
	textRoute      core.Route
	timeout        time.Duration
	logger         *zap.Logger
}

// NewClassifier creates a Classifier. textClassifier may be nil, in which
// case only the heuristics are used.
func NewClassifier(textClassifier core.TextClassifier, textRoute core.Route, timeout time.Duration, logger *zap.Logger) *Classifier {
	if textRoute == "" {
		textRoute = core.RouteTextAgent
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Classifier{
		textClassifier: textClassifier,
		textRoute:      textRoute,
		timeout:        timeout,
		logger:         logger,
	}
}

// RouteFor maps a format to the agent that handles it
func RouteFor(format core.Format, textRoute core.Route) core.Route {
	switch format {
	case core.FormatStructured:
		return core.RouteJSONAgent
	case core.FormatEmail:
		return core.RouteEmailAgent
	default:
		return textRoute
	}
}

// Heuristic classifies an input from its shape alone
func Heuristic(in core.RawInput) (core.Format, float64) {
	if in.Kind == core.InputStructured {
		if in.IsMapping() {
			return core.FormatStructured, ConfidenceMapping
		}
		return core.FormatStructured, ConfidenceStructured
	}
	if heuristics.HasEmailSignals(in.Text) {
		return core.FormatEmail, ConfidenceEmail
	}
	return core.FormatText, ConfidenceText
}

// Classify never fails: backend problems fall back to the heuristic result
// and internal failures produce a zero-confidence Text classification.
func (c *Classifier) Classify(ctx context.Context, in core.RawInput) (result core.ClassificationResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Classification failed", zap.Any("panic", r), zap.String("source", in.Source))
			result = core.ClassificationResult{
				Format:     core.FormatText,
				RouteTo:    c.textRoute,
				Confidence: 0,
				Metadata: map[string]any{
					MetaSource: SourceHeuristic,
					MetaError:  fmt.Sprint(r),
				},
			}
		}
	}()

	text := in.String()
	format, confidence := Heuristic(in)
	metadata := map[string]any{
		MetaSource:         SourceHeuristic,
		MetaContentLength:  len(text),
		MetaIsStructured:   in.Kind == core.InputStructured,
		MetaHasAttachments: hasAttachments(in),
	}

	if in.Kind == core.InputText && c.textClassifier != nil {
		if f, conf, err := c.infer(ctx, in.Text); err != nil {
			metadata[MetaInferenceError] = err.Error()
			c.logger.Warn("Inference unavailable, using heuristic classification",
				zap.String("backend", c.textClassifier.Name()),
				zap.String("heuristic_format", string(format)),
				zap.Error(err))
		} else {
			format, confidence = f, conf
			metadata[MetaSource] = "inference:" + c.textClassifier.Name()
		}
	}

	result = core.ClassificationResult{
		Format:     format,
		RouteTo:    RouteFor(format, c.textRoute),
		Confidence: confidence,
		Metadata:   metadata,
	}

	c.logger.Info("Classified input",
		zap.String("source", in.Source),
		zap.String("format", string(result.Format)),
		zap.String("route_to", string(result.RouteTo)),
		zap.Float64("confidence", result.Confidence),
		zap.Any("decided_by", metadata[MetaSource]))

	return result
}

func (c *Classifier) infer(ctx context.Context, text string) (core.Format, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	label, confidence, err := c.textClassifier.ClassifyText(ctx, text)
	if err != nil {
		return "", 0, err
	}

	switch label {
	case inference.LabelEmail:
		return core.FormatEmail, confidence, nil
	case inference.LabelText:
		return core.FormatText, confidence, nil
	case inference.LabelStructured:
		if !json.Valid([]byte(text)) {
			return "", 0, fmt.Errorf("backend labelled non-JSON text as structured")
		}
		return core.FormatStructured, confidence, nil
	default:
		return "", 0, fmt.Errorf("backend returned unknown label %q", label)
	}
}

func hasAttachments(in core.RawInput) bool {
	if in.Kind == core.InputText {
		return heuristics.MentionsAttachment(in.Text)
	}
	if m, ok := in.Data.(map[string]any); ok {
		for _, key := range []string{"attachments", "attachment", "files"} {
			if _, found := m[key]; found {
				return true
			}
		}
	}
	return false
}
