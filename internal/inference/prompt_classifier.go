package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/mikey/llm-doc-triage/internal/utils"
	"go.uber.org/zap"
)

// Labels a text classifier may answer with
const (
	LabelStructured = "structured"
	LabelEmail      = "email"
	LabelText       = "text"
)

// DefaultConfidence is used when a backend names a label without a usable score
const DefaultConfidence = 0.75

const classifyPromptFormat = `You are a document triage system. Decide which format the following input is.
Respond with a JSON object containing:
- label: one of "structured" (a JSON document), "email" (an email message with headers), or "text" (anything else)
- confidence: number between 0 and 1 (how confident you are in your assessment)

Input:
%s

Respond only with the JSON object and nothing else.`

// PromptClassifier turns a text-completion backend into a TextClassifier
type PromptClassifier struct {
	client        core.LLMClient
	textProcessor *utils.TextProcessor
	maxInputSize  int
	logger        *zap.Logger
}

type classifyResponse struct {
	Label      string   `json:"label"`
	Confidence *float64 `json:"confidence"`
}

// NewPromptClassifier creates a classifier that prompts client for a label
func NewPromptClassifier(client core.LLMClient, textProcessor *utils.TextProcessor, maxInputSize int, logger *zap.Logger) *PromptClassifier {
	return &PromptClassifier{
		client:        client,
		textProcessor: textProcessor,
		maxInputSize:  maxInputSize,
		logger:        logger,
	}
}

// Name identifies the backing completion client
func (c *PromptClassifier) Name() string {
	return c.client.Name()
}

// ClassifyText asks the backend for a format label
func (c *PromptClassifier) ClassifyText(ctx context.Context, text string) (string, float64, error) {
	prompt := fmt.Sprintf(classifyPromptFormat, c.textProcessor.ProcessText(text, c.maxInputSize))

	answer, err := c.client.CompleteText(ctx, prompt)
	if err != nil {
		return "", 0, fmt.Errorf("failed to classify text with %s: %w", c.client.Name(), err)
	}

	label, confidence, err := ParseLabel(answer)
	if err != nil {
		return "", 0, err
	}

	c.logger.Debug("Backend classified text",
		zap.String("backend", c.client.Name()),
		zap.String("label", label),
		zap.Float64("confidence", confidence))

	return label, confidence, nil
}

// ParseLabel reads a label from a model answer, either a JSON object or a bare word
func ParseLabel(answer string) (string, float64, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", 0, core.ErrEmptyResponse
	}

	if obj, ok := utils.ExtractJSONObject(answer); ok {
		var resp classifyResponse
		if err := json.Unmarshal([]byte(obj), &resp); err != nil {
			return "", 0, fmt.Errorf("failed to parse classification response as JSON: %w", err)
		}
		label := strings.ToLower(strings.TrimSpace(resp.Label))
		if label == "" {
			return "", 0, fmt.Errorf("classification response has no label")
		}
		confidence := DefaultConfidence
		if resp.Confidence != nil && *resp.Confidence >= 0 && *resp.Confidence <= 1 {
			confidence = *resp.Confidence
		}
		return label, confidence, nil
	}

	label := strings.ToLower(strings.Trim(strings.Fields(answer)[0], `"'.,:;`))
	return label, DefaultConfidence, nil
}

// IsKnownLabel reports whether label belongs to the closed label set
func IsKnownLabel(label string) bool {
	switch label {
	case LabelStructured, LabelEmail, LabelText:
		return true
	}
	return false
}
