package jsonagent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/mikey/llm-doc-triage/internal/heuristics"
	"github.com/mikey/llm-doc-triage/internal/utils"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

// Defaults for fields that could not be promoted
const (
	DefaultCustomer        = "Unknown"
	DefaultRequestType     = "general"
	NonObjectRequestType   = "data_processing"
	AnomalyInvalidJSON     = "Invalid JSON format"
	AnomalyMissingCustomer = "Missing customer information"
	AnomalyProcessingError = "Processing error"
)

// Recommendation thresholds
const (
	maxRecommendedDepth = 3
	maxRecommendedSize  = 10000
)

var (
	customerKeys    = []string{"customer", "user"}
	requestTypeKeys = []string{"type", "request_type"}
)

const analysisPromptFormat = `You are reviewing a structured payload received by an intake pipeline.
In a short paragraph, describe the main purpose of the data, any issues you notice, and the action you recommend.

JSON content:
%s`

// Agent reformats structured payloads into a canonical customer record
type Agent struct {
	schema        *jsonschema.Schema
	llm           core.LLMClient
	textProcessor *utils.TextProcessor
	maxInputSize  int
	timeout       time.Duration
	logger        *zap.Logger
}

// NewAgent creates a JSON agent. schema and llm are optional; a nil llm
// disables the generated analysis.
func NewAgent(
	schema *jsonschema.Schema,
	llm core.LLMClient,
	textProcessor *utils.TextProcessor,
	maxInputSize int,
	timeout time.Duration,
	logger *zap.Logger,
) *Agent {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Agent{
		schema:        schema,
		llm:           llm,
		textProcessor: textProcessor,
		maxInputSize:  maxInputSize,
		timeout:       timeout,
		logger:        logger,
	}
}

// Process reformats the input and reports anomalies. It never fails: parse
// problems and internal errors are reported inside the result.
func (a *Agent) Process(ctx context.Context, in core.RawInput) (result core.JSONResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("JSON agent failed", zap.Any("panic", r), zap.String("source", in.Source))
			result = core.JSONResult{
				Status:    core.StatusError,
				Error:     fmt.Sprint(r),
				Anomalies: append(result.Anomalies, AnomalyProcessingError),
			}
		}
	}()

	value, err := decodeInput(in)
	if err != nil {
		a.logger.Info("Payload is not valid JSON", zap.String("source", in.Source), zap.Error(err))
		return core.JSONResult{
			Status:    core.StatusError,
			Error:     err.Error(),
			Anomalies: []string{AnomalyInvalidJSON},
		}
	}

	reformatted, anomalies := Reformat(value)
	result = core.JSONResult{
		Status:      core.StatusSuccess,
		Reformatted: reformatted,
		Anomalies:   anomalies,
	}

	if a.schema != nil {
		violations, err := schemaAnomalies(a.schema, value)
		if err != nil {
			a.logger.Warn("Schema validation could not run", zap.Error(err))
		}
		result.Anomalies = append(result.Anomalies, violations...)
	}

	structure := heuristics.AnalyzeStructure(value)
	result.Structure = &structure
	result.Recommendations = Recommendations(value, structure)

	if a.llm != nil {
		result.Analysis = a.analyze(ctx, value)
	}

	a.logger.Info("Processed structured payload",
		zap.String("source", in.Source),
		zap.String("customer", reformatted.Customer),
		zap.String("request_type", reformatted.RequestType),
		zap.Int("anomalies", len(result.Anomalies)))

	return result
}

// Reformat promotes customer and request type fields and keeps every other
// field under details
func Reformat(value any) (core.JSONReformatted, []string) {
	anomalies := []string{}

	m, ok := value.(map[string]any)
	if !ok {
		return core.JSONReformatted{
			Customer:    DefaultCustomer,
			RequestType: NonObjectRequestType,
			Details:     value,
		}, anomalies
	}

	consumed := map[string]bool{}

	customer, key, found := firstPresent(m, customerKeys)
	if found {
		consumed[key] = true
	} else {
		customer = DefaultCustomer
		anomalies = append(anomalies, AnomalyMissingCustomer)
	}

	requestType, key, found := firstPresent(m, requestTypeKeys)
	if found {
		consumed[key] = true
	} else {
		requestType = DefaultRequestType
	}

	details := make(map[string]any, len(m))
	for k, v := range m {
		if !consumed[k] {
			details[k] = v
		}
	}

	return core.JSONReformatted{
		Customer:    customer,
		RequestType: requestType,
		Details:     details,
	}, anomalies
}

// Recommendations returns rule-based advice on the payload's shape
func Recommendations(value any, structure core.StructureInfo) []string {
	var recs []string
	if m, ok := value.(map[string]any); ok && len(m) == 0 {
		recs = append(recs, "Empty JSON object - consider adding required fields")
	}
	if structure.Depth > maxRecommendedDepth {
		recs = append(recs, "Deep nesting detected - consider flattening structure")
	}
	if structure.Size > maxRecommendedSize {
		recs = append(recs, "Large JSON object - consider splitting into smaller chunks")
	}
	return recs
}

// firstPresent returns the first non-null value among keys, rendered as text
func firstPresent(m map[string]any, keys []string) (string, string, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			return s, k, true
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v), k, true
		}
		return string(b), k, true
	}
	return "", "", false
}

func decodeInput(in core.RawInput) (any, error) {
	if in.Kind == core.InputStructured {
		return in.Data, nil
	}
	return Decode([]byte(in.Text))
}

// Decode parses a single JSON document, keeping numbers as json.Number
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode JSON: trailing data after document")
	}
	return v, nil
}

func (a *Agent) analyze(ctx context.Context, value any) string {
	pretty, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := fmt.Sprintf(analysisPromptFormat, a.textProcessor.ProcessText(string(pretty), a.maxInputSize))
	analysis, err := a.llm.CompleteText(ctx, prompt)
	if err != nil {
		a.logger.Warn("Skipping generated analysis", zap.String("backend", a.llm.Name()), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(analysis)
}
