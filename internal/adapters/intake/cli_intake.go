package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mikey/llm-doc-triage/internal/agents/jsonagent"
	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/mikey/llm-doc-triage/internal/ports"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Output formats supported by the CLI intake
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// CLIIntake triages single documents from the command line and prints the result
type CLIIntake struct {
	pipeline ports.Pipeline
	out      io.Writer
	format   string
	verbose  bool
	logger   *zap.Logger
}

// NewCLIIntake creates a new CLI intake
func NewCLIIntake(pipeline ports.Pipeline, out io.Writer, format string, verbose bool, logger *zap.Logger) (*CLIIntake, error) {
	switch format {
	case "":
		format = OutputText
	case OutputText, OutputJSON, OutputYAML:
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	return &CLIIntake{
		pipeline: pipeline,
		out:      out,
		format:   format,
		verbose:  verbose,
		logger:   logger,
	}, nil
}

// Start is a no-op for the CLI intake
func (c *CLIIntake) Start() error {
	return nil
}

// Stop is a no-op for the CLI intake
func (c *CLIIntake) Stop() error {
	return nil
}

// RunPath triages the file at path and prints the result
func (c *CLIIntake) RunPath(ctx context.Context, path string) (core.PipelineResult, error) {
	c.logger.Debug("Processing file", zap.String("path", path))

	start := time.Now()
	result, err := c.pipeline.RunPath(ctx, path)
	if err != nil {
		return core.PipelineResult{}, err
	}
	c.logger.Debug("Processed file", zap.String("path", path), zap.Duration("duration", time.Since(start)))

	return result, c.Render(result)
}

// RunReader triages a document read from r, typically stdin. JSON documents
// are decoded; anything else is processed as text.
func (c *CLIIntake) RunReader(ctx context.Context, r io.Reader, source string) (core.PipelineResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.PipelineResult{}, fmt.Errorf("failed to read input: %w", err)
	}

	in := core.NewTextInput(string(data))
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && json.Valid(trimmed) {
		if value, err := jsonagent.Decode(trimmed); err == nil {
			in = core.NewStructuredInput(value)
		}
	}
	in.Source = source

	result := c.pipeline.Process(ctx, in)
	return result, c.Render(result)
}

// Render prints a result in the configured output format
func (c *CLIIntake) Render(result core.PipelineResult) error {
	switch c.format {
	case OutputJSON:
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case OutputYAML:
		generic, err := toGeneric(result)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(c.out)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		c.renderText(result)
		return nil
	}
}

func (c *CLIIntake) renderText(result core.PipelineResult) {
	w := c.out
	fmt.Fprintf(w, "\n=== Classification ===\n")
	if result.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", result.Source)
	}
	fmt.Fprintf(w, "ID: %s\n", result.ID)
	fmt.Fprintf(w, "Format: %s\n", result.Classification.Format)
	fmt.Fprintf(w, "Route: %s\n", result.Classification.RouteTo)
	fmt.Fprintf(w, "Confidence: %.2f\n", result.Classification.Confidence)
	if c.verbose {
		keys := make([]string, 0, len(result.Classification.Metadata))
		for k := range result.Classification.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %v\n", k, result.Classification.Metadata[k])
		}
	}

	fmt.Fprintf(w, "\n=== Output ===\n")
	switch out := result.Output.(type) {
	case core.JSONResult:
		fmt.Fprintf(w, "Status: %s\n", out.Status)
		if out.Error != "" {
			fmt.Fprintf(w, "Error: %s\n", out.Error)
		}
		if !out.Reformatted.IsZero() {
			fmt.Fprintf(w, "Customer: %s\n", out.Reformatted.Customer)
			fmt.Fprintf(w, "Request type: %s\n", out.Reformatted.RequestType)
		}
		writeList(w, "Anomalies", out.Anomalies)
		writeList(w, "Recommendations", out.Recommendations)
		if out.Analysis != "" {
			fmt.Fprintf(w, "Analysis: %s\n", out.Analysis)
		}
	case core.EmailResult:
		fmt.Fprintf(w, "Status: %s\n", out.Status)
		if out.Error != "" {
			fmt.Fprintf(w, "Error: %s\n", out.Error)
		}
		fmt.Fprintf(w, "From: %s\n", out.Metadata.SenderEmail)
		fmt.Fprintf(w, "Subject: %s\n", out.Metadata.Subject)
		fmt.Fprintf(w, "Intent: %s\n", out.Metadata.Intent)
		fmt.Fprintf(w, "Urgency: %s\n", out.Metadata.Urgency)
		fmt.Fprintf(w, "Known sender: %t\n", out.Metadata.KnownSender)
		writeList(w, "Suggested actions", out.Content.SuggestedActions)
		fmt.Fprintf(w, "\n--- Response ---\n%s\n", out.Content.Response)
	case core.TextResult:
		fmt.Fprintf(w, "Status: %s\n", out.Status)
		fmt.Fprintf(w, "Words: %d\n", out.WordCount)
		fmt.Fprintf(w, "Lines: %d\n", out.LineCount)
		fmt.Fprintf(w, "Intent: %s\n", out.Intent)
		fmt.Fprintf(w, "Urgency: %s\n", out.Urgency)
		if c.verbose {
			fmt.Fprintf(w, "\n--- Summary ---\n%s\n", out.Summary)
		}
	default:
		fmt.Fprintf(w, "%v\n", out)
	}
}

func writeList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

// toGeneric re-decodes v through its JSON form so the YAML output carries the
// same field names as the JSON output
func toGeneric(v any) (any, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return plainNumbers(generic), nil
}

func plainNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = plainNumbers(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = plainNumbers(val)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}
