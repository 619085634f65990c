package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"
)

func jsonPipeline() *fakePipeline {
	return &fakePipeline{result: core.PipelineResult{
		ID:     "run-2",
		Source: "order.json",
		Classification: core.ClassificationResult{
			Format:     core.FormatStructured,
			RouteTo:    core.RouteJSONAgent,
			Confidence: 0.95,
			Metadata:   map[string]any{"source": "heuristic"},
		},
		Output: core.JSONResult{
			Status: core.StatusSuccess,
			Reformatted: core.JSONReformatted{
				Customer:    "acme",
				RequestType: "rfq",
				Details:     map[string]any{"qty": json.Number("5")},
			},
			Anomalies: []string{},
		},
	}}
}

func newCLI(t *testing.T, pipeline *fakePipeline, format string) (*CLIIntake, *bytes.Buffer) {
	var out bytes.Buffer
	cli, err := NewCLIIntake(pipeline, &out, format, true, zaptest.NewLogger(t))
	require.NoError(t, err)
	return cli, &out
}

func TestNewCLIIntakeRejectsUnknownFormat(t *testing.T) {
	_, err := NewCLIIntake(jsonPipeline(), &bytes.Buffer{}, "xml", false, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestRenderText(t *testing.T) {
	cli, out := newCLI(t, jsonPipeline(), "")
	_, err := cli.RunPath(context.Background(), "order.json")
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Format: Structured")
	assert.Contains(t, text, "Route: json_agent")
	assert.Contains(t, text, "Confidence: 0.95")
	assert.Contains(t, text, "  source: heuristic")
	assert.Contains(t, text, "Customer: acme")
	assert.Contains(t, text, "Request type: rfq")
}

func TestRenderTextEmail(t *testing.T) {
	cli, out := newCLI(t, emailPipeline(), OutputText)
	_, err := cli.RunReader(context.Background(), strings.NewReader(rawMessage), "stdin")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Intent: Demo Request")
	assert.Contains(t, out.String(), "--- Response ---")
}

func TestRenderJSON(t *testing.T) {
	cli, out := newCLI(t, jsonPipeline(), OutputJSON)
	_, err := cli.RunPath(context.Background(), "order.json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "run-2", decoded["id"])
	output := decoded["output"].(map[string]any)
	assert.Equal(t, "acme", output["reformatted"].(map[string]any)["customer"])
}

func TestRenderYAML(t *testing.T) {
	cli, out := newCLI(t, jsonPipeline(), OutputYAML)
	_, err := cli.RunPath(context.Background(), "order.json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	classification := decoded["classification"].(map[string]any)
	assert.Equal(t, "json_agent", classification["route_to"])

	details := decoded["output"].(map[string]any)["reformatted"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, 5, details["qty"])
}

func TestRunReaderDecodesJSON(t *testing.T) {
	pipeline := jsonPipeline()
	cli, _ := newCLI(t, pipeline, OutputJSON)

	_, err := cli.RunReader(context.Background(), strings.NewReader(" {\"customer\": \"acme\"}\n"), "stdin")
	require.NoError(t, err)

	require.Len(t, pipeline.received(), 1)
	in := pipeline.received()[0]
	assert.Equal(t, core.InputStructured, in.Kind)
	assert.Equal(t, "stdin", in.Source)
	assert.True(t, in.IsMapping())
}

func TestRunReaderText(t *testing.T) {
	pipeline := jsonPipeline()
	cli, _ := newCLI(t, pipeline, OutputJSON)

	_, err := cli.RunReader(context.Background(), strings.NewReader("{invalid"), "stdin")
	require.NoError(t, err)

	in := pipeline.received()[0]
	assert.Equal(t, core.InputText, in.Kind)
	assert.Equal(t, "{invalid", in.Text)
}
