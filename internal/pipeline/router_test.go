package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mikey/llm-doc-triage/internal/adapters/mailparse"
	"github.com/mikey/llm-doc-triage/internal/adapters/sink"
	"github.com/mikey/llm-doc-triage/internal/agents/emailagent"
	"github.com/mikey/llm-doc-triage/internal/agents/jsonagent"
	"github.com/mikey/llm-doc-triage/internal/agents/textagent"
	"github.com/mikey/llm-doc-triage/internal/classifier"
	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/mikey/llm-doc-triage/internal/domains"
	"github.com/mikey/llm-doc-triage/internal/heuristics"
	"github.com/mikey/llm-doc-triage/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

const demoEmail = "From: Jane Doe <jane@acme.com>\nSubject: Demo request\n\nHi, can we get a demo?"

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(context.Context, string) (string, error) { return f.text, f.err }

type failingSink struct{}

func (failingSink) Put(context.Context, string, string) error { return errors.New("disk full") }
func (failingSink) Get(context.Context, string) (string, error) {
	return "", core.ErrNotFound
}
func (failingSink) Close() error { return nil }

func newRouter(t *testing.T, s core.Sink, textRoute core.Route, extractor core.TextExtractor) *Router {
	logger := zaptest.NewLogger(t)
	tp := utils.NewTextProcessor(logger)
	router := NewRouter(
		NewLoader(extractor, mailparse.NewParser(logger), logger),
		classifier.NewClassifier(nil, textRoute, time.Second, logger),
		jsonagent.NewAgent(nil, nil, tp, 4096, time.Second, logger),
		emailagent.NewAgent(nil, domains.NewChecker([]string{"acme.com"}, logger), "", tp, 4096, time.Second, logger),
		textagent.NewAgent(logger),
		s,
		logger,
	)
	router.newID = func() string { return "run-1" }
	return router
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestProcessStructuredScenarios(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		anomalies []string
	}{
		{
			name:      "promoted fields",
			input:     `{"user": "acme", "type": "rfq", "qty": 5}`,
			want:      `{"customer": "acme", "request_type": "rfq", "details": {"qty": 5}}`,
			anomalies: []string{},
		},
		{
			name:      "empty object",
			input:     `{}`,
			want:      `{"customer": "Unknown", "request_type": "general", "details": {}}`,
			anomalies: []string{jsonagent.AnomalyMissingCustomer},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, nil, core.RouteTextAgent, nil)
			value, err := jsonagent.Decode([]byte(tt.input))
			require.NoError(t, err)

			result := router.Process(context.Background(), core.NewStructuredInput(value))
			assert.Equal(t, "run-1", result.ID)
			assert.Equal(t, core.FormatStructured, result.Classification.Format)
			assert.Equal(t, core.RouteJSONAgent, result.Classification.RouteTo)

			output, ok := result.Output.(core.JSONResult)
			require.True(t, ok)
			reformatted, err := json.Marshal(output.Reformatted)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(reformatted))
			assert.ElementsMatch(t, tt.anomalies, output.Anomalies)
		})
	}
}

func TestProcessEmailScenario(t *testing.T) {
	router := newRouter(t, nil, core.RouteTextAgent, nil)
	result := router.Process(context.Background(), core.NewTextInput(demoEmail))

	assert.Equal(t, core.FormatEmail, result.Classification.Format)
	assert.Equal(t, core.RouteEmailAgent, result.Classification.RouteTo)

	output, ok := result.Output.(core.EmailResult)
	require.True(t, ok)
	assert.Equal(t, "jane@acme.com", output.Metadata.SenderEmail)
	assert.Equal(t, heuristics.IntentDemoRequest, output.Metadata.Intent)
	assert.True(t, output.Metadata.KnownSender)
	assert.Contains(t, output.Content.Response, "Jane")
}

func TestProcessPlainText(t *testing.T) {
	router := newRouter(t, nil, core.RouteTextAgent, nil)
	result := router.Process(context.Background(), core.NewTextInput("{invalid"))

	assert.Equal(t, core.FormatText, result.Classification.Format)
	assert.Equal(t, core.RouteTextAgent, result.Classification.RouteTo)
	_, ok := result.Output.(core.TextResult)
	assert.True(t, ok)
}

func TestProcessMalformedJSONOnJSONRoute(t *testing.T) {
	router := newRouter(t, nil, core.RouteJSONAgent, nil)
	result := router.Process(context.Background(), core.NewTextInput("{invalid"))

	assert.Equal(t, core.FormatText, result.Classification.Format)
	assert.Equal(t, core.RouteJSONAgent, result.Classification.RouteTo)

	output, ok := result.Output.(core.JSONResult)
	require.True(t, ok)
	assert.Equal(t, []string{jsonagent.AnomalyInvalidJSON}, output.Anomalies)

	encoded, err := json.Marshal(output.Reformatted)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(encoded))
}

func TestProcessPersists(t *testing.T) {
	s := sink.NewMemorySink(zaptest.NewLogger(t))
	router := newRouter(t, s, core.RouteTextAgent, nil)
	result := router.Process(context.Background(), core.NewTextInput(demoEmail))

	stored, err := s.Get(context.Background(), KeyLastClassification)
	require.NoError(t, err)
	var classification core.ClassificationResult
	require.NoError(t, json.Unmarshal([]byte(stored), &classification))
	assert.Equal(t, result.Classification.RouteTo, classification.RouteTo)

	stored, err = s.Get(context.Background(), KeyLastOutput)
	require.NoError(t, err)
	var output core.EmailResult
	require.NoError(t, json.Unmarshal([]byte(stored), &output))
	assert.Equal(t, "jane@acme.com", output.Metadata.SenderEmail)
}

func TestProcessSinkFailureDoesNotChangeResult(t *testing.T) {
	failing := newRouter(t, failingSink{}, core.RouteTextAgent, nil)
	plain := newRouter(t, nil, core.RouteTextAgent, nil)

	got := failing.Process(context.Background(), core.NewTextInput("hello there"))
	want := plain.Process(context.Background(), core.NewTextInput("hello there"))

	assert.Equal(t, want.Classification, got.Classification)
	assert.Equal(t, want.Output, got.Output)
}

func TestRunPath(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		router := newRouter(t, nil, core.RouteTextAgent, nil)
		result, err := router.RunPath(context.Background(), writeFile(t, "order.json", `{"customer": "acme", "qty": 12345678901234567890}`))
		require.NoError(t, err)

		output := result.Output.(core.JSONResult)
		assert.Equal(t, "acme", output.Reformatted.Customer)
		assert.Equal(t, json.Number("12345678901234567890"), output.Reformatted.Details.(map[string]any)["qty"])
	})

	t.Run("malformed json", func(t *testing.T) {
		router := newRouter(t, nil, core.RouteJSONAgent, nil)
		result, err := router.RunPath(context.Background(), writeFile(t, "broken.json", "{invalid"))
		require.NoError(t, err)
		assert.Equal(t, []string{jsonagent.AnomalyInvalidJSON}, result.Output.(core.JSONResult).Anomalies)
	})

	t.Run("txt", func(t *testing.T) {
		router := newRouter(t, nil, core.RouteTextAgent, nil)
		path := writeFile(t, "note.TXT", demoEmail)
		result, err := router.RunPath(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, path, result.Source)
		assert.Equal(t, core.RouteEmailAgent, result.Classification.RouteTo)
	})

	t.Run("eml", func(t *testing.T) {
		router := newRouter(t, nil, core.RouteTextAgent, nil)
		raw := "From: Jane Doe <jane@acme.com>\r\n" +
			"To: sales@example.com\r\n" +
			"Subject: Pricing question\r\n" +
			"Content-Type: text/plain; charset=utf-8\r\n" +
			"\r\n" +
			"How much would 40 seats cost?\r\n"
		result, err := router.RunPath(context.Background(), writeFile(t, "msg.eml", raw))
		require.NoError(t, err)

		output := result.Output.(core.EmailResult)
		assert.Equal(t, "jane@acme.com", output.Metadata.SenderEmail)
		assert.Equal(t, "Pricing question", output.Metadata.Subject)
		assert.Equal(t, []string{"sales@example.com"}, output.Metadata.Recipients)
		assert.Equal(t, heuristics.IntentPricingInquiry, output.Metadata.Intent)
	})

	t.Run("eml with attachment", func(t *testing.T) {
		router := newRouter(t, nil, core.RouteTextAgent, nil)
		raw := "From: Jane Doe <jane@acme.com>\r\n" +
			"To: sales@example.com\r\n" +
			"Subject: Meeting next week\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: multipart/mixed; boundary=\"b1\"\r\n" +
			"\r\n" +
			"--b1\r\n" +
			"Content-Type: text/plain; charset=utf-8\r\n" +
			"\r\n" +
			"Can we schedule a meeting on Tuesday?\r\n" +
			"--b1\r\n" +
			"Content-Type: application/pdf\r\n" +
			"Content-Disposition: attachment; filename=\"invoice.pdf\"\r\n" +
			"Content-Transfer-Encoding: base64\r\n" +
			"\r\n" +
			"JVBERi0xLjQK\r\n" +
			"--b1--\r\n"
		result, err := router.RunPath(context.Background(), writeFile(t, "meeting.eml", raw))
		require.NoError(t, err)

		output := result.Output.(core.EmailResult)
		assert.Equal(t, heuristics.IntentMeetingRequest, output.Metadata.Intent)
		assert.Equal(t, "Can we schedule a meeting on Tuesday?", output.Content.Body)
		assert.True(t, output.Metadata.HasAttachments)
	})

	t.Run("pdf", func(t *testing.T) {
		router := newRouter(t, nil, core.RouteTextAgent, &fakeExtractor{text: "Quarterly report\nAll figures attached."})
		result, err := router.RunPath(context.Background(), filepath.Join(t.TempDir(), "report.pdf"))
		require.NoError(t, err)

		output := result.Output.(core.TextResult)
		assert.Equal(t, 2, output.LineCount)
		assert.Equal(t, true, result.Classification.Metadata[classifier.MetaHasAttachments])
	})
}

func TestRunPathUnsupported(t *testing.T) {
	tests := []struct {
		name      string
		path      func(t *testing.T) string
		extractor core.TextExtractor
	}{
		{name: "unknown extension", path: func(t *testing.T) string { return writeFile(t, "sheet.xlsx", "x") }},
		{name: "missing file", path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "gone.txt") }},
		{name: "pdf without extractor", path: func(t *testing.T) string { return "doc.pdf" }},
		{
			name:      "pdf extraction failure",
			path:      func(t *testing.T) string { return "doc.pdf" },
			extractor: &fakeExtractor{err: errors.New("no text layer")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, nil, core.RouteTextAgent, tt.extractor)
			_, err := router.RunPath(context.Background(), tt.path(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrUnsupportedInput)
		})
	}
}

func TestProcessConcurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := sink.NewMemorySink(zaptest.NewLogger(t))
	router := newRouter(t, s, core.RouteTextAgent, nil)
	router.newID = func() string { return "concurrent" }

	inputs := []core.RawInput{
		core.NewTextInput(demoEmail),
		core.NewTextInput("plain words"),
		core.NewStructuredInput(map[string]any{"customer": "acme"}),
	}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(in core.RawInput) {
			defer wg.Done()
			result := router.Process(context.Background(), in)
			assert.NotNil(t, result.Output)
		}(inputs[i%len(inputs)])
	}
	wg.Wait()

	stored, err := s.Get(context.Background(), KeyLastOutput)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stored)))
}
