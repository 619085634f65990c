package textagent

import (
	"context"
	"fmt"
	"strings"

	"github.com/mikey/llm-doc-triage/internal/core"
	"github.com/mikey/llm-doc-triage/internal/heuristics"
	"github.com/mikey/llm-doc-triage/internal/utils"
	"go.uber.org/zap"
)

// SummaryLimit is the maximum number of characters kept in a summary
const SummaryLimit = 500

// Agent summarises free text that is neither structured nor an email
type Agent struct {
	logger *zap.Logger
}

// NewAgent creates a text agent
func NewAgent(logger *zap.Logger) *Agent {
	return &Agent{logger: logger}
}

// Process summarises text and tags it with intent and urgency
func (a *Agent) Process(_ context.Context, text string) (result core.TextResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Text agent failed", zap.Any("panic", r))
			result = core.TextResult{
				Status:  core.StatusError,
				Error:   fmt.Sprint(r),
				Intent:  heuristics.IntentError,
				Urgency: heuristics.UrgencyHigh,
			}
		}
	}()

	result = core.TextResult{
		Status:    core.StatusSuccess,
		Summary:   utils.TruncateRunes(strings.TrimSpace(text), SummaryLimit),
		WordCount: len(strings.Fields(text)),
		LineCount: CountLines(text),
		Intent:    heuristics.ClassifyIntent(text),
		Urgency:   heuristics.ClassifyUrgency(text),
	}

	a.logger.Debug("Processed text",
		zap.Int("words", result.WordCount),
		zap.Int("lines", result.LineCount),
		zap.String("intent", result.Intent))

	return result
}

// CountLines counts newline-separated lines, ignoring one trailing newline
func CountLines(text string) int {
	if text == "" {
		return 0
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Count(strings.TrimSuffix(text, "\n"), "\n") + 1
}
