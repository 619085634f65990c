package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Runner runs an external command; tests substitute a fake
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	logger *zap.Logger
}

// NewExecRunner creates a Runner backed by os/exec
func NewExecRunner(logger *zap.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

// Run executes name with args and captures both output streams
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	if err != nil {
		r.logger.Error("Command failed",
			zap.String("cmd", name),
			zap.Strings("args", args),
			zap.Duration("duration", time.Since(start)),
			zap.String("stderr", truncate(errb.String(), 8<<10)),
			zap.Error(err))
	} else {
		r.logger.Debug("Command finished",
			zap.String("cmd", name),
			zap.Duration("duration", time.Since(start)),
			zap.Int("stdout_bytes", out.Len()))
	}

	return out.Bytes(), errb.Bytes(), err
}

// Extractor turns PDF files into plain text with pdftotext
type Extractor struct {
	runner    Runner
	pdftotext string
	logger    *zap.Logger
}

// NewExtractor creates an Extractor calling the given pdftotext binary
func NewExtractor(runner Runner, pdftotext string, logger *zap.Logger) *Extractor {
	if pdftotext == "" {
		pdftotext = "pdftotext"
	}
	return &Extractor{
		runner:    runner,
		pdftotext: pdftotext,
		logger:    logger,
	}
}

// ExtractText returns the text layer of the PDF at path
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w: %s", path, err, strings.TrimSpace(string(errb)))
	}

	// pages are separated by form feeds
	text := strings.ReplaceAll(string(out), "\f", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no text layer in %s", path)
	}

	e.logger.Debug("Extracted PDF text",
		zap.String("path", path),
		zap.Int("pages", 1+strings.Count(string(out), "\f")),
		zap.Int("size", len(text)))

	return text, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
