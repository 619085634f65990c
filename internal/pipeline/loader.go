package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mikey/llm-doc-triage/internal/adapters/mailparse"
	"github.com/mikey/llm-doc-triage/internal/agents/jsonagent"
	"github.com/mikey/llm-doc-triage/internal/core"
	"go.uber.org/zap"
)

// Loader turns a file on disk into a RawInput
type Loader struct {
	extractor core.TextExtractor
	parser    core.EmailParser
	logger    *zap.Logger
}

// NewLoader creates a new Loader
func NewLoader(extractor core.TextExtractor, parser core.EmailParser, logger *zap.Logger) *Loader {
	return &Loader{
		extractor: extractor,
		parser:    parser,
		logger:    logger,
	}
}

// SupportedExtensions lists the file types Load accepts
func SupportedExtensions() []string {
	return []string{".pdf", ".json", ".txt", ".eml"}
}

// Load reads path according to its extension. Unknown extensions and
// unreadable files fail with core.ErrUnsupportedInput.
func (l *Loader) Load(ctx context.Context, path string) (core.RawInput, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var in core.RawInput
	switch ext {
	case ".pdf":
		if l.extractor == nil {
			return core.RawInput{}, fmt.Errorf("%w: no PDF extractor configured for %s", core.ErrUnsupportedInput, path)
		}
		text, err := l.extractor.ExtractText(ctx, path)
		if err != nil {
			return core.RawInput{}, fmt.Errorf("%w: failed to extract text from %s: %w", core.ErrUnsupportedInput, path, err)
		}
		in = core.NewTextInput(text)

	case ".json":
		data, err := readFile(path)
		if err != nil {
			return core.RawInput{}, err
		}
		value, err := jsonagent.Decode(data)
		if err != nil {
			// Let the classifier and agents see the malformed document
			l.logger.Warn("File is not valid JSON, loading it as text",
				zap.String("path", path),
				zap.Error(err))
			in = core.NewTextInput(string(data))
		} else {
			in = core.NewStructuredInput(value)
		}

	case ".txt":
		data, err := readFile(path)
		if err != nil {
			return core.RawInput{}, err
		}
		in = core.NewTextInput(string(data))

	case ".eml":
		data, err := readFile(path)
		if err != nil {
			return core.RawInput{}, err
		}
		in = core.NewTextInput(mailparse.Render(l.parser.Parse(data)))

	default:
		return core.RawInput{}, fmt.Errorf("%w: unsupported file type %q (expected one of %s)",
			core.ErrUnsupportedInput, ext, strings.Join(SupportedExtensions(), ", "))
	}

	in.Source = path
	l.logger.Debug("Loaded input",
		zap.String("path", path),
		zap.String("extension", ext),
		zap.Bool("structured", in.Kind == core.InputStructured))
	return in, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", core.ErrUnsupportedInput, path, err)
	}
	return data, nil
}
