package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/llm-doc-triage/internal/adapters/sink"
	"github.com/mikey/llm-doc-triage/internal/config"
	"github.com/mikey/llm-doc-triage/internal/core"
	"go.uber.org/zap"
)

// SinkFactory creates audit sinks based on configuration
type SinkFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSinkFactory creates a new sink factory
func NewSinkFactory(cfg *config.Config, logger *zap.Logger) *SinkFactory {
	return &SinkFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSink creates a sink based on the configuration
func (f *SinkFactory) CreateSink() (core.Sink, error) {
	sinkConfig := f.cfg.GetSink()

	switch sinkConfig.Type {
	case "memory", "":
		return sink.NewMemorySink(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(sinkConfig.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return sink.NewSQLiteSink(sinkConfig.SQLitePath, f.logger)
	case "mysql":
		return sink.NewMySQLSink(sinkConfig.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported sink type: %s", sinkConfig.Type)
	}
}

// IsPersistEnabled returns whether pipeline results are written to the sink
func (f *SinkFactory) IsPersistEnabled() bool {
	return f.cfg.GetPipeline().Persist
}
