package sink

import (
	"context"
	"sync"

	"github.com/mikey/llm-doc-triage/internal/core"
	"go.uber.org/zap"
)

// MemorySink is an in-memory implementation of the Sink interface
type MemorySink struct {
	entries map[string]string
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMemorySink creates a new in-memory sink
func NewMemorySink(logger *zap.Logger) *MemorySink {
	return &MemorySink{
		entries: make(map[string]string),
		logger:  logger,
	}
}

// Put stores value under key, replacing any previous value
func (s *MemorySink) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value
	s.logger.Debug("Stored sink entry", zap.String("key", key), zap.Int("size", len(value)))
	return nil
}

// Get returns the value stored under key
func (s *MemorySink) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return "", core.ErrNotFound
	}
	return value, nil
}

// Close drops every entry
func (s *MemorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]string)
	return nil
}
