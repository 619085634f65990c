package core

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by a Sink when a key has no value
	ErrNotFound = errors.New("entry not found")
	// ErrUnsupportedInput is returned when an input cannot be loaded
	ErrUnsupportedInput = errors.New("unsupported input")
	// ErrEmptyResponse is returned when an inference backend answers with nothing
	ErrEmptyResponse = errors.New("empty response from inference backend")
)

// LLMClient defines the interface for text-completion backends
type LLMClient interface {
	// CompleteText returns the backend's completion for a prompt
	CompleteText(ctx context.Context, prompt string) (string, error)

	// Name identifies the backend and model, e.g. "openai:gpt-4"
	Name() string
}

// TextClassifier defines the interface for label-producing backends
type TextClassifier interface {
	// ClassifyText returns a format label for the text and its confidence
	ClassifyText(ctx context.Context, text string) (label string, confidence float64, err error)

	// Name identifies the backend
	Name() string
}

// Sink defines the key/value store the pipeline writes its audit entries to
type Sink interface {
	// Put stores value under key, replacing any previous value
	Put(ctx context.Context, key, value string) error

	// Get returns the value stored under key or ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Close releases the underlying storage
	Close() error
}

// TextExtractor turns a document on disk into plain text
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// EmailParser performs a best-effort structural parse of a raw message
type EmailParser interface {
	Parse(raw []byte) ParsedEmail
}
