package core

import (
	"encoding/json"
	"time"
)

// Format is the detected shape of an input
type Format string

const (
	FormatStructured Format = "Structured"
	FormatEmail      Format = "Email"
	FormatText       Format = "Text"
)

// Route identifies the agent that handles a classified input
type Route string

const (
	RouteJSONAgent  Route = "json_agent"
	RouteEmailAgent Route = "email_agent"
	RouteTextAgent  Route = "text_agent"
)

// Result status markers shared by every agent output
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// InputKind tells whether a RawInput carries decoded data or text
type InputKind int

const (
	InputText InputKind = iota
	InputStructured
)

// RawInput is a single inbound document, consumed once per pipeline run
type RawInput struct {
	Kind InputKind
	// Data holds the decoded value when Kind is InputStructured
	Data any
	// Text holds the raw text when Kind is InputText
	Text string
	// Source is the path or intake the input came from, for logging only
	Source string
}

// NewStructuredInput wraps an already decoded value
func NewStructuredInput(data any) RawInput {
	return RawInput{Kind: InputStructured, Data: data}
}

// NewTextInput wraps free text or raw email text
func NewTextInput(text string) RawInput {
	return RawInput{Kind: InputText, Text: text}
}

// IsMapping reports whether the input is a decoded key/value object
func (in RawInput) IsMapping() bool {
	if in.Kind != InputStructured {
		return false
	}
	_, ok := in.Data.(map[string]any)
	return ok
}

// String renders the input as text, encoding structured data as JSON
func (in RawInput) String() string {
	if in.Kind == InputText {
		return in.Text
	}
	b, err := json.Marshal(in.Data)
	if err != nil {
		return ""
	}
	return string(b)
}

// ClassificationResult is the classifier's routing decision for one input
type ClassificationResult struct {
	Format     Format         `json:"format"`
	RouteTo    Route          `json:"route_to"`
	Confidence float64        `json:"confidence"`
	Metadata   map[string]any `json:"metadata"`
}

// EmailMetadata holds the fields extracted from an email
type EmailMetadata struct {
	SenderEmail    string    `json:"sender_email"`
	SenderName     string    `json:"sender_name"`
	Subject        string    `json:"subject"`
	Recipients     []string  `json:"recipients"`
	HasAttachments bool      `json:"has_attachments"`
	KnownSender    bool      `json:"known_sender"`
	Intent         string    `json:"intent"`
	Urgency        string    `json:"urgency"`
	ReceivedAt     time.Time `json:"received_at"`
}

// EmailContent is the human-facing part of an email result
type EmailContent struct {
	Body             string   `json:"body"`
	Response         string   `json:"response"`
	SuggestedActions []string `json:"suggested_actions"`
}

// EmailResult is the output of the email agent
type EmailResult struct {
	Status   string        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Metadata EmailMetadata `json:"metadata"`
	Content  EmailContent  `json:"content"`
}

// JSONReformatted is the canonical record produced from a structured payload
type JSONReformatted struct {
	Customer    string `json:"customer"`
	RequestType string `json:"request_type"`
	Details     any    `json:"details"`
}

// IsZero reports whether nothing could be reformatted
func (r JSONReformatted) IsZero() bool {
	return r.Customer == "" && r.RequestType == "" && r.Details == nil
}

// MarshalJSON encodes an empty record as {}
func (r JSONReformatted) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("{}"), nil
	}
	type alias JSONReformatted
	return json.Marshal(alias(r))
}

// DataTypes is a census of value type names found in a structure
type DataTypes struct {
	Primitives []string `json:"primitives"`
	Complex    []string `json:"complex"`
}

// StructureInfo describes the shape of a structured payload
type StructureInfo struct {
	Keys      []string  `json:"keys"`
	Depth     int       `json:"depth"`
	Size      int       `json:"size"`
	HasNested bool      `json:"has_nested"`
	DataTypes DataTypes `json:"data_types"`
}

// JSONResult is the output of the JSON agent
type JSONResult struct {
	Status          string          `json:"status"`
	Error           string          `json:"error,omitempty"`
	Reformatted     JSONReformatted `json:"reformatted"`
	Anomalies       []string        `json:"anomalies"`
	Structure       *StructureInfo  `json:"structure,omitempty"`
	Recommendations []string        `json:"recommendations,omitempty"`
	Analysis        string          `json:"analysis,omitempty"`
}

// TextResult is the output of the text agent
type TextResult struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Summary   string `json:"summary"`
	WordCount int    `json:"word_count"`
	LineCount int    `json:"line_count"`
	Intent    string `json:"intent"`
	Urgency   string `json:"urgency"`
}

// PipelineResult is what a pipeline run returns to its caller
type PipelineResult struct {
	ID             string               `json:"id"`
	Source         string               `json:"source,omitempty"`
	Classification ClassificationResult `json:"classification"`
	Output         any                  `json:"output"`
	ProcessedAt    time.Time            `json:"processed_at"`
}

// ParsedEmail is the best-effort structural parse of a raw message
type ParsedEmail struct {
	From        string
	To          []string
	Subject     string
	Date        time.Time
	Body        string
	Attachments []string
}
