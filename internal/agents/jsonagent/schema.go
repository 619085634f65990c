package jsonagent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// LoadSchema compiles the JSON Schema at path
func LoadSchema(path string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", path, err)
	}
	return schema, nil
}

// CompileSchema compiles a schema held in memory
func CompileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// schemaAnomalies validates v and returns one anomaly per violated leaf rule
func schemaAnomalies(schema *jsonschema.Schema, v any) ([]string, error) {
	// Structured inputs may carry Go values the validator does not know
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal data: %w", err)
	}
	doc, err := Decode(b)
	if err != nil {
		return nil, err
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, fmt.Errorf("validate data: %w", err)
	}

	var anomalies []string
	collectLeaves(verr, &anomalies)
	sort.Strings(anomalies)
	return anomalies, nil
}

func collectLeaves(verr *jsonschema.ValidationError, out *[]string) {
	if len(verr.Causes) == 0 {
		path := verr.InstanceLocation
		if path == "" {
			path = "/"
		}
		*out = append(*out, fmt.Sprintf("Schema violation at %s: %s", path, verr.Message))
		return
	}
	for _, cause := range verr.Causes {
		collectLeaves(cause, out)
	}
}
