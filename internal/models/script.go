package models

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// ScriptVariable is the global the dashboard reads on page load.
const ScriptVariable = "window.BENCHMARK_DATA"

const scriptPrefix = ScriptVariable + " = "

var ErrMissingAssignment = errors.New("missing " + ScriptVariable + " assignment")

// Serialize renders the whole suite as a script assigning it to ScriptVariable.
func Serialize(suite *BenchmarkSuite) ([]byte, error) {
	body, err := json.MarshalIndent(suite, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal benchmark data: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(scriptPrefix) + len(body) + 2)
	buf.WriteString(scriptPrefix)
	buf.Write(body)
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}

// Deserialize parses a script produced by Serialize (or by older writers that
// omit the trailing semicolon). Both the combined-unit and the per-metric
// BenchResult shapes are accepted.
func Deserialize(data []byte) (*BenchmarkSuite, error) {
	text := bytes.TrimSpace(data)
	text = bytes.TrimPrefix(text, []byte("\xef\xbb\xbf"))

	rest, ok := bytes.CutPrefix(text, []byte(ScriptVariable))
	if !ok {
		return nil, ErrMissingAssignment
	}
	rest = bytes.TrimSpace(rest)
	rest, ok = bytes.CutPrefix(rest, []byte("="))
	if !ok {
		return nil, ErrMissingAssignment
	}
	rest = bytes.TrimSpace(rest)
	rest = bytes.TrimSuffix(rest, []byte(";"))

	return DecodeJSON(rest)
}

// DecodeJSON parses the bare JSON object without the script assignment.
func DecodeJSON(data []byte) (*BenchmarkSuite, error) {
	var suite BenchmarkSuite
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parse benchmark data: %w", err)
	}
	if suite.Entries == nil {
		return nil, fmt.Errorf("parse benchmark data: %w: no entries object", ErrInvalidEntry)
	}
	if err := suite.Validate(); err != nil {
		return nil, err
	}
	return &suite, nil
}
