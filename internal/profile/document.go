// Package profile decodes and validates profiling-run documents produced by
// the khronos profiler library.
//
// A document is accepted whole or rejected whole: Parse never normalises,
// coerces or defaults a value. Validation runs in two ordered phases,
// ValidateStructure then ValidateValues, and the first violation wins.
package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"unicode/utf8"
)

// Document keys.
const (
	KeyMetadata    = "metadata"
	KeyFunctions   = "functions"
	KeyProgramName = "program_name"
	KeyTotalTime   = "total_time"
	KeyTimestamp   = "timestamp"
	KeyName        = "name"
	KeyExecTime    = "exec_time"
	KeyCallCount   = "call_count"
	KeyAvgTime     = "avg_time"
)

// Metadata describes the profiled program run.
type Metadata struct {
	ProgramName string  `json:"program_name"`
	TotalTime   float64 `json:"total_time"`
	Timestamp   string  `json:"timestamp"`
}

// FunctionRecord holds the statistics of one profiled function.
// AvgTime is taken as supplied and is not checked against ExecTime/CallCount.
type FunctionRecord struct {
	Name      string  `json:"name"`
	ExecTime  float64 `json:"exec_time"`
	CallCount int64   `json:"call_count"`
	AvgTime   float64 `json:"avg_time"`
}

// Document is a validated upload.
type Document struct {
	Metadata  Metadata         `json:"metadata"`
	Functions []FunctionRecord `json:"functions"`
}

// Decode parses raw JSON into a generic tree. Numbers are kept as
// json.Number so integer literals stay distinguishable from fractions.
func Decode(raw []byte) (map[string]any, error) {
	// encoding/json would silently swap invalid bytes for U+FFFD
	if !utf8.Valid(raw) {
		return nil, structural("document is not valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, structural("malformed document")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, structural("unexpected data after document")
	}

	doc, ok := v.(map[string]any)
	if !ok {
		return nil, structural("top level must be an object")
	}
	return doc, nil
}

// Parse decodes and validates raw, returning the typed document.
// Errors are *StructuralError or *ValueError.
func Parse(raw []byte) (*Document, error) {
	doc, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if err := ValidateStructure(doc); err != nil {
		return nil, err
	}
	if err := ValidateValues(doc); err != nil {
		return nil, err
	}
	return Build(doc), nil
}

// Build converts a tree that already passed ValidateStructure and
// ValidateValues into a Document. It panics on any other tree.
func Build(doc map[string]any) *Document {
	meta := doc[KeyMetadata].(map[string]any)
	items := doc[KeyFunctions].([]any)

	out := &Document{
		Metadata: Metadata{
			ProgramName: meta[KeyProgramName].(string),
			TotalTime:   mustFloat(meta[KeyTotalTime]),
			Timestamp:   meta[KeyTimestamp].(string),
		},
		Functions: make([]FunctionRecord, 0, len(items)),
	}

	for _, item := range items {
		fn := item.(map[string]any)
		calls, _ := fn[KeyCallCount].(json.Number).Int64()
		out.Functions = append(out.Functions, FunctionRecord{
			Name:      fn[KeyName].(string),
			ExecTime:  mustFloat(fn[KeyExecTime]),
			CallCount: calls,
			AvgTime:   mustFloat(fn[KeyAvgTime]),
		})
	}
	return out
}

func mustFloat(v any) float64 {
	f, _ := v.(json.Number).Float64()
	return f
}
