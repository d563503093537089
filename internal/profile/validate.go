package profile

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

var (
	metadataKeys = []string{KeyProgramName, KeyTotalTime, KeyTimestamp}
	functionKeys = []string{KeyName, KeyExecTime, KeyCallCount, KeyAvgTime}
)

// ValidateStructure checks that every required key is present and that
// containers have the expected shape.
func ValidateStructure(doc map[string]any) error {
	if doc == nil {
		return structural("top level must be an object")
	}
	for _, key := range []string{KeyMetadata, KeyFunctions} {
		if _, ok := doc[key]; !ok {
			return structural("missing %q", key)
		}
	}

	meta, ok := doc[KeyMetadata].(map[string]any)
	if !ok {
		return structural("%q must be an object", KeyMetadata)
	}
	if key, ok := missingKey(meta, metadataKeys); !ok {
		return structural("missing %q in %q", key, KeyMetadata)
	}

	items, ok := doc[KeyFunctions].([]any)
	if !ok {
		return structural("%q must be a list", KeyFunctions)
	}
	for i, item := range items {
		fn, ok := item.(map[string]any)
		if !ok {
			return structural("functions[%d] must be an object", i)
		}
		if key, ok := missingKey(fn, functionKeys); !ok {
			return structural("missing %q in functions[%d]", key, i)
		}
	}
	return nil
}

// ValidateValues checks types and ranges. It assumes ValidateStructure
// already passed and panics on a structurally invalid tree.
func ValidateValues(doc map[string]any) error {
	meta := doc[KeyMetadata].(map[string]any)

	if err := nonEmptyString(meta[KeyProgramName], "metadata.program_name"); err != nil {
		return err
	}
	if err := nonNegative(meta[KeyTotalTime], "metadata.total_time"); err != nil {
		return err
	}
	if _, ok := meta[KeyTimestamp].(string); !ok {
		return invalid("metadata.timestamp", "must be a string")
	}

	for i, item := range doc[KeyFunctions].([]any) {
		fn := item.(map[string]any)
		path := fmt.Sprintf("functions[%d].", i)

		if err := nonEmptyString(fn[KeyName], path+KeyName); err != nil {
			return err
		}
		if err := nonNegative(fn[KeyExecTime], path+KeyExecTime); err != nil {
			return err
		}
		if err := positiveInteger(fn[KeyCallCount], path+KeyCallCount); err != nil {
			return err
		}
		if err := nonNegative(fn[KeyAvgTime], path+KeyAvgTime); err != nil {
			return err
		}
	}
	return nil
}

func missingKey(m map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return k, false
		}
	}
	return "", true
}

func nonEmptyString(v any, path string) error {
	s, ok := v.(string)
	if !ok {
		return invalid(path, "must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return invalid(path, "must not be empty")
	}
	return nil
}

func nonNegative(v any, path string) error {
	n, ok := v.(json.Number)
	if !ok {
		return invalid(path, "must be a number")
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return invalid(path, "must be a finite number")
	}
	if f < 0 {
		return invalid(path, "must be >= 0")
	}
	return nil
}

// positiveInteger accepts integer literals only: 10 passes, 10.0 and 1e1 do not.
func positiveInteger(v any, path string) error {
	n, ok := v.(json.Number)
	if !ok {
		return invalid(path, "must be an integer")
	}
	if strings.ContainsAny(n.String(), ".eE") {
		return invalid(path, "must be an integer")
	}
	i, err := n.Int64()
	if err != nil {
		return invalid(path, "is out of range")
	}
	if i < 1 {
		return invalid(path, "must be >= 1")
	}
	return nil
}
