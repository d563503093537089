package profile

import "fmt"

// StructuralError reports a missing required key or a container of the
// wrong shape. Value checks never run once one is returned.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return "invalid JSON structure: " + e.Reason
}

// ValueError reports a present key whose value has the wrong type or is out
// of range. Path locates the value, e.g. "functions[2].call_count".
type ValueError struct {
	Path   string
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid JSON value: %s %s", e.Path, e.Reason)
}

func structural(format string, args ...any) error {
	return &StructuralError{Reason: fmt.Sprintf(format, args...)}
}

func invalid(path, reason string) error {
	return &ValueError{Path: path, Reason: reason}
}
