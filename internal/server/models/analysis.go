package models

// Analysis is one uploaded profiling run. Timestamp is stored exactly as the
// profiler reported it.
type Analysis struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"-"`
	ProgramName string     `json:"program_name"`
	TotalTime   float64    `json:"total_time"`
	Timestamp   string     `json:"timestamp"`
	Functions   []Function `json:"functions,omitempty"`
}
