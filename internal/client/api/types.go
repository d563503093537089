package api

// Function mirrors one stored function row.
type Function struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	ExecTime  float64 `json:"exec_time"`
	CallCount int64   `json:"call_count"`
	AvgTime   float64 `json:"avg_time"`
}

// Analysis mirrors one stored profiling run.
type Analysis struct {
	ID          int64      `json:"id"`
	ProgramName string     `json:"program_name"`
	TotalTime   float64    `json:"total_time"`
	Timestamp   string     `json:"timestamp"`
	Functions   []Function `json:"functions,omitempty"`
}

// Summary is the dashboard. Message is set instead of the figures when the
// user has no analyses yet.
type Summary struct {
	Count       int     `json:"count"`
	TotalTime   float64 `json:"total_time"`
	AverageTime float64 `json:"average_time"`
	Message     string  `json:"message,omitempty"`
}

type Share struct {
	Name     string  `json:"name"`
	ExecTime float64 `json:"exec_time"`
	Share    float64 `json:"share"`
}

type Report struct {
	Analysis Analysis `json:"analysis"`
	Stats    struct {
		Count        int   `json:"count"`
		MaxCallCount int64 `json:"max_call_count"`
	} `json:"stats"`
	Breakdown []Share `json:"breakdown"`
}
