package models

// Function holds per-function statistics of an analysis.
type Function struct {
	ID         int64   `json:"id"`
	AnalysisID int64   `json:"-"`
	Name       string  `json:"name"`
	ExecTime   float64 `json:"exec_time"`
	CallCount  int64   `json:"call_count"`
	AvgTime    float64 `json:"avg_time"`
}
