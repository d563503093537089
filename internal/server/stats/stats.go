// Package stats derives aggregates from stored analyses on demand.
// Nothing here is persisted.
package stats

import (
	"errors"

	"github.com/sibeni-li/khronos/internal/server/models"
)

// ErrNoData is returned by Summarize when there is nothing to aggregate.
var ErrNoData = errors.New("no data yet")

// Summary aggregates a user's analyses.
type Summary struct {
	Count       int     `json:"count"`
	TotalTime   float64 `json:"total_time"`
	AverageTime float64 `json:"average_time"`
}

// Report aggregates the functions of one analysis.
type Report struct {
	Count        int   `json:"count"`
	MaxCallCount int64 `json:"max_call_count"`
}

// Share is a function's portion of the summed exec_time.
type Share struct {
	Name     string  `json:"name"`
	ExecTime float64 `json:"exec_time"`
	Share    float64 `json:"share"`
}

// Summarize totals the run times of analyses. It returns ErrNoData for an empty slice.
func Summarize(analyses []models.Analysis) (Summary, error) {
	if len(analyses) == 0 {
		return Summary{}, ErrNoData
	}

	var total float64
	for _, a := range analyses {
		total += a.TotalTime
	}
	return Summary{
		Count:       len(analyses),
		TotalTime:   total,
		AverageTime: total / float64(len(analyses)),
	}, nil
}

// ReportStats counts functions and finds the highest call_count.
func ReportStats(functions []models.Function) Report {
	r := Report{Count: len(functions)}
	for _, f := range functions {
		if f.CallCount > r.MaxCallCount {
			r.MaxCallCount = f.CallCount
		}
	}
	return r
}

// Breakdown keeps input order. Every share is 0 when the exec_time sum is 0.
func Breakdown(functions []models.Function) []Share {
	var sum float64
	for _, f := range functions {
		sum += f.ExecTime
	}

	out := make([]Share, 0, len(functions))
	for _, f := range functions {
		s := Share{Name: f.Name, ExecTime: f.ExecTime}
		if sum > 0 {
			s.Share = f.ExecTime / sum
		}
		out = append(out, s)
	}
	return out
}
