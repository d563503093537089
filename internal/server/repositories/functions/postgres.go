// Package functions provides the SQL-backed repository for per-function
// profiling rows.
package functions

import (
	"context"
	"fmt"

	"github.com/sibeni-li/khronos/internal/dbx"
	"github.com/sibeni-li/khronos/internal/server/models"
)

// PostgresRepository implements function storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, fn *models.Function) (int64, error) {
	query := `
		INSERT INTO functions (analysis_id, name, exec_time, call_count, avg_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, fn.AnalysisID, fn.Name, fn.ExecTime, fn.CallCount, fn.AvgTime).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// ListByAnalysis returns the functions of one analysis in insertion order.
// Callers must have checked ownership of analysisID first.
func (r *PostgresRepository) ListByAnalysis(ctx context.Context, analysisID int64) ([]*models.Function, error) {
	query := `
		SELECT id, analysis_id, name, exec_time, call_count, avg_time FROM functions
		WHERE analysis_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to select functions: %w", err)
	}
	defer rows.Close()

	var result []*models.Function
	for rows.Next() {
		var item models.Function
		if err := rows.Scan(&item.ID, &item.AnalysisID, &item.Name, &item.ExecTime, &item.CallCount, &item.AvgTime); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
