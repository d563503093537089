// Package analyses provides the SQL-backed repository for analysis rows.
package analyses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sibeni-li/khronos/internal/common"
	"github.com/sibeni-li/khronos/internal/dbx"
	"github.com/sibeni-li/khronos/internal/server/models"
)

// PostgresRepository implements analysis storage over a dbx.DBTX
// (*sql.DB, *sql.Conn or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the analysis row only; functions are written separately
// inside the same transaction.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Analysis) (int64, error) {
	query := `
		INSERT INTO analysis (user_id, program_name, total_time, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, a.UserID, a.ProgramName, a.TotalTime, a.Timestamp).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// GetByID returns the analysis only when it belongs to userID. A row owned by
// somebody else is reported exactly like a missing one: common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, userID, id int64) (*models.Analysis, error) {
	query := `
		SELECT id, user_id, program_name, total_time, timestamp FROM analysis
		WHERE id = $1 AND user_id = $2
	`
	a := &models.Analysis{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&a.ID, &a.UserID, &a.ProgramName, &a.TotalTime, &a.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// ListByUser returns the user's analyses, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Analysis, error) {
	query := `
		SELECT id, user_id, program_name, total_time, timestamp FROM analysis
		WHERE user_id = $1
		ORDER BY id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select analyses: %w", err)
	}
	defer rows.Close()

	var result []*models.Analysis
	for rows.Next() {
		var item models.Analysis
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProgramName, &item.TotalTime, &item.Timestamp); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
