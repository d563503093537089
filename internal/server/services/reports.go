package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sibeni-li/khronos/internal/dbx"
	"github.com/sibeni-li/khronos/internal/server/models"
	"github.com/sibeni-li/khronos/internal/server/repositories/repomanager"
	"github.com/sibeni-li/khronos/internal/server/stats"
)

// AnalysisReport is a stored analysis with its derived figures.
type AnalysisReport struct {
	Analysis  *models.Analysis `json:"analysis"`
	Stats     stats.Report     `json:"stats"`
	Breakdown []stats.Share    `json:"breakdown"`
}

// ReportService answers read-only questions about a user's analyses.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager) *ReportService {
	return &ReportService{db: db, repomanager: m}
}

// Dashboard returns stats.ErrNoData when the user has no analyses.
func (s *ReportService) Dashboard(ctx context.Context, userID int64) (stats.Summary, error) {
	list, err := s.History(ctx, userID)
	if err != nil {
		return stats.Summary{}, err
	}

	analyses := make([]models.Analysis, 0, len(list))
	for _, a := range list {
		analyses = append(analyses, *a)
	}
	return stats.Summarize(analyses)
}

// History lists the user's analyses, newest first.
func (s *ReportService) History(ctx context.Context, userID int64) ([]*models.Analysis, error) {
	repo := s.repomanager.Analyses(s.db)
	list, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing analyses: %w", err)
	}
	return list, nil
}

// Report loads one analysis owned by userID. A missing analysis and one
// owned by somebody else both yield common.ErrorNotFound.
func (s *ReportService) Report(ctx context.Context, userID, analysisID int64) (*AnalysisReport, error) {
	var report *AnalysisReport

	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		analysis, err := s.repomanager.Analyses(conn).GetByID(ctx, userID, analysisID)
		if err != nil {
			return err
		}

		list, err := s.repomanager.Functions(conn).ListByAnalysis(ctx, analysis.ID)
		if err != nil {
			return err
		}

		analysis.Functions = make([]models.Function, 0, len(list))
		for _, f := range list {
			analysis.Functions = append(analysis.Functions, *f)
		}

		report = &AnalysisReport{
			Analysis:  analysis,
			Stats:     stats.ReportStats(analysis.Functions),
			Breakdown: stats.Breakdown(analysis.Functions),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}
