package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sibeni-li/khronos/internal/common"
	"github.com/sibeni-li/khronos/internal/dbx"
	"github.com/sibeni-li/khronos/internal/logging"
	"github.com/sibeni-li/khronos/internal/profile"
	"github.com/sibeni-li/khronos/internal/server/models"
	"github.com/sibeni-li/khronos/internal/server/repositories/repomanager"
)

var (
	ErrMissingFile = errors.New("missing file")
	ErrNotJSONFile = errors.New("not a JSON file")
)

// State is a step of the upload lifecycle. Transitions only move forward.
type State int

const (
	StateReceived State = iota
	StateStructurallyValid
	StateValueValid
	StatePersisted
	StateRejected
	StateStorageFailed
)

func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateStructurallyValid:
		return "structurally_valid"
	case StateValueValid:
		return "value_valid"
	case StatePersisted:
		return "persisted"
	case StateRejected:
		return "rejected"
	case StateStorageFailed:
		return "storage_failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Receipt is the outcome of one upload. AnalysisID is set only once the
// upload reached StatePersisted; Reason only on a failure state.
type Receipt struct {
	State      State
	AnalysisID int64
	Reason     string
}

// Archiver stores the raw bytes of an accepted upload.
type Archiver interface {
	Archive(ctx context.Context, key string, body []byte) error
}

// IngestService validates uploads and persists them atomically.
type IngestService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	archiver    Archiver
	log         logging.Logger
}

// NewIngestService wires the service. archiver may be nil to skip archiving.
func NewIngestService(db *sql.DB, m repomanager.RepositoryManager, archiver Archiver, log logging.Logger) *IngestService {
	return &IngestService{
		db:          db,
		repomanager: m,
		archiver:    archiver,
		log:         log.With("module", "ingest"),
	}
}

// ArchiveKey is where the raw upload of an analysis is archived.
func ArchiveKey(userID, analysisID int64) string {
	return fmt.Sprintf("uploads/%d/%d.json", userID, analysisID)
}

// Ingest runs one upload through validation and storage.
//
// On failure the returned Receipt carries the final state and the error is
// one of ErrMissingFile, ErrNotJSONFile, *profile.StructuralError,
// *profile.ValueError, or an error wrapping common.ErrorStorage.
func (s *IngestService) Ingest(ctx context.Context, userID int64, filename string, raw []byte) (*Receipt, error) {
	r := &Receipt{State: StateReceived}

	if filename == "" {
		return s.reject(ctx, r, ErrMissingFile)
	}
	if !strings.HasSuffix(filename, ".json") {
		return s.reject(ctx, r, ErrNotJSONFile)
	}

	tree, err := profile.Decode(raw)
	if err != nil {
		return s.reject(ctx, r, err)
	}
	if err := profile.ValidateStructure(tree); err != nil {
		return s.reject(ctx, r, err)
	}
	s.transition(ctx, r, StateStructurallyValid)

	if err := profile.ValidateValues(tree); err != nil {
		return s.reject(ctx, r, err)
	}
	s.transition(ctx, r, StateValueValid)

	doc := profile.Build(tree)

	id, err := s.RecordAnalysis(ctx, userID, doc.Metadata, doc.Functions)
	if err != nil {
		r.Reason = common.ErrorStorage.Error()
		s.transition(ctx, r, StateStorageFailed)
		s.log.Error(ctx, "failed to store analysis", "user_id", userID, "error", err)
		return r, err
	}
	r.AnalysisID = id
	s.transition(ctx, r, StatePersisted)

	s.archive(ctx, userID, id, raw)

	return r, nil
}

// RecordAnalysis writes the analysis row and all function rows in one
// transaction. On any failure nothing is persisted and the error wraps
// common.ErrorStorage.
func (s *IngestService) RecordAnalysis(ctx context.Context, userID int64, meta profile.Metadata, fns []profile.FunctionRecord) (int64, error) {
	var analysisID int64

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		analysisRepo := s.repomanager.Analyses(tx)
		functionRepo := s.repomanager.Functions(tx)

		id, err := analysisRepo.Create(ctx, &models.Analysis{
			UserID:      userID,
			ProgramName: meta.ProgramName,
			TotalTime:   meta.TotalTime,
			Timestamp:   meta.Timestamp,
		})
		if err != nil {
			return err
		}

		for i, fn := range fns {
			if _, err := functionRepo.Create(ctx, &models.Function{
				AnalysisID: id,
				Name:       fn.Name,
				ExecTime:   fn.ExecTime,
				CallCount:  fn.CallCount,
				AvgTime:    fn.AvgTime,
			}); err != nil {
				return fmt.Errorf("function %d: %w", i, err)
			}
		}

		analysisID = id
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrorStorage, err)
	}

	return analysisID, nil
}

func (s *IngestService) reject(ctx context.Context, r *Receipt, err error) (*Receipt, error) {
	r.Reason = err.Error()
	s.transition(ctx, r, StateRejected)
	return r, err
}

func (s *IngestService) transition(ctx context.Context, r *Receipt, to State) {
	s.log.Debug(ctx, "upload state changed", "from", r.State.String(), "to", to.String())
	r.State = to
}

// archive never changes the outcome of an upload.
func (s *IngestService) archive(ctx context.Context, userID, analysisID int64, raw []byte) {
	if s.archiver == nil {
		return
	}
	key := ArchiveKey(userID, analysisID)
	if err := s.archiver.Archive(ctx, key, raw); err != nil {
		s.log.Warn(ctx, "failed to archive upload", "key", key, "error", err)
	}
}
