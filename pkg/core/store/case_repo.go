package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"thesislab/pkg/core/driver"
	"thesislab/pkg/core/scenario"
	"thesislab/pkg/core/thesis"
)

// CaseBundle is the unit of persistence: everything needed to audit a
// published run. Once saved it is never patched; a new run saves a new
// bundle under a new snapshot.
type CaseBundle struct {
	ID         string                        `json:"id"`
	Ticker     string                        `json:"ticker"`
	SnapshotID string                        `json:"snapshot_id"`
	DriverLog  []driver.Revision             `json:"driver_log"`
	Cases      []scenario.Case               `json:"cases"`
	Violations []thesis.ConsistencyViolation `json:"violations,omitempty"`
	SavedAt    time.Time                     `json:"saved_at"`
}

// CaseRepository is the storage contract the pipeline depends on, so tests
// can inject an in-memory implementation.
type CaseRepository interface {
	Save(ctx context.Context, bundle *CaseBundle) error
	Load(ctx context.Context, ticker, snapshotID string) (*CaseBundle, error)
}

// CaseRepo stores bundles in Postgres as JSONB, falling back to flat files
// when no pool is configured. Local runs without a database still keep
// their audit trail.
type CaseRepo struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewCaseRepo creates a repository. With a nil pool the repo writes JSON
// files under dir (default .cache/thesislab/cases).
func NewCaseRepo(pool *pgxpool.Pool, dir string) *CaseRepo {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "thesislab", "cases")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("case repo directory not writable")
		}
	}
	return &CaseRepo{pool: pool, fileDir: dir}
}

func (r *CaseRepo) filePath(ticker, snapshotID string) string {
	return filepath.Join(r.fileDir, fmt.Sprintf("%s_%s.json", ticker, snapshotID))
}

// Save persists a bundle. The (ticker, snapshot) pair is the natural key:
// re-saving the same frozen run overwrites it, a new snapshot lands as a
// new row.
func (r *CaseRepo) Save(ctx context.Context, bundle *CaseBundle) error {
	if bundle.ID == "" {
		bundle.ID = uuid.New().String()
	}
	bundle.SavedAt = time.Now()

	data, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("marshaling case bundle: %w", err)
	}

	if r.pool == nil {
		if r.fileDir == "" {
			return fmt.Errorf("case repo has neither database pool nor file directory")
		}
		path := r.filePath(bundle.Ticker, bundle.SnapshotID)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing case bundle: %w", err)
		}
		log.Debug().Str("path", path).Msg("case bundle saved to file")
		return nil
	}

	// Schema assumption:
	// CREATE TABLE IF NOT EXISTS thesis_cases (
	//   ticker TEXT NOT NULL,
	//   snapshot_id TEXT NOT NULL,
	//   bundle_json JSONB,
	//   saved_at TIMESTAMPTZ,
	//   PRIMARY KEY (ticker, snapshot_id)
	// );
	query := `
		INSERT INTO thesis_cases (ticker, snapshot_id, bundle_json, saved_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticker, snapshot_id)
		DO UPDATE SET bundle_json = EXCLUDED.bundle_json, saved_at = EXCLUDED.saved_at`
	if _, err := r.pool.Exec(ctx, query, bundle.Ticker, bundle.SnapshotID, data, bundle.SavedAt); err != nil {
		return fmt.Errorf("upserting case bundle: %w", err)
	}
	return nil
}

// Load retrieves a bundle by its natural key.
func (r *CaseRepo) Load(ctx context.Context, ticker, snapshotID string) (*CaseBundle, error) {
	var data []byte

	if r.pool == nil {
		if r.fileDir == "" {
			return nil, fmt.Errorf("case repo has neither database pool nor file directory")
		}
		b, err := os.ReadFile(r.filePath(ticker, snapshotID))
		if err != nil {
			return nil, fmt.Errorf("reading case bundle: %w", err)
		}
		data = b
	} else {
		query := `SELECT bundle_json FROM thesis_cases WHERE ticker = $1 AND snapshot_id = $2`
		if err := r.pool.QueryRow(ctx, query, ticker, snapshotID).Scan(&data); err != nil {
			return nil, fmt.Errorf("querying case bundle: %w", err)
		}
	}

	var bundle CaseBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("decoding case bundle: %w", err)
	}
	return &bundle, nil
}
