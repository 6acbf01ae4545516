package relay

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ClaimState tracks a claim relay through its two-phase submission. The
// interesting state is funding_confirmed: funds have left the sender but
// not yet reached the recipient, so a crash here must be observable and
// recoverable, not silently lost.
type ClaimState string

const (
	StateFundingSubmitted ClaimState = "funding_submitted"
	StateFundingFailed    ClaimState = "funding_failed"
	StateFundingConfirmed ClaimState = "funding_confirmed"
	StateCompleted        ClaimState = "completed"
	StateSweepFailed      ClaimState = "sweep_failed"
)

// Checkpoint is one durable claim-relay record.
type Checkpoint struct {
	ID          int64
	FromAddress string
	State       ClaimState
	FundingHash string
	SweepHash   string
	Reason      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CheckpointStore persists claim-relay progress in SQLite.
type CheckpointStore struct {
	sqlDB *sql.DB
}

const checkpointSchema = `
CREATE TABLE IF NOT EXISTS claim_checkpoints (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	from_address TEXT NOT NULL,
	state        TEXT NOT NULL,
	funding_hash TEXT NOT NULL DEFAULT '',
	sweep_hash   TEXT NOT NULL DEFAULT '',
	reason       TEXT NOT NULL DEFAULT '',
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_claim_checkpoints_state ON claim_checkpoints(state);
`

// OpenCheckpointStore opens (and if needed initializes) the store.
func OpenCheckpointStore(path string) (*CheckpointStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("checkpoint db path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(checkpointSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &CheckpointStore{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *CheckpointStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// BeginClaim records a freshly received claim relay before anything is
// submitted.
func (s *CheckpointStore) BeginClaim(ctx context.Context, fromAddress string) (int64, error) {
	now := toMillis(time.Now())
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO claim_checkpoints (from_address, state, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		fromAddress, string(StateFundingSubmitted), now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert checkpoint: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("checkpoint id: %w", err)
	}
	return id, nil
}

func (s *CheckpointStore) update(ctx context.Context, id int64, state ClaimState, fundingHash, sweepHash, reason string) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`UPDATE claim_checkpoints
		 SET state = ?,
		     funding_hash = CASE WHEN ? != '' THEN ? ELSE funding_hash END,
		     sweep_hash   = CASE WHEN ? != '' THEN ? ELSE sweep_hash END,
		     reason       = ?,
		     updated_at   = ?
		 WHERE id = ?`,
		string(state), fundingHash, fundingHash, sweepHash, sweepHash, reason, toMillis(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("update checkpoint %d: %w", id, err)
	}
	return nil
}

// MarkFundingFailed records a funding rejection; the sweep was never
// submitted.
func (s *CheckpointStore) MarkFundingFailed(ctx context.Context, id int64, reason string) error {
	return s.update(ctx, id, StateFundingFailed, "", "", reason)
}

// MarkFundingConfirmed is the durable "funding confirmed, sweep pending"
// record written between the two submissions.
func (s *CheckpointStore) MarkFundingConfirmed(ctx context.Context, id int64, fundingHash string) error {
	return s.update(ctx, id, StateFundingConfirmed, fundingHash, "", "")
}

// MarkCompleted records full success.
func (s *CheckpointStore) MarkCompleted(ctx context.Context, id int64, sweepHash string) error {
	return s.update(ctx, id, StateCompleted, "", sweepHash, "")
}

// MarkSweepFailed records a confirmed funding with a rejected sweep:
// funds are stranded in the ephemeral account until a fresh sweep is
// built with new parameters.
func (s *CheckpointStore) MarkSweepFailed(ctx context.Context, id int64, reason string) error {
	return s.update(ctx, id, StateSweepFailed, "", "", reason)
}

// PendingSweeps lists claims whose funding confirmed but whose sweep
// never completed, including those interrupted by a crash between the
// two submissions. Logged at startup so stranded funds are visible.
func (s *CheckpointStore) PendingSweeps(ctx context.Context) ([]Checkpoint, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, from_address, state, funding_hash, sweep_hash, reason, created_at, updated_at
		 FROM claim_checkpoints
		 WHERE state IN (?, ?)
		 ORDER BY id`,
		string(StateFundingConfirmed), string(StateSweepFailed),
	)
	if err != nil {
		return nil, fmt.Errorf("query pending sweeps: %w", err)
	}
	defer rows.Close()

	var out []Checkpoint
	for rows.Next() {
		var cp Checkpoint
		var state string
		var createdAt, updatedAt int64
		if err := rows.Scan(&cp.ID, &cp.FromAddress, &state, &cp.FundingHash, &cp.SweepHash, &cp.Reason, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan checkpoint: %w", err)
		}
		cp.State = ClaimState(state)
		cp.CreatedAt = fromMillis(createdAt)
		cp.UpdatedAt = fromMillis(updatedAt)
		out = append(out, cp)
	}
	return out, rows.Err()
}
