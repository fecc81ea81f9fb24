package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// ErrSnapshotNotFound is returned when no snapshot has the requested id.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SnapshotModule is a module as recorded in a snapshot.
type SnapshotModule struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	RootPath     string   `json:"rootPath"`
	ManifestType string   `json:"manifestType,omitempty"`
	Language     string   `json:"language,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Edge is a dependency edge between two module ids.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Snapshot is a stored module-graph analysis.
type Snapshot struct {
	ID         string           `json:"id"`
	CreatedAt  time.Time        `json:"createdAt"`
	RepoRoot   string           `json:"repoRoot"`
	Acyclic    bool             `json:"acyclic"`
	Modules    []SnapshotModule `json:"modules"`
	Edges      []Edge           `json:"edges"`
	Components [][]string       `json:"components"`
	BuildOrder []string         `json:"buildOrder,omitempty"`
}

// SnapshotSummary is the listing view of a snapshot.
type SnapshotSummary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	RepoRoot    string    `json:"repoRoot"`
	ModuleCount int       `json:"moduleCount"`
	EdgeCount   int       `json:"edgeCount"`
	Acyclic     bool      `json:"acyclic"`
}

// payload is the compressed part of a snapshot row.
type payload struct {
	Modules    []SnapshotModule `json:"modules"`
	Edges      []Edge           `json:"edges"`
	Components [][]string       `json:"components"`
	BuildOrder []string         `json:"buildOrder,omitempty"`
}

var (
	codecOnce sync.Once
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	codecErr  error
)

func codec() (*zstd.Encoder, *zstd.Decoder, error) {
	codecOnce.Do(func() {
		encoder, codecErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if codecErr != nil {
			return
		}
		decoder, codecErr = zstd.NewReader(nil)
	})
	return encoder, decoder, codecErr
}

// SnapshotRepository stores and loads snapshots.
type SnapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a repository on db.
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save stores s. An empty ID is replaced by a fresh UUID and a zero
// CreatedAt by the current time; both are written back to s.
func (r *SnapshotRepository) Save(s *Snapshot) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	enc, _, err := codec()
	if err != nil {
		return fmt.Errorf("failed to create zstd codec: %w", err)
	}
	data, err := json.Marshal(payload{
		Modules:    s.Modules,
		Edges:      s.Edges,
		Components: s.Components,
		BuildOrder: s.BuildOrder,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	blob := enc.EncodeAll(data, nil)

	err = r.db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO snapshots (snapshot_id, created_at, repo_root, module_count, edge_count, acyclic, payload)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, s.ID, s.CreatedAt.UTC().Format(timeLayout), s.RepoRoot, len(s.Modules), len(s.Edges), s.Acyclic, blob)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	r.db.logger.Debug("Snapshot saved", map[string]interface{}{
		"id":          s.ID,
		"modules":     len(s.Modules),
		"rawBytes":    len(data),
		"storedBytes": len(blob),
	})
	return nil
}

// Get loads the snapshot with the given id.
func (r *SnapshotRepository) Get(id string) (*Snapshot, error) {
	var (
		s         Snapshot
		createdAt string
		blob      []byte
	)
	err := r.db.conn.QueryRow(`
		SELECT snapshot_id, created_at, repo_root, acyclic, payload
		FROM snapshots WHERE snapshot_id = ?
	`, id).Scan(&s.ID, &createdAt, &s.RepoRoot, &s.Acyclic, &blob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	if s.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("invalid snapshot timestamp %q: %w", createdAt, err)
	}

	_, dec, err := codec()
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd codec: %w", err)
	}
	data, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress snapshot %s: %w", id, err)
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}
	s.Modules, s.Edges, s.Components, s.BuildOrder = p.Modules, p.Edges, p.Components, p.BuildOrder

	return &s, nil
}

// List returns summaries, newest first. limit <= 0 means no limit.
func (r *SnapshotRepository) List(limit int) ([]SnapshotSummary, error) {
	query := `
		SELECT snapshot_id, created_at, repo_root, module_count, edge_count, acyclic
		FROM snapshots ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SnapshotSummary
	for rows.Next() {
		var (
			s         SnapshotSummary
			createdAt string
		)
		if err := rows.Scan(&s.ID, &createdAt, &s.RepoRoot, &s.ModuleCount, &s.EdgeCount, &s.Acyclic); err != nil {
			return nil, err
		}
		if s.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("invalid snapshot timestamp %q: %w", createdAt, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes the snapshot with the given id.
func (r *SnapshotRepository) Delete(id string) error {
	return r.db.WithTx(func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM snapshots WHERE snapshot_id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete snapshot: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}
		return nil
	})
}
