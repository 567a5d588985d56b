// Package recorder journals collision events and world state snapshots into SQLite.
package recorder

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/physics"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// ErrNoSnapshot is returned by LatestSnapshot if no snapshot was recorded yet.
var ErrNoSnapshot = errors.New("no snapshot recorded")

// Store persists the journal in a SQLite database.
type Store struct {
	sqlDB *sql.DB
}

type Collision struct {
	Tick  uint64
	Event physics.CollisionEvent
}

type Snapshot struct {
	Tick     uint64
	Checksum uint64
	Blob     []byte
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}

	return s.sqlDB.Close()
}

// RecordCollisions stores all events of one tick in a single transaction.
func (s *Store) RecordCollisions(ctx context.Context, tick uint64, events []physics.CollisionEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO collisions (tick, entity1, entity2, kind, flags) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}

	defer stmt.Close()

	for _, event := range events {
		_, err := stmt.ExecContext(ctx,
			int64(tick),
			int64(event.Entity1),
			int64(event.Entity2),
			int64(event.Kind),
			int64(event.Flags),
		)

		if err != nil {
			return fmt.Errorf("insert collision: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit collisions: %w", err)
	}

	return nil
}

// RecordSnapshot stores an encoded world state. A second snapshot for the same tick replaces the first one.
func (s *Store) RecordSnapshot(ctx context.Context, tick uint64, blob []byte, checksum uint64) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots (tick, checksum, blob) VALUES (?, ?, ?)`,
		int64(tick),
		int64(checksum),
		blob,
	)

	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	return nil
}

// Collisions returns all collisions recorded at or after sinceTick in the order they were recorded.
func (s *Store) Collisions(ctx context.Context, sinceTick uint64) ([]Collision, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT tick, entity1, entity2, kind, flags FROM collisions WHERE tick >= ? ORDER BY id`,
		int64(sinceTick),
	)
	if err != nil {
		return nil, fmt.Errorf("query collisions: %w", err)
	}

	defer rows.Close()

	var collisions []Collision
	for rows.Next() {
		var tick, entity1, entity2, kind, flags int64
		if err := rows.Scan(&tick, &entity1, &entity2, &kind, &flags); err != nil {
			return nil, fmt.Errorf("scan collision: %w", err)
		}

		collisions = append(collisions, Collision{
			Tick: uint64(tick),
			Event: physics.CollisionEvent{
				Entity1: kesko.EntityId(entity1),
				Entity2: kesko.EntityId(entity2),
				Kind:    physics.CollisionKind(kind),
				Flags:   physics.CollisionFlags(flags),
			},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collisions: %w", err)
	}

	return collisions, nil
}

// LatestSnapshot returns the snapshot with the highest tick.
func (s *Store) LatestSnapshot(ctx context.Context) (Snapshot, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT tick, checksum, blob FROM snapshots ORDER BY tick DESC LIMIT 1`,
	)

	var tick, checksum int64
	var blob []byte

	if err := row.Scan(&tick, &checksum, &blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNoSnapshot
		}

		return Snapshot{}, fmt.Errorf("query snapshot: %w", err)
	}

	return Snapshot{Tick: uint64(tick), Checksum: uint64(checksum), Blob: blob}, nil
}
