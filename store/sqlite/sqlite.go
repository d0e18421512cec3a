/*
Package sqlite is the SQLite-backed persistence gateway.

PURPOSE:
  Implements emission.Gateway for the dashboard's embedded database. The
  same patterns apply to PostgreSQL - only SQL dialect differences.

SCHEMA:
  events   registered event names, insertion-ordered
  records  ONE ROW PER LINE ITEM. The legacy store kept a whole batch in
           one row with JSON arrays in the items/quantities/emissions
           cells; that encoding is gone from the write path. Rows sharing
           a record_id are grouped back into one list-encoded
           emission.Record on read, which keeps rollup's expansion the
           single interop point for multi-line submissions.

LEGACY ROWS:
  Databases migrated from the old dashboard may still contain rows whose
  item/quantity/emission cells hold JSON arrays. The scanner detects and
  decodes them, so LoadAll round-trips both shapes.

APPEND-ONLY:
  No UPDATE or DELETE on records. Saves are transactional: a failed write
  rolls back the whole batch, never leaving partial lines behind.

CONCURRENCY:
  sync.RWMutex plus WAL mode, same as any single-node deployment of this
  kind. Multi-writer coordination is out of scope for the engine.

SEE ALSO:
  - emission/types.go: the Gateway contract
  - store/memory: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/MBdjLOTR/GHG-Emissions-Calculator/emission"
)

// Store implements emission.Gateway using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	log zerolog.Logger
}

var _ emission.Gateway = (*Store)(nil)

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_name ON events(name);

	-- One row per line item (redesigned from the legacy JSON-in-a-cell shape)
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		record_id TEXT NOT NULL,
		event TEXT NOT NULL,
		scope TEXT NOT NULL,
		source TEXT NOT NULL,
		item TEXT NOT NULL,
		quantity TEXT NOT NULL,
		weight TEXT NOT NULL DEFAULT '0',
		emission TEXT NOT NULL,
		total_emission TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	);

	-- Rollup hot path: full-event scans in timestamp order
	CREATE INDEX IF NOT EXISTS idx_records_event_time
		ON records(event, recorded_at ASC);
	CREATE INDEX IF NOT EXISTS idx_records_record_id
		ON records(record_id);
	CREATE INDEX IF NOT EXISTS idx_records_scope
		ON records(event, scope);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EVENTS
// =============================================================================

// SaveEvent registers an event name.
func (s *Store) SaveEvent(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (name, created_at) VALUES (?, ?)",
		name, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	s.log.Info().Str("event", name).Msg("event registered")
	return nil
}

// LatestEvent returns the most recently registered event name.
func (s *Store) LatestEvent(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM events ORDER BY id DESC LIMIT 1").Scan(&name)
	if err == sql.ErrNoRows {
		return "", emission.ErrNoEvent
	}
	if err != nil {
		return "", fmt.Errorf("failed to load latest event: %w", err)
	}
	return name, nil
}

// ListEvents returns all registered event names, oldest first.
func (s *Store) ListEvents(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT name FROM events ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// =============================================================================
// RECORDS
// =============================================================================

// Save appends records, one row per line item, atomically.
func (s *Store) Save(ctx context.Context, records []emission.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO records
		(id, record_id, event, scope, source, item, quantity, weight,
		 emission, total_emission, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, r := range records {
		at := r.RecordedAt.UTC().Format(time.RFC3339)
		for i := 0; i < r.Lines(); i++ {
			_, err := tx.ExecContext(ctx, query,
				emission.NewID(),
				r.ID,
				r.Event,
				string(r.Scope),
				string(r.Source),
				r.Items[i],
				r.Quantities[i].String(),
				r.Weight.String(),
				r.Emissions[i].String(),
				r.Total.String(),
				at,
			)
			if err != nil {
				return fmt.Errorf("failed to save record %s: %w", r.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	s.log.Debug().Int("records", len(records)).Msg("records saved")
	return nil
}

// LoadAll returns every record for an event, ascending by timestamp. Rows
// sharing a record_id are regrouped into one list-encoded record.
func (s *Store) LoadAll(ctx context.Context, event string) ([]emission.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT record_id, event, scope, source, item, quantity, weight,
		       emission, total_emission, recorded_at
		FROM records
		WHERE event = ?
		ORDER BY recorded_at ASC, record_id ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, event)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var (
		records []emission.Record
		current *emission.Record
	)
	for rows.Next() {
		line, err := s.scanLine(rows)
		if err != nil {
			return nil, err
		}

		if current == nil || current.ID != line.recordID {
			records = append(records, emission.Record{
				ID:         line.recordID,
				Event:      line.event,
				Scope:      emission.Scope(line.scope),
				Source:     emission.Source(line.source),
				Weight:     line.weight,
				Total:      line.total,
				RecordedAt: line.at,
			})
			current = &records[len(records)-1]
		}
		current.Items = append(current.Items, line.items...)
		current.Quantities = append(current.Quantities, line.quantities...)
		current.Emissions = append(current.Emissions, line.emissions...)
	}
	return records, rows.Err()
}

// scannedLine is one decoded row. A modern row contributes one element per
// slice; a legacy JSON-array row contributes several.
type scannedLine struct {
	recordID   string
	event      string
	scope      string
	source     string
	items      []string
	quantities []decimal.Decimal
	emissions  []decimal.Decimal
	weight     decimal.Decimal
	total      decimal.Decimal
	at         time.Time
}

func (s *Store) scanLine(rows *sql.Rows) (scannedLine, error) {
	var (
		l                               scannedLine
		item, quantity, weight          string
		emissionCell, total, recordedAt string
	)
	err := rows.Scan(&l.recordID, &l.event, &l.scope, &l.source,
		&item, &quantity, &weight, &emissionCell, &total, &recordedAt)
	if err != nil {
		return l, fmt.Errorf("failed to scan record row: %w", err)
	}

	l.items = decodeStrings(item)
	l.quantities = decodeDecimals(quantity)
	l.emissions = decodeDecimals(emissionCell)
	l.weight = parseDecimal(weight)
	l.total = parseDecimal(total)
	if at, perr := time.Parse(time.RFC3339, recordedAt); perr != nil {
		// Zero time would sort the record to the front of the cumulative
		// series; keep the record but make the corruption visible.
		s.log.Warn().Str("record_id", l.recordID).Str("recorded_at", recordedAt).
			Msg("unparseable record timestamp")
	} else {
		l.at = at
	}
	return l, nil
}

// decodeStrings handles both the modern single-value cell and the legacy
// JSON-array-in-a-cell encoding.
func decodeStrings(cell string) []string {
	if strings.HasPrefix(cell, "[") {
		var items []string
		if err := json.Unmarshal([]byte(cell), &items); err == nil {
			return items
		}
	}
	return []string{cell}
}

func decodeDecimals(cell string) []decimal.Decimal {
	if strings.HasPrefix(cell, "[") {
		var raw []json.Number
		if err := json.Unmarshal([]byte(cell), &raw); err == nil {
			out := make([]decimal.Decimal, len(raw))
			for i, n := range raw {
				out[i] = parseDecimal(n.String())
			}
			return out
		}
	}
	return []decimal.Decimal{parseDecimal(cell)}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
