// Package save persists loop sessions in SQLite: the cursor plus the
// runtime-patched content of every loaded timeline.
package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lixenwraith/timeloop/looptime"
	"github.com/lixenwraith/timeloop/timeline"
)

// ErrNoSnapshot is returned when a slot holds no saved session
var ErrNoSnapshot = errors.New("no snapshot in slot")

// Store manages session snapshots in a SQLite file
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and initializes the schema
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		slot      TEXT PRIMARY KEY,
		timeline  TEXT NOT NULL,
		at_ms     INTEGER NOT NULL,
		epoch     INTEGER NOT NULL DEFAULT 0,
		saved_ns  INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS timeline_content (
		slot        TEXT NOT NULL REFERENCES snapshots(slot) ON DELETE CASCADE,
		timeline_id TEXT NOT NULL,
		body        TEXT NOT NULL,
		PRIMARY KEY (slot, timeline_id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Snapshot is one saved session
type Snapshot struct {
	Slot      string
	Cursor    timeline.Point
	Epoch     uint64
	SavedAt   time.Time
	Timelines []*timeline.Timeline
}

// SlotInfo summarizes a saved slot without its content
type SlotInfo struct {
	Slot      string
	Cursor    timeline.Point
	Epoch     uint64
	SavedAt   time.Time
	Timelines int
}

// Save replaces slot with the cursor and every timeline in lib
// A session saved mid-seek resumes at the seek target
func (s *Store) Save(ctx context.Context, slot string, loop *timeline.TimeLoop, lib *timeline.Library) error {
	cursor := loop.Curr
	if loop.Mode == timeline.ModeResetting {
		cursor.Time = loop.ResettingTo
	}

	bodies := make(map[timeline.ID]string, lib.Len())
	for _, id := range lib.IDs() {
		tl, _ := lib.Get(id)
		data, err := timeline.Encode(tl)
		if err != nil {
			return fmt.Errorf("encode %s: %w", id, err)
		}
		bodies[id] = string(data)
	}

	savedNs := s.now().UnixNano()
	return retryOnContention(func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (slot, timeline, at_ms, epoch, saved_ns)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(slot) DO UPDATE SET
			   timeline = excluded.timeline, at_ms = excluded.at_ms,
			   epoch = excluded.epoch, saved_ns = excluded.saved_ns`,
			slot, string(cursor.Timeline), cursor.Time.Millis(), int64(loop.Epoch), savedNs,
		); err != nil {
			return fmt.Errorf("upsert snapshot: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM timeline_content WHERE slot = ?`, slot); err != nil {
			return fmt.Errorf("clear content: %w", err)
		}
		for id, body := range bodies {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO timeline_content (slot, timeline_id, body) VALUES (?, ?, ?)`,
				slot, string(id), body,
			); err != nil {
				return fmt.Errorf("insert %s: %w", id, err)
			}
		}
		return tx.Commit()
	})
}

// Load reads slot, decoding every stored timeline through reg
func (s *Store) Load(ctx context.Context, slot string, reg *timeline.Registry, log *slog.Logger) (*Snapshot, error) {
	info, err := s.info(ctx, slot)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Slot: slot, Cursor: info.Cursor, Epoch: info.Epoch, SavedAt: info.SavedAt}

	rows, err := s.db.QueryContext(ctx,
		`SELECT timeline_id, body FROM timeline_content WHERE slot = ? ORDER BY timeline_id`, slot)
	if err != nil {
		return nil, fmt.Errorf("query content: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		tl, err := timeline.Decode(reg, timeline.ID(id), []byte(body), log)
		if err != nil {
			return nil, fmt.Errorf("slot %q timeline %q: %w", slot, id, err)
		}
		snap.Timelines = append(snap.Timelines, tl)
	}
	return snap, rows.Err()
}

// Slots lists saved slots, most recent first
func (s *Store) Slots(ctx context.Context) ([]SlotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.slot, s.timeline, s.at_ms, s.epoch, s.saved_ns,
		       (SELECT COUNT(*) FROM timeline_content c WHERE c.slot = s.slot)
		FROM snapshots s ORDER BY s.saved_ns DESC, s.slot`)
	if err != nil {
		return nil, fmt.Errorf("query slots: %w", err)
	}
	defer rows.Close()

	var out []SlotInfo
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *info)
	}
	return out, rows.Err()
}

// Delete removes slot and its content; deleting an empty slot is not an error
func (s *Store) Delete(ctx context.Context, slot string) error {
	return retryOnContention(func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE slot = ?`, slot)
		return err
	})
}

func (s *Store) info(ctx context.Context, slot string) (*SlotInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT s.slot, s.timeline, s.at_ms, s.epoch, s.saved_ns,
		       (SELECT COUNT(*) FROM timeline_content c WHERE c.slot = s.slot)
		FROM snapshots s WHERE s.slot = ?`, slot)
	info, err := scanInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("slot %q: %w", slot, ErrNoSnapshot)
	}
	return info, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInfo(sc scanner) (*SlotInfo, error) {
	var (
		info    SlotInfo
		tlID    string
		atMs    int64
		epoch   int64
		savedNs int64
	)
	if err := sc.Scan(&info.Slot, &tlID, &atMs, &epoch, &savedNs, &info.Timelines); err != nil {
		return nil, err
	}
	info.Cursor = timeline.Point{Timeline: timeline.ID(tlID), Time: looptime.Millis(atMs)}
	info.Epoch = uint64(epoch)
	info.SavedAt = time.Unix(0, savedNs).UTC()
	return &info, nil
}

// Restore installs snap into lib and moves the cursor, without seeking
func Restore(snap *Snapshot, loop *timeline.TimeLoop, lib *timeline.Library) {
	for _, tl := range snap.Timelines {
		lib.Put(tl)
	}
	loop.JumpTo(snap.Cursor)
	loop.Mode = timeline.ModeRunning
	loop.Epoch = snap.Epoch
}
