package sqlite

import (
	"fmt"
	"time"

	"github.com/tutu-network/brew/internal/domain"
)

// ─── Session Operations ─────────────────────────────────────────────────────

// StartSession records the ledger a session started with.
func (db *DB) StartSession(sessionID string, initial domain.Resources) error {
	if db.isClosed() {
		return domain.ErrJournalClosed
	}
	_, err := db.db.Exec(`
		INSERT INTO sessions (id, water, milk, beans, cups, money)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sessionID, initial.Water, initial.Milk, initial.Beans, initial.Cups, initial.Money)
	if err != nil {
		return fmt.Errorf("start session %s: %w", sessionID, err)
	}
	return nil
}

// SessionCount returns the number of recorded sessions.
func (db *DB) SessionCount() (int, error) {
	var n int
	err := db.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n)
	return n, err
}

// ─── Event Operations ───────────────────────────────────────────────────────

// InsertEvent appends one event to a session's journal.
func (db *DB) InsertEvent(sessionID string, ev domain.Event) error {
	if db.isClosed() {
		return domain.ErrJournalClosed
	}
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := db.db.Exec(`
		INSERT INTO machine_events (
			session_id, kind, command, beverage, resource, selection, amount,
			d_water, d_milk, d_beans, d_cups, d_money,
			water, milk, beans, cups, money, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sessionID, string(ev.Kind), ev.Command, ev.Beverage, string(ev.Resource), ev.Selection, ev.Amount,
		ev.Delta.Water, ev.Delta.Milk, ev.Delta.Beans, ev.Delta.Cups, ev.Delta.Money,
		ev.Ledger.Water, ev.Ledger.Milk, ev.Ledger.Beans, ev.Ledger.Cups, ev.Ledger.Money,
		ts.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert %s event: %w", ev.Kind, err)
	}
	return nil
}

// Events lists a session's events in the order they were recorded.
func (db *DB) Events(sessionID string) ([]domain.Event, error) {
	rows, err := db.db.Query(`
		SELECT kind, command, beverage, resource, selection, amount,
		       d_water, d_milk, d_beans, d_cups, d_money,
		       water, milk, beans, cups, money, created_at
		FROM machine_events WHERE session_id = ? ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		var (
			ev                  domain.Event
			kind, resource, at string
		)
		if err := rows.Scan(&kind, &ev.Command, &ev.Beverage, &resource, &ev.Selection, &ev.Amount,
			&ev.Delta.Water, &ev.Delta.Milk, &ev.Delta.Beans, &ev.Delta.Cups, &ev.Delta.Money,
			&ev.Ledger.Water, &ev.Ledger.Milk, &ev.Ledger.Beans, &ev.Ledger.Cups, &ev.Ledger.Money,
			&at); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = domain.EventKind(kind)
		ev.Resource = domain.Resource(resource)
		ev.Timestamp, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Totals summarizes a session.
type Totals struct {
	Sales     int `json:"sales"`
	Revenue   int `json:"revenue"`
	Shortages int `json:"shortages"`
	Refills   int `json:"refills"`
	PaidOut   int `json:"paid_out"`
}

// SessionTotals aggregates a session's journal.
func (db *DB) SessionTotals(sessionID string) (Totals, error) {
	var t Totals
	err := db.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = ? THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = ? THEN amount ELSE 0 END), 0)
		FROM machine_events WHERE session_id = ?
	`, string(domain.EventSale), string(domain.EventSale), string(domain.EventShortage),
		string(domain.EventRefill), string(domain.EventPayout), sessionID,
	).Scan(&t.Sales, &t.Revenue, &t.Shortages, &t.Refills, &t.PaidOut)
	if err != nil {
		return Totals{}, fmt.Errorf("session totals: %w", err)
	}
	return t, nil
}

func (db *DB) isClosed() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.closed
}

// ─── Journal Sink ───────────────────────────────────────────────────────────

// Journal is a domain.EventSink bound to one session. Menu commands and
// reports carry no ledger change and are not journaled.
type Journal struct {
	db      *DB
	session string
}

// Journal returns a sink writing into sessionID.
func (db *DB) Journal(sessionID string) *Journal {
	return &Journal{db: db, session: sessionID}
}

// Record implements domain.EventSink.
func (j *Journal) Record(ev domain.Event) error {
	switch ev.Kind {
	case domain.EventCommand, domain.EventReport:
		return nil
	}
	return j.db.InsertEvent(j.session, ev)
}
