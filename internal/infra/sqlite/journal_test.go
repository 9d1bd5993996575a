package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tutu-network/brew/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// ─── Open / Migrate ─────────────────────────────────────────────────────────

func TestOpen_CreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "journal")
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Errorf("database file missing: %v", err)
	}
	if db.Path() != filepath.Join(dir, FileName) {
		t.Errorf("Path() = %q", db.Path())
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.StartSession("s1", domain.DefaultResources()); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()
	n, err := db2.SessionCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("SessionCount() = %d, want 1", n)
	}
}

// ─── Events ─────────────────────────────────────────────────────────────────

func TestInsertEvent_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	ev := domain.Event{
		Kind:      domain.EventSale,
		Timestamp: at,
		Beverage:  "latte",
		Selection: 2,
		Amount:    7,
		Delta:     domain.Resources{Water: -350, Milk: -75, Beans: -20, Cups: -1, Money: 7},
		Ledger:    domain.Resources{Water: 50, Milk: 465, Beans: 100, Cups: 8, Money: 557},
	}
	if err := db.InsertEvent("s1", ev); err != nil {
		t.Fatalf("InsertEvent() error: %v", err)
	}

	got, err := db.Events("s1")
	if err != nil {
		t.Fatalf("Events() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Events() returned %d, want 1", len(got))
	}
	if got[0].Beverage != "latte" || got[0].Amount != 7 || got[0].Selection != 2 {
		t.Errorf("event = %+v", got[0])
	}
	if got[0].Delta != ev.Delta {
		t.Errorf("Delta = %+v, want %+v", got[0].Delta, ev.Delta)
	}
	if got[0].Ledger != ev.Ledger {
		t.Errorf("Ledger = %+v, want %+v", got[0].Ledger, ev.Ledger)
	}
	if !got[0].Timestamp.Equal(at) {
		t.Errorf("Timestamp = %v, want %v", got[0].Timestamp, at)
	}
}

func TestEvents_SessionIsolation(t *testing.T) {
	db := newTestDB(t)
	db.InsertEvent("a", domain.Event{Kind: domain.EventRefill})
	db.InsertEvent("b", domain.Event{Kind: domain.EventPayout, Amount: 10})
	db.InsertEvent("a", domain.Event{Kind: domain.EventShortage, Resource: domain.ResourceMilk})

	got, err := db.Events("a")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Events(a) = %d, want 2", len(got))
	}
	if got[0].Kind != domain.EventRefill || got[1].Kind != domain.EventShortage {
		t.Errorf("order = %s, %s", got[0].Kind, got[1].Kind)
	}
	if got[1].Resource != domain.ResourceMilk {
		t.Errorf("Resource = %q, want milk", got[1].Resource)
	}
}

func TestSessionTotals(t *testing.T) {
	db := newTestDB(t)
	events := []domain.Event{
		{Kind: domain.EventSale, Amount: 4},
		{Kind: domain.EventSale, Amount: 7},
		{Kind: domain.EventShortage},
		{Kind: domain.EventRefill},
		{Kind: domain.EventPayout, Amount: 561},
	}
	for _, ev := range events {
		if err := db.InsertEvent("s", ev); err != nil {
			t.Fatal(err)
		}
	}

	got, err := db.SessionTotals("s")
	if err != nil {
		t.Fatalf("SessionTotals() error: %v", err)
	}
	want := Totals{Sales: 2, Revenue: 11, Shortages: 1, Refills: 1, PaidOut: 561}
	if got != want {
		t.Errorf("SessionTotals() = %+v, want %+v", got, want)
	}

	empty, err := db.SessionTotals("nobody")
	if err != nil {
		t.Fatal(err)
	}
	if empty != (Totals{}) {
		t.Errorf("empty totals = %+v", empty)
	}
}

// ─── Journal Sink ───────────────────────────────────────────────────────────

func TestJournal_SkipsCommandsAndReports(t *testing.T) {
	db := newTestDB(t)
	j := db.Journal("s")

	for _, ev := range []domain.Event{
		{Kind: domain.EventCommand, Command: "buy"},
		{Kind: domain.EventSale, Amount: 4},
		{Kind: domain.EventReport},
		{Kind: domain.EventRejected, Selection: 9},
	} {
		if err := j.Record(ev); err != nil {
			t.Fatalf("Record(%s) error: %v", ev.Kind, err)
		}
	}

	got, err := db.Events("s")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("journaled %d events, want 2", len(got))
	}
	if got[1].Kind != domain.EventRejected || got[1].Selection != 9 {
		t.Errorf("second event = %+v", got[1])
	}
}

func TestJournal_Closed(t *testing.T) {
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}

	err = db.Journal("s").Record(domain.Event{Kind: domain.EventSale})
	if !errors.Is(err, domain.ErrJournalClosed) {
		t.Errorf("Record after Close error = %v, want ErrJournalClosed", err)
	}
	if err := db.StartSession("s", domain.Resources{}); !errors.Is(err, domain.ErrJournalClosed) {
		t.Errorf("StartSession after Close error = %v, want ErrJournalClosed", err)
	}
}
