package domain

import "time"

// ─── Machine Events ─────────────────────────────────────────────────────────
// Events describe what the interpreter did. They are produced by the
// interpreter and consumed by journals, metrics and logs.

// EventKind classifies a machine event.
type EventKind string

const (
	EventCommand  EventKind = "COMMAND"  // top-level keyword accepted at the main menu
	EventSale     EventKind = "SALE"     // beverage brewed and paid
	EventShortage EventKind = "SHORTAGE" // purchase refused, ledger untouched
	EventRejected EventKind = "REJECTED" // selection outside the catalog
	EventRefill   EventKind = "REFILL"   // fill delta applied
	EventPayout   EventKind = "PAYOUT"   // cash box emptied
	EventReport   EventKind = "REPORT"   // remaining stock printed
)

// Event is a single observable step of the interpreter.
// Ledger always holds the ledger after the event took effect.
type Event struct {
	Kind      EventKind `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command,omitempty"`
	Beverage  string    `json:"beverage,omitempty"`
	Resource  Resource  `json:"resource,omitempty"`
	Selection int       `json:"selection,omitempty"` // 1-based, as typed
	Amount    int       `json:"amount,omitempty"`    // price for sales, cash for payouts
	Delta     Resources `json:"delta"`
	Ledger    Resources `json:"ledger"`
}
