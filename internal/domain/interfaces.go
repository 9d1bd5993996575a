package domain

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; the interpreter depends on them.

// EventSink receives every event the interpreter produces.
// A failing sink must not influence the ledger; callers log and move on.
type EventSink interface {
	Record(ev Event) error
}

// Sinks fans a single event out to several sinks.
type Sinks []EventSink

// Record delivers ev to every sink and returns the first error seen.
func (s Sinks) Record(ev Event) error {
	var first error
	for _, sink := range s {
		if sink == nil {
			continue
		}
		if err := sink.Record(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
