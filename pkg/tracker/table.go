package tracker

import (
	"sync"
	"time"
)

// Table holds the latest known state for every tracked ICAO address,
// guarded by a single mutex (spec §5: "the tracker table is shared
// mutable state; every access is serialized").
type Table struct {
	// Adjust rebases the SBS line's own date+time field onto the
	// bridge's clock (spec §4.2). Defaults to time.Now, ignoring the
	// source timestamp, if left nil.
	Adjust func(dateTime string) time.Time

	mu       sync.Mutex
	aircraft map[string]Aircraft
}

// NewTable returns an empty tracker table.
func NewTable() *Table {
	return &Table{aircraft: make(map[string]Aircraft)}
}

// Ingest applies one SBS line to the table and reports the resulting
// record. The returned Aircraft is an immutable snapshot (spec §4.3,
// invariant I2): later calls to Ingest for the same ICAO never mutate
// a record already handed back by a prior call. complete is false,
// and snapshot nil, whenever the merged record still has a field
// missing — such records are tracked but not forwarded downstream
// (spec §3).
func (t *Table) Ingest(line string) (snapshot *Aircraft, complete bool, err error) {
	p, err := parseSBSLine(line)
	if err != nil {
		return nil, false, err
	}

	timestamp := time.Now()
	if t.Adjust != nil {
		timestamp = t.Adjust(p.dateTime)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	prior, ok := t.aircraft[p.icao]
	if !ok {
		prior = Aircraft{ICAO: p.icao}
	}

	next := merge(prior, p, timestamp)
	t.aircraft[p.icao] = next

	if !next.Complete() {
		return nil, false, nil
	}
	out := next
	return &out, true, nil
}

// Len reports the number of distinct ICAO addresses currently tracked.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.aircraft)
}

// Lookup returns a copy of the current record for icao, if any. It
// exists for diagnostics (status endpoint, tests); the bridge's
// forwarding path uses the snapshot returned by Ingest instead.
func (t *Table) Lookup(icao string) (Aircraft, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	a, ok := t.aircraft[icao]
	return a, ok
}
