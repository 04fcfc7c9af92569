package errclass

// ring is a fixed-capacity buffer retaining the most recent records.
// Once full, each Add overwrites the oldest entry.
type ring struct {
	records []Record
	next    int
	full    bool
}

func newRing(capacity int) *ring {
	if capacity < 1 {
		capacity = 1
	}
	return &ring{
		records: make([]Record, capacity),
	}
}

func (r *ring) Add(rec Record) {
	r.records[r.next] = rec
	r.next++
	if r.next == len(r.records) {
		r.next = 0
		r.full = true
	}
}

func (r *ring) Len() int {
	if r.full {
		return len(r.records)
	}
	return r.next
}

func (r *ring) Cap() int {
	return len(r.records)
}

// Items returns retained records oldest first.
func (r *ring) Items() []Record {
	if !r.full {
		out := make([]Record, r.next)
		copy(out, r.records[:r.next])
		return out
	}
	out := make([]Record, 0, len(r.records))
	out = append(out, r.records[r.next:]...)
	out = append(out, r.records[:r.next]...)
	return out
}
