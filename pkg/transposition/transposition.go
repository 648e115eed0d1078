package transposition

import (
	dragon "github.com/dylhunn/dragontoothmg"
)

// Bound describes what a stored score proves about the true value
type Bound uint8

const (
	BoundNone  Bound = iota
	BoundExact       // score is the true value
	BoundLower       // fail-high, score is a proven minimum
	BoundUpper       // fail-low, score is a proven maximum
)

// Entry is one transposition table slot. Eval caches the static
// evaluation separately from the search score.
type Entry struct {
	Key   uint64
	Move  dragon.Move
	Score int16
	Eval  int16
	Depth int8
	Bound Bound
	Age   uint8
}

// Table is a fixed-size hash-indexed cache of search results. The search
// owns a single writer at a time, so no locking happens here; sharing the
// table across concurrently running searches would need one.
type Table struct {
	entries []Entry
	mask    uint64
	age     uint8
}

const entrySize = 24 // bytes per Entry, padded

// New allocates a table of roughly sizeMB megabytes, rounded down to a
// power of two entries
func New(sizeMB int) *Table {
	n := uint64(sizeMB) * 1024 * 1024 / entrySize
	n = previousPowerOfTwo(n)
	if n < 1024 {
		n = 1024
	}
	return &Table{entries: make([]Entry, n), mask: n - 1}
}

// Probe looks up the position hash and reports whether a usable entry
// was found
func (t *Table) Probe(hash uint64) (Entry, bool) {
	entry := t.entries[hash&t.mask]
	if entry.Bound != BoundNone && entry.Key == hash {
		return entry, true
	}
	return Entry{}, false
}

// Store writes an entry for the position hash. Slots survive only
// against shallower results for the same position from the current
// search generation.
func (t *Table) Store(hash uint64, depth int8, bound Bound, move dragon.Move, eval, score int16) {
	slot := &t.entries[hash&t.mask]
	if slot.Bound != BoundNone && slot.Age == t.age && slot.Key == hash && depth < slot.Depth {
		return
	}
	*slot = Entry{
		Key:   hash,
		Move:  move,
		Score: score,
		Eval:  eval,
		Depth: depth,
		Bound: bound,
		Age:   t.age,
	}
}

// NextSearch ages the table at the start of a new search so stale slots
// lose their replacement priority
func (t *Table) NextSearch() {
	t.age++
}

// Clear erases every entry
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
	t.age = 0
}

// Hashfull estimates the fill fraction in parts per thousand, sampled
// over the first slots the way UCI engines report it
func (t *Table) Hashfull() int {
	sample := 1000
	if len(t.entries) < sample {
		sample = len(t.entries)
	}
	used := 0
	for i := 0; i < sample; i++ {
		if t.entries[i].Bound != BoundNone && t.entries[i].Age == t.age {
			used++
		}
	}
	return used * 1000 / sample
}

// Size returns the number of slots
func (t *Table) Size() int {
	return len(t.entries)
}

func previousPowerOfTwo(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}
