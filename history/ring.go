package history

// DefaultCapacity is the maximum number of operations NewHistoryBuffer
// retains regardless of memory pressure, unless the caller configures a
// different value.
const DefaultCapacity = 500

// DefaultMemoryBudget bounds the combined compressed size of every entry
// NewHistoryBuffer's buffer holds, in bytes, unless the caller configures
// a different value. Once exceeded, the oldest entries are evicted until
// the buffer is back under budget.
const DefaultMemoryBudget = 256 * 1024 * 1024

// HistoryBuffer is a fixed-capacity, fixed-budget undo/redo stack: a plain
// slice acting as a cursor-addressed ring, not a circular index buffer,
// since eviction from the front (oldest) needs to coexist with truncation
// from the cursor (redo-branch discarding) — both are amortized-cheap on
// a slice for the sizes this buffer ever reaches (at most a few hundred
// entries in practice).
type HistoryBuffer struct {
	entries  []*HistoryEntry
	cursor   int // index of the next redo; entries[:cursor] are undoable
	memory   int
	capacity int
	budget   int
}

// NewHistoryBuffer returns an empty buffer using the default capacity and
// memory budget (§4.6).
func NewHistoryBuffer() *HistoryBuffer {
	return NewHistoryBufferWithLimits(DefaultCapacity, DefaultMemoryBudget)
}

// NewHistoryBufferWithLimits returns an empty buffer configured with an
// explicit capacity (max retained operations) and byte budget (max
// combined compressed footprint), per spec §4.6's "configured byte
// budget" and Scenario S5 ("capacity=10 and byte-budget=1024").
func NewHistoryBufferWithLimits(capacity, budget int) *HistoryBuffer {
	return &HistoryBuffer{capacity: capacity, budget: budget}
}

// Push appends a new operation, discarding any redo branch beyond the
// current cursor, then enforces both the capacity and memory budget by
// evicting from the front.
func (b *HistoryBuffer) Push(e *HistoryEntry) {
	for _, discarded := range b.entries[b.cursor:] {
		b.memory -= discarded.Memsize()
	}
	b.entries = append(b.entries[:b.cursor], e)
	b.cursor = len(b.entries)
	b.memory += e.Memsize()
	b.evict()
}

func (b *HistoryBuffer) evict() {
	for len(b.entries) > b.capacity || (b.memory > b.budget && len(b.entries) > 0) {
		dropped := b.entries[0]
		b.entries = b.entries[1:]
		b.cursor--
		if b.cursor < 0 {
			b.cursor = 0
		}
		b.memory -= dropped.Memsize()
	}
}

// CanUndo reports whether there is an operation to move back through.
func (b *HistoryBuffer) CanUndo() bool { return b.cursor > 0 }

// CanRedo reports whether there is an operation to move forward through.
func (b *HistoryBuffer) CanRedo() bool { return b.cursor < len(b.entries) }

// MoveBack returns the entry to undo and decrements the cursor. Callers
// must check CanUndo first.
func (b *HistoryBuffer) MoveBack() *HistoryEntry {
	b.cursor--
	return b.entries[b.cursor]
}

// MoveForward returns the entry to redo and increments the cursor.
// Callers must check CanRedo first.
func (b *HistoryBuffer) MoveForward() *HistoryEntry {
	e := b.entries[b.cursor]
	b.cursor++
	return e
}

// EntryCount returns the number of entries currently retained, undoable
// and redoable alike (a redo branch discarded by Push is not counted).
func (b *HistoryBuffer) EntryCount() int { return len(b.entries) }

// Memsize returns the buffer's current total compressed footprint.
func (b *HistoryBuffer) Memsize() int { return b.memory }

// Clear empties the buffer entirely.
func (b *HistoryBuffer) Clear() {
	b.entries = nil
	b.cursor = 0
	b.memory = 0
}
