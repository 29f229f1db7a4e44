package idpool

import "iter"

// Pool hands out small integer identifiers for live items and keeps the
// live items in the contiguous slot range [0, Len()). Callers store their
// own data in parallel slices indexed by slot and use the values returned by
// Add and Remove to keep those slices in step with the pool.
//
// Identifiers and slots share one index space. offsets[x] is a signed delta
// such that x+offsets[x] is both the slot of identifier x and the identifier
// at slot x: the mapping is an involution made of disjoint pairs. Every pair
// (a, b) with a < b straddles the live boundary, a < Len() <= b.
//
// Pool is not safe for concurrent use.
type Pool struct {
	offsets []int
	size    int
}

type Option func(p *Pool)

// Reserves backing storage for at least n entries, rounded up to a power
// of 2. Cap() is not affected.
func WithCapacity(n int) Option {
	return func(p *Pool) {
		if n <= cap(p.offsets) {
			return
		}

		offsets := make([]int, len(p.offsets), NextPowerOf2(uint32(n)))
		copy(offsets, p.offsets)
		p.offsets = offsets
	}
}

// Returns a new empty pool. The zero Pool is ready to use as well.
func New(opts ...Option) *Pool {
	var p Pool
	for _, opt := range opts {
		opt(&p)
	}

	return &p
}

// Number of live items.
func (p *Pool) Len() int {
	return p.size
}

// Length of the offset table, live and dead entries together.
func (p *Pool) Cap() int {
	return len(p.offsets)
}

// Add allocates a new live identifier.
//
// The new item gets identifier id and lives at slot id. If moved differs
// from id, the live item that occupied slot id has been relocated to slot
// moved, and the caller must move its payload from id to moved before
// writing the new item at id. Add never fails; it grows the table by one
// entry when there is no dead entry to reuse.
func (p *Pool) Add() (id, moved int) {
	n := p.size
	if n == len(p.offsets) {
		p.offsets = append(p.offsets, 0)
	}

	m := p.resolve(n)
	p.unpair(n)
	p.size++

	return m, n
}

// Remove marks id dead and keeps the live slots contiguous.
//
// removed is the slot the item was found at, replacement is the former last
// live slot whose item now lives at removed. The caller must move its
// payload from replacement to removed and truncate to Len(). Both values
// are equal when the removed item was the last live one.
//
// Returns an OutOfRangeError if id is outside the table or not live.
func (p *Pool) Remove(id int) (removed, replacement int, err error) {
	if !p.Alive(id) {
		return 0, 0, p.outOfRange(id)
	}

	m := p.resolve(id)
	n := p.size - 1
	r := p.resolve(n)

	p.unpair(m)
	p.unpair(n)
	p.size--

	// r is the identifier of the last live item, it takes over slot m.
	// id ends up unpaired on a dead position or paired with n.
	if m != n {
		p.pair(m, r)
	}

	return m, n, nil
}

// Lookup returns the slot identifier id currently resolves to. Dead
// identifiers resolve to a slot at or above Len().
func (p *Pool) Lookup(id int) (int, error) {
	if id < 0 || id >= len(p.offsets) {
		return 0, p.outOfRange(id)
	}

	return p.resolve(id), nil
}

// ID returns the identifier occupying slot.
func (p *Pool) ID(slot int) (int, error) {
	if slot < 0 || slot >= len(p.offsets) {
		return 0, p.outOfRange(slot)
	}

	return p.resolve(slot), nil
}

// Checks whether id names a live item.
func (p *Pool) Alive(id int) bool {
	return id >= 0 && id < len(p.offsets) && p.resolve(id) < p.size
}

// All yields (slot, id) for every live item in slot order.
// The pool must not be modified while iterating.
func (p *Pool) All() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for slot := range p.size {
			if !yield(slot, p.resolve(slot)) {
				return
			}
		}
	}
}

// Reset marks every identifier dead. The table keeps its length.
func (p *Pool) Reset() {
	clear(p.offsets)
	p.size = 0
}

func (p *Pool) resolve(x int) int {
	return x + p.offsets[x]
}

// pair links two unpaired positions so that each resolves to the other.
func (p *Pool) pair(a, b int) {
	p.offsets[a] = b - a
	p.offsets[b] = a - b
}

// unpair dissolves the pairing x takes part in, if any.
func (p *Pool) unpair(x int) {
	y := p.resolve(x)
	p.offsets[x] = 0
	p.offsets[y] = 0
}

func (p *Pool) outOfRange(id int) error {
	return OutOfRangeError{ID: id, Cap: len(p.offsets), Len: p.size}
}
