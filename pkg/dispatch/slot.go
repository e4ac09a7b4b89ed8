// SPDX-License-Identifier: MIT

package dispatch

import "sync/atomic"

type (
	// Slot is one lazily-resolved dispatch pointer. The zero value is
	// unresolved. Concurrent first calls may both run the resolver; both
	// compute the same address, so whichever store lands last changes
	// nothing. After the first successful Get the resolver is never run
	// for that slot again by the goroutine that observed the store.
	Slot struct {
		addr atomic.Uintptr
	}

	// Table is a block of slots for one context, in fixed function
	// order. A fresh table has every slot unresolved, matching the
	// generated code's template of resolver thunks.
	Table struct {
		slots []Slot
	}
)

// Resolved reports whether the slot already holds an address.
func (s *Slot) Resolved() bool {
	return s.addr.Load() != 0
}

// Get returns the slot's address, running resolve to fill it on first
// use. A failed resolution leaves the slot unresolved, so the next call
// retries.
func (s *Slot) Get(resolve func() (Address, error)) (Address, error) {
	if v := s.addr.Load(); v != 0 {
		return Address(v), nil
	}
	a, err := resolve()
	if err != nil {
		return 0, err
	}
	s.addr.Store(uintptr(a))
	return a, nil
}

// Reset puts the slot back to unresolved, for context changes that
// invalidate previously loaded addresses.
func (s *Slot) Reset() {
	s.addr.Store(0)
}

// NewTable allocates a table of n unresolved slots.
func NewTable(n int) *Table {
	return &Table{slots: make([]Slot, n)}
}

// Len reports the number of slots.
func (t *Table) Len() int {
	return len(t.slots)
}

// Slot exposes the i-th slot.
func (t *Table) Slot(i int) *Slot {
	return &t.slots[i]
}

// Get resolves the i-th slot through resolve on first use.
func (t *Table) Get(i int, resolve func() (Address, error)) (Address, error) {
	return t.slots[i].Get(resolve)
}

// Reset marks every slot unresolved.
func (t *Table) Reset() {
	for i := range t.slots {
		t.slots[i].Reset()
	}
}
