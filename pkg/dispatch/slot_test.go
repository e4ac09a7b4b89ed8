// SPDX-License-Identifier: MIT

package dispatch

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSlotResolvesOnce(t *testing.T) {
	t.Parallel()

	var (
		s     Slot
		calls int
	)
	resolve := func() (Address, error) {
		calls++
		return 99, nil
	}
	if s.Resolved() {
		t.Error("zero-value slot must be unresolved")
	}
	for i := 0; i < 3; i++ {
		addr, err := s.Get(resolve)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if addr != 99 {
			t.Errorf("addr = %d, want 99", addr)
		}
	}
	if calls != 1 {
		t.Errorf("resolver ran %d times, want 1", calls)
	}
	if !s.Resolved() {
		t.Error("slot should be resolved after first Get")
	}
}

func TestSlotRetriesAfterFailure(t *testing.T) {
	t.Parallel()

	var (
		s    Slot
		fail = true
	)
	errNope := errors.New("nope")
	resolve := func() (Address, error) {
		if fail {
			return 0, errNope
		}
		return 5, nil
	}
	if _, err := s.Get(resolve); !errors.Is(err, errNope) {
		t.Fatalf("err = %v, want errNope", err)
	}
	if s.Resolved() {
		t.Error("failed resolution must leave the slot unresolved")
	}
	fail = false
	addr, err := s.Get(resolve)
	if err != nil {
		t.Fatalf("retry Get: %v", err)
	}
	if addr != 5 {
		t.Errorf("addr = %d, want 5", addr)
	}
}

func TestSlotConcurrentConvergence(t *testing.T) {
	t.Parallel()

	var (
		s     Slot
		calls atomic.Int64
		wg    sync.WaitGroup
	)
	resolve := func() (Address, error) {
		calls.Add(1)
		return 1234, nil
	}
	const goroutines = 16
	addrs := make([]Address, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			addr, err := s.Get(resolve)
			if err != nil {
				t.Errorf("Get: %v", err)
				return
			}
			addrs[i] = addr
		}(i)
	}
	wg.Wait()
	for i, a := range addrs {
		if a != 1234 {
			t.Errorf("goroutine %d saw %d, want 1234", i, a)
		}
	}
	// Racing first calls may each run the resolver; all of them must
	// have computed the same address, and the slot must end resolved.
	if calls.Load() < 1 {
		t.Error("resolver never ran")
	}
	if Address(s.addr.Load()) != 1234 {
		t.Errorf("slot holds %d, want 1234", s.addr.Load())
	}
}

func TestTableLifecycle(t *testing.T) {
	t.Parallel()

	tbl := NewTable(3)
	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}
	for i := 0; i < tbl.Len(); i++ {
		if tbl.Slot(i).Resolved() {
			t.Errorf("fresh table slot %d should be unresolved", i)
		}
	}
	addr, err := tbl.Get(1, func() (Address, error) { return 11, nil })
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if addr != 11 {
		t.Errorf("addr = %d, want 11", addr)
	}
	if tbl.Slot(0).Resolved() || !tbl.Slot(1).Resolved() {
		t.Error("resolution must touch only the requested slot")
	}

	tbl.Reset()
	if tbl.Slot(1).Resolved() {
		t.Error("Reset must clear resolved slots")
	}
}
