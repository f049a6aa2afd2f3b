package vault

import "sync/atomic"

// exclusiveBit is the high bit of the counter word. While it is set a single
// exclusive grant is held and the count bits must read zero.
const exclusiveBit uint64 = 1 << 63

// BorrowCounter is a lock-free shared/exclusive grant counter guarding one
// component column within one archetype. The zero value is an unborrowed
// counter.
//
// The word holds the live shared-holder count in the low 63 bits and the
// exclusive flag in the high bit; the flag and a nonzero count are never
// simultaneously observable except transiently inside AcquireShared, which
// backs its increment out before reporting the conflict.
//
// Every operation is a single atomic instruction and returns immediately; a
// denied grant is reported, never queued or retried. Go's sync/atomic
// operations are sequentially consistent, which covers the required
// ordering: everything done under a grant happens after the successful
// acquire and before the matching release, so no access to the guarded
// column can be reordered outside its grant. The cross-goroutine safety of
// Ref and RefMut rests entirely on this.
type BorrowCounter struct {
	state atomic.Uint64
}

// AcquireShared attempts to take a shared grant, reporting false if an
// exclusive grant is currently held. The increment is optimistic: the
// uncontended path is one atomic add, and only a conflict pays for the
// corrective decrement.
func (b *BorrowCounter) AcquireShared() bool {
	v := b.state.Add(1)
	if v == 0 {
		// The count wrapped the entire word. No workload holds 2^63 live
		// grants, so the state is corrupt beyond recovery.
		panic("vault: borrow counter overflow")
	}
	if v&exclusiveBit != 0 {
		b.state.Add(^uint64(0))
		return false
	}
	return true
}

// AcquireExclusive attempts to take the exclusive grant. It succeeds only
// from the unborrowed state: no shared holders, no exclusive holder.
func (b *BorrowCounter) AcquireExclusive() bool {
	return b.state.CompareAndSwap(0, exclusiveBit)
}

// ReleaseShared returns one shared grant. Calling it without a matching
// successful AcquireShared is a caller bug, caught by checked builds.
func (b *BorrowCounter) ReleaseShared() {
	v := b.state.Add(^uint64(0))
	if borrowChecks {
		prev := v + 1
		if prev == 0 {
			panic("vault: unbalanced shared release")
		}
		if prev&exclusiveBit != 0 {
			panic("vault: shared release of exclusive grant")
		}
	}
}

// ReleaseExclusive returns the exclusive grant. Calling it without a
// matching successful AcquireExclusive is a caller bug, caught by checked
// builds.
func (b *BorrowCounter) ReleaseExclusive() {
	v := b.state.And(^exclusiveBit)
	if borrowChecks && v&exclusiveBit == 0 {
		panic("vault: exclusive release of shared grant")
	}
}

// Outstanding reports whether any grant, shared or exclusive, is live.
func (b *BorrowCounter) Outstanding() bool {
	return b.state.Load() != 0
}
