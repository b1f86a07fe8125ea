package atomicflag

import "sync/atomic"

// AtomicFlag is a boolean that can be flipped by one goroutine while
// others poll it. The zero value is false.
type AtomicFlag struct {
	val atomic.Bool
}

func (af *AtomicFlag) Set(val bool) {
	af.val.Store(val)
}

func (af *AtomicFlag) Get() bool {
	return af.val.Load()
}

// SetOnce sets the flag and reports whether this call was the one that
// flipped it from false to true.
func (af *AtomicFlag) SetOnce() bool {
	return af.val.CompareAndSwap(false, true)
}
