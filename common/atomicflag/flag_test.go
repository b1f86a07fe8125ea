package atomicflag

import (
	"sync"
	"testing"
)

func TestInitialValue(t *testing.T) {
	x := &AtomicFlag{}

	if x.Get() {
		t.Error("Initial value of flag should be false")
	}
}

func TestSetRoundTrip(t *testing.T) {
	x := &AtomicFlag{}

	x.Set(true)
	if !x.Get() {
		t.Error("Value after setting true should be true")
	}

	x.Set(false)
	if x.Get() {
		t.Error("Value after setting false should be false")
	}
}

func TestSetOnceWinsExactlyOnce(t *testing.T) {
	x := &AtomicFlag{}
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if x.SetOnce() {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("Expected exactly one SetOnce to win, got %d", wins)
	}
	if !x.Get() {
		t.Error("Flag should be set after SetOnce")
	}
}
