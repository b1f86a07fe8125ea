package client

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// Metrics records how long the stages of a report took, in seconds.
type Metrics map[string]float64

// Timer measures one stage. See StartTimer and Record.
type Timer struct {
	startTime time.Time
	m         Metrics
}

func (m Metrics) SetDuration(key string, value time.Duration) {
	log.Printf("==> %q = %s", key, value)
	m[key] = value.Seconds()
}

func (m Metrics) Empty() bool {
	return len(m) == 0
}

func (m Metrics) StartTimer() Timer {
	return Timer{time.Now(), m}
}

// Record stores the time elapsed since the timer was started under key.
func (t Timer) Record(key string) time.Duration {
	dur := time.Since(t.startTime)
	t.m.SetDuration(key, dur)
	return dur
}

// String renders the metrics as "key=1.234s" pairs sorted by key.
func (m Metrics) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%.3fs", k, m[k])
	}
	return strings.Join(pairs, " ")
}
