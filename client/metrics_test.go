package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := Metrics{}
	assert.True(t, m.Empty())

	m.SetDuration("upload_build", 1500*time.Millisecond)
	m.SetDuration("total", 2*time.Second)

	assert.False(t, m.Empty())
	assert.Equal(t, 1.5, m["upload_build"])
	assert.Equal(t, "total=2.000s upload_build=1.500s", m.String())
}

func TestTimerRecord(t *testing.T) {
	m := Metrics{}
	timer := m.StartTimer()
	dur := timer.Record("total")

	assert.True(t, dur >= 0)
	assert.Contains(t, m, "total")
}
