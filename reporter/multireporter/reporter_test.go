package multireporter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/context"

	"github.com/vijayswarnkar21/quatjenkinsplugin/client"
	"github.com/vijayswarnkar21/quatjenkinsplugin/client/reporter"
)

type recordingReporter struct {
	name     string
	err      error
	calls    *[]string
	initted  bool
	shutdown bool
}

func (r *recordingReporter) Init(_ *client.Config) { r.initted = true }
func (r *recordingReporter) Report(_ context.Context, b *client.Build, _ *client.Log) error {
	*r.calls = append(*r.calls, r.name+":"+b.ID)
	return r.err
}
func (r *recordingReporter) Shutdown() { r.shutdown = true }

func TestReportRunsAllAndReturnsFirstError(t *testing.T) {
	var calls []string
	first := &recordingReporter{name: "first", err: errors.New("first failed"), calls: &calls}
	second := &recordingReporter{name: "second", err: errors.New("second failed"), calls: &calls}
	third := &recordingReporter{name: "third", calls: &calls}
	r := &Reporter{reporters: []reporter.Reporter{first, second, third}}

	var console bytes.Buffer
	err := r.Report(context.Background(), &client.Build{ID: "7"}, client.NewLog(&console))

	assert.EqualError(t, err, "first failed")
	assert.Equal(t, []string{"first:7", "second:7", "third:7"}, calls)

	r.Shutdown()
	assert.True(t, first.shutdown && second.shutdown && third.shutdown)
}

func TestInitSkipsUnknownDestinations(t *testing.T) {
	var calls []string
	rec := &recordingReporter{name: "rec", calls: &calls}
	assert.NoError(t, reporter.Register("multireporter-test-rec", func() reporter.Reporter { return rec }))

	r := &Reporter{destinations: "nope:multireporter-test-rec::multireporter"}
	r.Init(&client.Config{})

	assert.Len(t, r.reporters, 1)
	assert.True(t, rec.initted)
}
