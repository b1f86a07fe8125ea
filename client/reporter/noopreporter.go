package reporter

import (
	"golang.org/x/net/context"

	"github.com/vijayswarnkar21/quatjenkinsplugin/client"
)

type NoopReporter struct{}

func (noop *NoopReporter) Init(_ *client.Config) {}
func (noop *NoopReporter) Report(_ context.Context, _ *client.Build, _ *client.Log) error {
	return nil
}
func (noop *NoopReporter) Shutdown() {}

var _ Reporter = (*NoopReporter)(nil)

func init() {
	Register("noop", func() Reporter { return &NoopReporter{} })
}
