package reporter

import (
	"golang.org/x/net/context"

	"github.com/vijayswarnkar21/quatjenkinsplugin/client"
)

// A Reporter delivers the outcome of a build to some destination.
type Reporter interface {
	// Init is called once, before any Report, with the process config.
	Init(config *client.Config)

	// Report sends the build to the destination. It is synchronous: when
	// it returns, every file it opened has been closed. Messages meant for
	// the user go to console. A non-nil error marks the notification as
	// failed; it has already been written to console.
	Report(ctx context.Context, build *client.Build, console *client.Log) error

	Shutdown()
}
