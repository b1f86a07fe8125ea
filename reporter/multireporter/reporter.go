package multireporter

import (
	"flag"
	"strings"

	"golang.org/x/net/context"

	"github.com/vijayswarnkar21/quatjenkinsplugin/client"
	"github.com/vijayswarnkar21/quatjenkinsplugin/client/reporter"
	"github.com/vijayswarnkar21/quatjenkinsplugin/common/scopedlogger"
	"github.com/vijayswarnkar21/quatjenkinsplugin/common/sentry"
)

// Colon-separated list of downstream reporters to send every build to
var reporterDestinations string

var multiLog = scopedlogger.ScopedLogger{Scope: "multireporter"}

// Sends every build to several reporters, e.g. Quat plus the S3 archive.
type Reporter struct {
	destinations string
	reporters    []reporter.Reporter
}

func (r *Reporter) Init(c *client.Config) {
	names := strings.Split(r.destinations, ":")
	for _, name := range names {
		if name == "" || name == "multireporter" {
			continue
		}
		newRep, err := reporter.Create(name)
		if err != nil {
			sentry.Error(err, map[string]string{})
			// Allow other reporters to proceed
			continue
		}
		multiLog.Printf("Initialization successful: %s", name)
		newRep.Init(c)
		r.reporters = append(r.reporters, newRep)
	}
	multiLog.Printf("Reporting to: %s", names)
}

// Report runs every destination in order, even after one has failed, and
// returns the first error.
func (r *Reporter) Report(ctx context.Context, build *client.Build, console *client.Log) error {
	var firstError error
	for _, rep := range r.reporters {
		if e := rep.Report(ctx, build, console); e != nil && firstError == nil {
			firstError = e
		}
	}
	return firstError
}

func (r *Reporter) Shutdown() {
	for _, rep := range r.reporters {
		rep.Shutdown()
	}
}

func New() reporter.Reporter {
	return &Reporter{destinations: reporterDestinations}
}

func init() {
	flag.StringVar(&reporterDestinations, "reporter-destinations", "quat:artifactstore", "Colon-separated list of reporter destinations")

	reporter.Register("multireporter", New)
}
