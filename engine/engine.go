package engine

import (
	"log"
	"os"
	"os/signal"

	"golang.org/x/net/context"

	"github.com/vijayswarnkar21/quatjenkinsplugin/client"
	"github.com/vijayswarnkar21/quatjenkinsplugin/client/reporter"
	"github.com/vijayswarnkar21/quatjenkinsplugin/common/sentry"
	"github.com/vijayswarnkar21/quatjenkinsplugin/common/version"

	_ "github.com/vijayswarnkar21/quatjenkinsplugin/reporter/artifactstore"
	_ "github.com/vijayswarnkar21/quatjenkinsplugin/reporter/multireporter"
	_ "github.com/vijayswarnkar21/quatjenkinsplugin/reporter/quat"
)

const (
	RESULT_PASSED  Result = "passed"
	RESULT_FAILED  Result = "failed"
	RESULT_ABORTED Result = "aborted"
	// The build could not be reported at all because the notifier itself
	// is misconfigured.
	RESULT_INFRA_FAILED Result = "infra_failed"
)

type Result string

func (r Result) String() string {
	return string(r)
}

// Convenience method to check for all types of failure.
func (r Result) IsFailure() bool {
	switch r {
	case RESULT_FAILED, RESULT_INFRA_FAILED, RESULT_ABORTED:
		return true
	}
	return false
}

type Engine struct {
	config   *client.Config
	build    *client.Build
	console  *client.Log
	reporter reporter.Reporter
	metrics  client.Metrics
}

// RunReport reports one build with the reporter named in config and returns
// the overall outcome. Errors have already been written to console.
func RunReport(ctx context.Context, config *client.Config, build *client.Build, console *client.Log) (Result, error) {
	if err := config.Validate(); err != nil {
		console.Printf("==> ERROR: %s", err)
		return RESULT_INFRA_FAILED, err
	}

	currentReporter, err := reporter.Create(config.Reporter)
	if err != nil {
		log.Printf("[engine] failed to initialize reporter: %s", config.Reporter)
		console.Printf("==> ERROR: %s", err)
		return RESULT_INFRA_FAILED, err
	}
	currentReporter.Init(config)
	defer currentReporter.Shutdown()

	log.Printf("[engine] started with reporter %s", config.Reporter)

	engine := &Engine{
		config:   config,
		build:    build,
		console:  console,
		reporter: currentReporter,
		metrics:  client.Metrics{},
	}
	return engine.Run(ctx)
}

func (e *Engine) Run(parent context.Context) (Result, error) {
	ctx, cancelFunc := context.WithCancel(parent)
	defer cancelFunc()

	// capture ctrl+c and abandon the upload in progress
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, os.Interrupt)
	defer signal.Stop(sigchan)
	go func() {
		select {
		case <-sigchan:
			log.Printf("[engine] Interrupted! Cancelling report..")
			cancelFunc()
		case <-ctx.Done():
		}
	}()

	log.Printf("[engine] quat-notifier version: %s", version.GetVersion())
	log.Printf("[engine] Reporting %s for project %s as %s",
		e.build.SubmissionID(), e.build.Project, e.build.Status())

	if e.build.HasReport() {
		if v := client.CheckFilePath(e.config.Workspace, e.build.ReportPath); !v.OK() {
			e.console.Printf("==> WARNING: %s", v.Message)
		}
	}

	timer := e.metrics.StartTimer()
	err := e.reporter.Report(ctx, e.build, e.console)
	timer.Record("report")
	if !e.metrics.Empty() {
		log.Printf("[engine] metrics: %s", e.metrics)
	}

	if err != nil {
		if ctx.Err() != nil {
			sentry.Message("Report aborted", map[string]string{
				"build":   e.build.SubmissionID(),
				"project": e.build.Project,
			})
			return RESULT_ABORTED, err
		}
		return RESULT_FAILED, err
	}
	return RESULT_PASSED, nil
}
