package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/net/context"

	"github.com/vijayswarnkar21/quatjenkinsplugin/client"
	"github.com/vijayswarnkar21/quatjenkinsplugin/common/sentry"
	"github.com/vijayswarnkar21/quatjenkinsplugin/common/version"
	"github.com/vijayswarnkar21/quatjenkinsplugin/engine"
)

var (
	buildName     string
	buildNumber   string
	buildID       string
	buildResult   string
	buildLog      string
	project       string
	filePath      string
	executionType string
	exitResult    bool
)

func main() {
	showVersion := flag.Bool("version", false, "Prints quat-notifier version")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetVersion())
		return
	}

	defer func() {
		if p := recover(); p != nil {
			sentry.CapturePanic(p)
			panic(p)
		}
	}()
	run()
}

func currentBuild() *client.Build {
	id := buildID
	if id == "" {
		id = buildNumber
	}
	displayName := buildName
	if displayName != "" && buildNumber != "" {
		displayName = fmt.Sprintf("%s #%s", buildName, buildNumber)
	}
	return &client.Build{
		DisplayName:   displayName,
		ID:            id,
		Result:        client.ParseBuildResult(buildResult),
		LogPath:       buildLog,
		Project:       project,
		ReportPath:    filePath,
		ExecutionType: executionType,
	}
}

func run() {
	config, err := client.GetConfig()
	if err != nil {
		panic(err)
	}

	console := client.NewLog(os.Stdout)
	result, err := engine.RunReport(context.Background(), config, currentBuild(), console)
	log.Printf("[client] Finished: %s", result)
	if err != nil {
		log.Printf("[client] error: %s", err.Error())
	}
	code := exitCode(result, exitResult)
	log.Printf("[client] exit: %d", code)
	if code != 0 {
		os.Exit(code)
	}
}

// exitCode fails the CI step on any failed result unless the caller opted
// out with -exit-result=false.
func exitCode(result engine.Result, fromResult bool) int {
	if fromResult && result.IsFailure() {
		return 1
	}
	return 0
}

func init() {
	flag.StringVar(&buildName, "build-name", os.Getenv("JOB_NAME"), "Name of the job that ran the build")
	flag.StringVar(&buildNumber, "build-number", os.Getenv("BUILD_NUMBER"), "Build number within the job")
	flag.StringVar(&buildID, "build-id", os.Getenv("BUILD_ID"), "Build id; defaults to the build number")
	flag.StringVar(&buildResult, "build-result", "", "Result of the build (SUCCESS, UNSTABLE, FAILURE, ABORTED, NOT_BUILT). Blank while the build is still running")
	flag.StringVar(&buildLog, "build-log", "", "Path to the build log to upload")
	flag.StringVar(&project, "project", "", "Quat project the build belongs to")
	flag.StringVar(&filePath, "file-path", "", "Test report to upload, relative to the workspace; may be a glob")
	flag.StringVar(&executionType, "execution-type", "", "Execution title the test report is filed under")
	flag.BoolVar(&exitResult, "exit-result", true, "Exit 1 when the report fails so the CI step fails; set to false to never fail the build")
}
