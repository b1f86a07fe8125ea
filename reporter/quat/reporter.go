package quatreporter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/context"

	"github.com/vijayswarnkar21/quatjenkinsplugin/client"
	"github.com/vijayswarnkar21/quatjenkinsplugin/client/reporter"
	"github.com/vijayswarnkar21/quatjenkinsplugin/common/scopedlogger"
	"github.com/vijayswarnkar21/quatjenkinsplugin/common/sentry"
	"github.com/vijayswarnkar21/quatjenkinsplugin/common/taggederr"
)

const DisplayName = "Quat Build"

// Printed ahead of the server's explanation when an upload is rejected.
const serverErrorBanner = "There was an error while running quat post build plugin"

var (
	quatLog   = scopedlogger.ScopedLogger{Scope: "quat"}
	reportLog = quatLog.Sub("testreport")
)

// BuildSubmission is what the build ingestion endpoint receives.
type BuildSubmission struct {
	BuildID      string
	BuildLogPath string
	Status       client.BuildStatus
	Project      string
}

// TestReportSubmission is what the test report endpoint receives. It can
// only be sent once the build endpoint has assigned an id.
type TestReportSubmission struct {
	ReportFilePath string
	ExecutionType  string
	Project        string
}

func (s TestReportSubmission) ready() bool {
	return strings.TrimSpace(s.ReportFilePath) != "" && strings.TrimSpace(s.ExecutionType) != ""
}

// Reporter uploads a build to the Quat reporting service in two stages:
// the build log first, then, when one is configured, the test report tagged
// with the build id Quat assigned in the first stage.
//
// Everything is synchronous and there are no retries; a failed stage stops
// the sequence.
type Reporter struct {
	config     *client.Config
	httpClient *http.Client
	requestID  string
}

func (r *Reporter) Init(c *client.Config) {
	quatLog.Printf("Construct reporter with build endpoint: %s", c.BuildEndpoint)
	r.config = c
	r.httpClient = &http.Client{Timeout: c.HTTPTimeout}
	r.requestID = uuid.New().String()
}

// ReportBuild uploads the build log and returns the build id assigned by
// the service.
func (r *Reporter) ReportBuild(ctx context.Context, s BuildSubmission) (int, error) {
	uri := r.config.BuildEndpoint
	if uri == "" {
		return 0, fmt.Errorf("no build endpoint configured")
	}
	if s.BuildLogPath == "" {
		return 0, fmt.Errorf("no build log to upload for %s", s.BuildID)
	}

	file, fields := r.buildForm(s)
	resp, err := httpPost(ctx, r.httpClient, uri, r.requestID, file, fields)
	if err != nil {
		return 0, err
	}
	if err := checkResult(uri, resp); err != nil {
		return 0, err
	}
	return parseAssignedID(resp.Body)
}

// ReportTestReport uploads the test report for a build already known to
// the service. It does nothing when the report path or the execution type
// is blank.
func (r *Reporter) ReportTestReport(ctx context.Context, assignedID int, s TestReportSubmission) error {
	if !s.ready() {
		reportLog.Printf("Upload skipped for build %d", assignedID)
		return nil
	}
	uri := r.config.TestReportEndpoint
	if uri == "" {
		return fmt.Errorf("no test report endpoint configured")
	}

	file, fields := r.reportForm(assignedID, s)
	resp, err := httpPost(ctx, r.httpClient, uri, r.requestID, file, fields)
	if err != nil {
		return err
	}
	return checkResult(uri, resp)
}

func (r *Reporter) buildForm(s BuildSubmission) (filePart, []field) {
	return filePart{"buildLogFile", s.BuildLogPath}, []field{
		{"buildId", s.BuildID},
		{"buildStatus", s.Status.String()},
		{"project", s.Project},
		{"token", r.config.Token},
	}
}

func (r *Reporter) reportForm(assignedID int, s TestReportSubmission) (filePart, []field) {
	return filePart{"reportfile", s.ReportFilePath}, []field{
		{"buildId", strconv.Itoa(assignedID)},
		{"executionTitle", s.ExecutionType},
		{"token", r.config.Token},
		{"project", s.Project},
	}
}

// describeForm renders a form the way debug mode prints it. The token is
// masked.
func describeForm(uri string, file filePart, fields []field) string {
	parts := []string{"POST " + uri, file.field + "=@" + file.path}
	for _, f := range fields {
		v := f.value
		if f.name == "token" && v != "" {
			v = "****"
		}
		parts = append(parts, fmt.Sprintf("%s=%q", f.name, v))
	}
	return strings.Join(parts, " ")
}

// checkResult turns an HTTP error status into a *ServerError carrying the
// response body.
func checkResult(uri string, resp *response) error {
	if resp.StatusCode < 400 {
		return nil
	}
	body := string(resp.Body)
	quatLog.Printf("POST %s failed, resp: %s, body: %s", uri, resp.Status, truncate(body))
	return &ServerError{URI: uri, StatusCode: resp.StatusCode, Body: body}
}

func parseAssignedID(body []byte) (int, error) {
	var payload struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, &ParseError{Body: string(body), Reason: err.Error()}
	}
	if len(payload.Result) == 0 || string(payload.Result) == "null" {
		return 0, &ParseError{Body: string(body), Reason: "no result field"}
	}

	raw := string(payload.Result)
	var s string
	if json.Unmarshal(payload.Result, &s) == nil {
		raw = strings.TrimSpace(s)
	}
	if raw == "" || raw[0] < '0' || raw[0] > '9' {
		return 0, &ParseError{Body: string(body), Reason: "result is not an integer"}
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ParseError{Body: string(body), Reason: "result is not an integer"}
	}
	if id < 1 {
		return 0, &ParseError{Body: string(body), Reason: "result is not a valid build id"}
	}
	return id, nil
}

// Report runs the whole notification for one build and writes the outcome
// to console. Any failure, including a panic, ends the sequence and is
// returned; a report file without an execution type is only a notice.
func (r *Reporter) Report(ctx context.Context, build *client.Build, console *client.Log) (err error) {
	stage := "build"
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%v", p)
			r.fail(console, stage, err)
		}
	}()

	if r.config.Debug {
		r.debugReport(build, console)
		return nil
	}

	assignedID, err := r.ReportBuild(ctx, BuildSubmission{
		BuildID:      build.SubmissionID(),
		BuildLogPath: build.LogPath,
		Status:       build.Status(),
		Project:      build.Project,
	})
	if err != nil {
		r.fail(console, stage, err)
		return err
	}
	console.Printf("[%s] Build %s reported as %s, assigned id %d",
		DisplayName, build.SubmissionID(), build.Status(), assignedID)

	if !build.HasReport() {
		return nil
	}
	if !build.HasExecutionType() {
		console.Printf("[%s] Test report %s not uploaded: no execution type configured",
			DisplayName, strings.TrimSpace(build.ReportPath))
		return nil
	}

	stage = "testreport"
	path, err := client.ResolveReportPath(r.config.Workspace, build.ReportPath)
	if err != nil {
		r.fail(console, stage, err)
		return err
	}
	err = r.ReportTestReport(ctx, assignedID, TestReportSubmission{
		ReportFilePath: path,
		ExecutionType:  build.ExecutionType,
		Project:        build.Project,
	})
	if err != nil {
		r.fail(console, stage, err)
		return err
	}
	console.Printf("[%s] Test report %s uploaded as %q", DisplayName, path, build.ExecutionType)
	return nil
}

// debugReport prints the uploads Report would make without sending them.
func (r *Reporter) debugReport(build *client.Build, console *client.Log) {
	console.Printf("[%s] debug mode, not uploading %s (%s) for project %s",
		DisplayName, build.SubmissionID(), build.Status(), build.Project)
	file, fields := r.buildForm(BuildSubmission{
		BuildID:      build.SubmissionID(),
		BuildLogPath: build.LogPath,
		Status:       build.Status(),
		Project:      build.Project,
	})
	console.Printf("[%s] %s", DisplayName, describeForm(r.config.BuildEndpoint, file, fields))
	if !build.HasReport() || !build.HasExecutionType() {
		return
	}
	file, fields = r.reportForm(0, TestReportSubmission{
		ReportFilePath: strings.TrimSpace(build.ReportPath),
		ExecutionType:  build.ExecutionType,
		Project:        build.Project,
	})
	// The real build id is only known after the first upload.
	console.Printf("[%s] %s", DisplayName, describeForm(r.config.TestReportEndpoint, file, fields))
}

func (r *Reporter) fail(console *client.Log, stage string, err error) {
	if _, ok := err.(*ServerError); ok {
		console.Writeln(serverErrorBanner)
	}
	console.Writeln(err.Error())
	sentry.Error(taggederr.Wrap(err).
		AddTag("stage", stage).
		AddTag("request_id", r.requestID), map[string]string{})
}

func (r *Reporter) Shutdown() {
	quatLog.Printf("Shutdown complete")
}

func New() reporter.Reporter {
	return &Reporter{}
}

var _ reporter.Reporter = (*Reporter)(nil)

func init() {
	reporter.Register("quat", New)
}
