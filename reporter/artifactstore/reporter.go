package artifactstorereporter

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/dustin/go-humanize"
	"golang.org/x/net/context"

	"github.com/vijayswarnkar21/quatjenkinsplugin/client"
	"github.com/vijayswarnkar21/quatjenkinsplugin/client/reporter"
	"github.com/vijayswarnkar21/quatjenkinsplugin/common/atomicflag"
	"github.com/vijayswarnkar21/quatjenkinsplugin/common/scopedlogger"
	"github.com/vijayswarnkar21/quatjenkinsplugin/common/sentry"
)

var (
	// S3 bucket build logs and test reports are archived in. The reporter
	// is disabled when blank.
	artifactBucket string

	// Key prefix inside the bucket.
	artifactPrefix string

	artifactRegion string

	// Optional S3-compatible endpoint, addressed path-style.
	artifactEndpoint string

	// Overrides the default AWS credential chain; only set by tests.
	staticCredentials *credentials.Credentials
)

const DefaultDeadline time.Duration = 30 * time.Second

var storeLog = scopedlogger.ScopedLogger{Scope: "artifactstore"}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Reporter archives the build log and the test report of every build in an
// S3 bucket, alongside what is sent to Quat. It never fails a report: errors
// are logged and sent to Sentry, and an operation that overruns its deadline
// disables the reporter for the rest of the run.
type Reporter struct {
	uploader  *s3manager.Uploader
	bucket    string
	prefix    string
	workspace string
	disabled  atomicflag.AtomicFlag
	deadline  time.Duration
}

// markDeadlineExceeded disables the reporter and reports whether this call
// was the one that did it.
func (r *Reporter) markDeadlineExceeded() bool {
	return r.disabled.SetOnce()
}

func (r *Reporter) isDisabled() bool {
	return r.disabled.Get()
}

func (r *Reporter) Init(c *client.Config) {
	if artifactBucket == "" {
		storeLog.Printf("No artifact bucket provided. Disabling reporter.")
		return
	}

	cfg := aws.NewConfig().WithRegion(artifactRegion)
	if artifactEndpoint != "" {
		cfg = cfg.WithEndpoint(artifactEndpoint).WithS3ForcePathStyle(true)
	}
	if staticCredentials != nil {
		cfg = cfg.WithCredentials(staticCredentials)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		sentry.Error(err, map[string]string{})
		storeLog.Printf("Error setting up S3 session: %s", err)
		return
	}

	storeLog.Printf("Archiving builds to s3://%s/%s", artifactBucket, artifactPrefix)
	r.uploader = s3manager.NewUploader(sess)
	r.bucket = artifactBucket
	r.prefix = strings.Trim(artifactPrefix, "/")
	r.workspace = c.Workspace
}

// keyFor returns the object key of a build file:
// <prefix>/<project>/<submission id>/<file name>, with unsafe characters
// replaced.
func (r *Reporter) keyFor(build *client.Build, path string) string {
	var parts []string
	if r.prefix != "" {
		parts = append(parts, r.prefix)
	}
	if build.Project != "" {
		parts = append(parts, unsafeKeyChars.ReplaceAllString(build.Project, "_"))
	}
	parts = append(parts,
		unsafeKeyChars.ReplaceAllString(build.SubmissionID(), "_"),
		filepath.Base(path))
	return strings.Join(parts, "/")
}

func (r *Reporter) Report(ctx context.Context, build *client.Build, console *client.Log) error {
	if r.uploader == nil {
		return nil
	}
	r.runWithDeadline(ctx, r.deadline, func(ctx context.Context) {
		r.archive(ctx, build.LogPath, r.keyFor(build, build.LogPath), console)

		if !build.HasReport() {
			return
		}
		path, err := client.ResolveReportPath(r.workspace, build.ReportPath)
		if err != nil {
			storeLog.Printf("Not archiving test report: %s", err)
			return
		}
		r.archive(ctx, path, r.keyFor(build, path), console)
	})
	return nil
}

func (r *Reporter) archive(ctx context.Context, path, key string, console *client.Log) {
	f, err := os.Open(path)
	if err != nil {
		console.Printf("[artifactstore] Error opening %s for archiving: %s", path, err)
		return
	}
	defer f.Close()

	var size uint64
	if fi, err := f.Stat(); err == nil {
		size = uint64(fi.Size())
	}

	out, err := r.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		sentry.Error(err, map[string]string{"key": key})
		console.Printf("[artifactstore] Error archiving %s: %s", path, err)
		return
	}
	console.Printf("[artifactstore] Archived %s (%s) to %s", path, humanize.Bytes(size), out.Location)
}

func (r *Reporter) Shutdown() {
	storeLog.Printf("Shutdown complete")
}

// runWithDeadline runs f, giving up after t. The context handed to f is
// cancelled at that point so in-flight uploads stop.
func (r *Reporter) runWithDeadline(parent context.Context, t time.Duration, f func(context.Context)) {
	if r.isDisabled() {
		storeLog.Println("Reporter is disabled. Not calling method")
		return
	}

	ctx, cancel := context.WithTimeout(parent, t)
	defer cancel()

	done := make(chan struct{})
	go func() {
		f(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		if r.markDeadlineExceeded() {
			sentry.Error(fmt.Errorf("Timed out after %s", t), map[string]string{})
		}
	}
}

func New() reporter.Reporter {
	return &Reporter{deadline: DefaultDeadline}
}

func init() {
	reporter.Register("artifactstore", New)
	flag.StringVar(&artifactBucket, "artifacts-bucket", "", "S3 bucket to archive build logs and test reports in. If blank, this reporter is disabled.")
	flag.StringVar(&artifactPrefix, "artifacts-prefix", "quat", "Key prefix inside the artifacts bucket")
	flag.StringVar(&artifactRegion, "artifacts-region", "us-west-2", "AWS region of the artifacts bucket")
	flag.StringVar(&artifactEndpoint, "artifacts-endpoint", "", "S3-compatible endpoint for the artifacts bucket")
}
