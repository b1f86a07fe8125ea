package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vijayswarnkar21/quatjenkinsplugin/common/glob"
)

// BuildResult is the outcome the CI server recorded for a build. A nil
// *BuildResult means the build has not finished.
type BuildResult string

const (
	RESULT_SUCCESS   BuildResult = "SUCCESS"
	RESULT_UNSTABLE  BuildResult = "UNSTABLE"
	RESULT_FAILURE   BuildResult = "FAILURE"
	RESULT_ABORTED   BuildResult = "ABORTED"
	RESULT_NOT_BUILT BuildResult = "NOT_BUILT"
)

// ParseBuildResult maps a result name, case-insensitively, to a BuildResult.
// The empty string means the build is still running and yields nil. Unknown
// names are kept as-is; DeriveStatus treats them as in progress.
func ParseBuildResult(s string) *BuildResult {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	r := BuildResult(strings.Replace(s, "-", "_", -1))
	return &r
}

// BuildStatus is the status value the reporting service understands.
type BuildStatus string

const (
	STATUS_IN_PROGRESS BuildStatus = "INPROGRESS"
	STATUS_SUCCESSFUL  BuildStatus = "SUCCESSFUL"
	STATUS_FAILED      BuildStatus = "FAILED"
)

func (s BuildStatus) String() string {
	return string(s)
}

func DeriveStatus(result *BuildResult) BuildStatus {
	if result == nil {
		return STATUS_IN_PROGRESS
	}
	switch *result {
	case RESULT_SUCCESS, RESULT_UNSTABLE:
		return STATUS_SUCCESSFUL
	case RESULT_FAILURE, RESULT_ABORTED:
		return STATUS_FAILED
	}
	return STATUS_IN_PROGRESS
}

// Build describes one finished (or running) CI build as seen by the
// notifier. It is built fresh for every run.
type Build struct {
	// DisplayName is the human readable build name, e.g. "api-tests #7".
	DisplayName string
	ID          string
	Result      *BuildResult
	LogPath     string
	Project     string

	// ReportPath and ExecutionType are optional. A blank ReportPath means
	// no test report is uploaded.
	ReportPath    string
	ExecutionType string
}

// SubmissionID is the build identifier sent to the reporting service:
// "<DisplayName> | <ID>", or just the ID when there is no display name.
func (b *Build) SubmissionID() string {
	if b.DisplayName == "" {
		return b.ID
	}
	if b.ID == "" {
		return b.DisplayName
	}
	return b.DisplayName + " | " + b.ID
}

func (b *Build) Status() BuildStatus {
	return DeriveStatus(b.Result)
}

func (b *Build) HasReport() bool {
	return strings.TrimSpace(b.ReportPath) != ""
}

func (b *Build) HasExecutionType() bool {
	return strings.TrimSpace(b.ExecutionType) != ""
}

// ResolveReportPath turns a configured report path into a file to upload.
// Relative paths are taken from the workspace. A path with glob
// metacharacters is matched against the regular files in the workspace and
// the first match, in lexical order, wins.
func ResolveReportPath(workspace, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("no report path configured")
	}
	if workspace == "" {
		workspace = "."
	}

	if !glob.HasMeta(path) {
		if filepath.IsAbs(path) {
			return path, nil
		}
		return filepath.Join(workspace, path), nil
	}

	root, pattern := workspace, path
	if filepath.IsAbs(path) {
		root, pattern = splitGlobRoot(path)
	}
	matches, _, err := glob.GlobTreeRegular(root, []string{pattern})
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no test report matching %s in %s", pattern, root)
	}
	return matches[0], nil
}

// splitGlobRoot splits an absolute pattern at the last directory without
// metacharacters, returning that directory and the remaining pattern.
func splitGlobRoot(path string) (string, string) {
	parts := strings.Split(filepath.ToSlash(path), "/")
	i := 0
	for i < len(parts) && !glob.HasMeta(parts[i]) {
		i++
	}
	root := strings.Join(parts[:i], "/")
	if root == "" {
		root = "/"
	}
	return filepath.FromSlash(root), strings.Join(parts[i:], "/")
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
