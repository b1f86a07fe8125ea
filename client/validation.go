package client

import "strings"

type ValidationKind int

const (
	VALIDATION_OK ValidationKind = iota
	VALIDATION_WARNING
)

// FormValidation is the outcome of checking a single config value. A
// warning is shown to the user but never blocks the value from being used.
type FormValidation struct {
	Kind    ValidationKind
	Message string
}

func (v FormValidation) OK() bool {
	return v.Kind == VALIDATION_OK
}

// CheckFilePath validates the test report path of a job. A blank path is
// fine (no report is uploaded); anything else should point at a regular
// file, or be a glob that matches one, relative to the workspace.
func CheckFilePath(workspace, value string) FormValidation {
	if strings.TrimSpace(value) == "" {
		return FormValidation{Kind: VALIDATION_OK}
	}
	path, err := ResolveReportPath(workspace, value)
	if err != nil {
		return FormValidation{Kind: VALIDATION_WARNING, Message: err.Error()}
	}
	if !fileExists(path) {
		return FormValidation{Kind: VALIDATION_WARNING, Message: "test report " + path + " does not exist yet"}
	}
	return FormValidation{Kind: VALIDATION_OK}
}
