package quatreporter

import "fmt"

// NetworkError means the request never got an HTTP response.
type NetworkError struct {
	URI string
	Err error
}

func (e *NetworkError) Error() string {
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError is an HTTP error status from the reporting service. Its
// message is the response body, which is where the service explains what
// went wrong.
type ServerError struct {
	URI        string
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned HTTP %d", e.URI, e.StatusCode)
	}
	return e.Body
}

// ParseError means the build endpoint answered with something other than
// {"result": <build id>}.
type ParseError struct {
	Body   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not read assigned build id from response %q: %s", truncate(e.Body), e.Reason)
}

// Keep log lines a reasonable length.
func truncate(s string) string {
	if len(s) > 140 {
		return s[:137] + "..."
	}
	return s
}
