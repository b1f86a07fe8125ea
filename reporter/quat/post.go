package quatreporter

import (
	"bytes"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"golang.org/x/net/context"
)

// A form field of an upload. Fields are written in the order given.
type field struct {
	name, value string
}

// A file part of an upload.
type filePart struct {
	field string
	path  string
}

type response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// encodeForm serializes the file part followed by the fields as a MIME
// multipart body (RFC 2388). The file is closed before encodeForm returns.
func encodeForm(file filePart, fields []field) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	handle, err := os.Open(file.path)
	if err != nil {
		return nil, "", err
	}
	defer handle.Close()

	part, err := writer.CreateFormFile(file.field, filepath.Base(file.path))
	if err != nil {
		return nil, "", err
	}
	n, err := io.Copy(part, handle)
	if err != nil {
		return nil, "", err
	}
	quatLog.Printf("Attached %s as %s (%s)", file.path, file.field, humanize.Bytes(uint64(n)))

	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			quatLog.Printf("Couldn't write field %s", f.name)
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

// httpPost sends a multipart POST to uri and reads the whole response.
// Transport failures come back as *NetworkError; the status code is left
// for the caller to judge.
func httpPost(ctx context.Context, c *http.Client, uri, requestID string, file filePart, fields []field) (*response, error) {
	body, contentType, err := encodeForm(file, fields)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", uri, body)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", contentType)
	if requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	quatLog.Printf("POST %s (%s)", uri, humanize.Bytes(uint64(body.Len())))
	resp, err := c.Do(req)
	if err != nil {
		return nil, &NetworkError{URI: uri, Err: err}
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URI: uri, Err: err}
	}
	return &response{StatusCode: resp.StatusCode, Status: resp.Status, Body: data}, nil
}
