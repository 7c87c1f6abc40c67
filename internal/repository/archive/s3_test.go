package archive

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/buffalo/internal/config"
)

// recordingTransport answers every request with status and keeps the last one.
type recordingTransport struct {
	status  int
	method  string
	path    string
	ctype   string
	payload []byte
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.method = req.Method
	rt.path = req.URL.Path
	rt.ctype = req.Header.Get("Content-Type")
	if req.Body != nil {
		rt.payload, _ = io.ReadAll(req.Body)
	}
	body := ""
	if rt.status >= http.StatusBadRequest {
		body = `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`
	}
	return &http.Response{
		StatusCode: rt.status,
		Header:     http.Header{"Etag": []string{`"etag"`}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Request:    req,
	}, nil
}

func newTestArchiver(t *testing.T, rt *recordingTransport) *S3Archiver {
	t.Helper()
	archiver, err := NewS3Archiver(context.Background(),
		config.ArchiveConfig{Bucket: "herd-backups", Region: "us-east-1", Endpoint: "https://mock.s3.local", PathStyle: true},
		Options{
			AccessKeyID:     "AKIA",
			SecretAccessKey: "SECRET",
			ClientOptions: []func(*s3.Options){func(o *s3.Options) {
				o.HTTPClient = &http.Client{Transport: rt}
				o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
				o.RetryMaxAttempts = 1
			}},
		}, nil)
	require.NoError(t, err)
	return archiver
}

func TestPut(t *testing.T) {
	rt := &recordingTransport{status: http.StatusOK}
	archiver := newTestArchiver(t, rt)

	body := []byte(`{"summary":{"buffaloCount":2}}`)
	require.NoError(t, archiver.Put(context.Background(), "snapshots/2025-03-14T14:30:00Z.json", body))

	assert.Equal(t, http.MethodPut, rt.method)
	assert.Equal(t, "/herd-backups/snapshots/2025-03-14T14:30:00Z.json", rt.path)
	assert.Equal(t, "application/json", rt.ctype)
	assert.Equal(t, body, rt.payload)
}

func TestPutFailure(t *testing.T) {
	rt := &recordingTransport{status: http.StatusForbidden}
	archiver := newTestArchiver(t, rt)

	err := archiver.Put(context.Background(), "snapshots/x.json", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://herd-backups/snapshots/x.json")
}

func TestNewS3ArchiverRequiresBucket(t *testing.T) {
	_, err := NewS3Archiver(context.Background(), config.ArchiveConfig{}, Options{}, nil)
	assert.Error(t, err)
}
