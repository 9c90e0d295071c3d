package source

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in      string
		want    Location
		wantErr bool
	}{
		{in: "geometry.txt", want: Location{Key: "geometry.txt"}},
		{in: "/data/geo/beamline.txt", want: Location{Key: "/data/geo/beamline.txt"}},
		{in: "s3://geo/runs/target.txt", want: Location{Bucket: "geo", Key: "runs/target.txt"}},
		{in: "s3://geo", wantErr: true},
		{in: "s3://geo/", wantErr: true},
		{in: "s3:///key", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLocation(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.in, got.String())
	}
}

func TestOpen_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geometry.txt")
	require.NoError(t, os.WriteFile(path, []byte("line\n"), 0644))

	rc, err := Open(context.Background(), path, S3Config{})
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}

func TestOpen_LocalMissing(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), S3Config{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// fakeS3 serves path-style GetObject requests from memory.
type fakeS3 struct {
	objects  map[string]string
	requests []string
}

func (f *fakeS3) Do(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req.Method+" "+req.URL.Path)
	body, ok := f.objects[strings.TrimPrefix(req.URL.Path, "/")]
	if req.Method != http.MethodGet || !ok {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(bytes.NewReader(nil)),
			Header:     http.Header{},
			Request:    req,
		}, nil
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header: http.Header{
			"Content-Length": {strconv.Itoa(len(body))},
			"Content-Type":   {"text/plain"},
		},
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}

func fakeConfig(f *fakeS3) S3Config {
	return S3Config{
		Region:          "us-east-1",
		Endpoint:        "https://mock.s3.local",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
		HTTPClient:      f,
	}
}

func TestOpen_S3(t *testing.T) {
	f := &fakeS3{objects: map[string]string{
		"geo/runs/target.txt": "target | root | 0 0 0 | 0 0 0 | Box | 1 1 1 |\n",
	}}

	rc, err := Open(context.Background(), "s3://geo/runs/target.txt", fakeConfig(f))
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "target | root")
	require.NotEmpty(t, f.requests)
	assert.Equal(t, "GET /geo/runs/target.txt", f.requests[0])
}

func TestOpen_S3Missing(t *testing.T) {
	f := &fakeS3{objects: map[string]string{}}

	_, err := Open(context.Background(), "s3://geo/none.txt", fakeConfig(f))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://geo/none.txt")
}
