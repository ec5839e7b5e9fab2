package objectstore

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/scienceol/chemdb/internal/config"
	"github.com/scienceol/chemdb/pkg/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers path-style object requests for a single bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	calls   []string
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	f.calls = append(f.calls, req.Method+" "+key)
	resp := func(status int, body []byte, header http.Header) *http.Response {
		if header == nil {
			header = http.Header{}
		}
		return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewReader(body)), Header: header, Request: req}
	}
	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		f.objects[key] = body
		f.types[key] = req.Header.Get("Content-Type")
		return resp(http.StatusOK, nil, http.Header{"Etag": {`"etag"`}}), nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			return resp(http.StatusNotFound, []byte(`<?xml version="1.0"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`),
				http.Header{"Content-Type": {"application/xml"}}), nil
		}
		return resp(http.StatusOK, body, http.Header{"Content-Type": {f.types[key]}}), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return resp(http.StatusNoContent, nil, nil), nil
	case http.MethodHead:
		return resp(http.StatusOK, nil, nil), nil
	}
	return resp(http.StatusNotImplemented, nil, nil), nil
}

func newFakeS3Store(t *testing.T) (repo.ObjectStore, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	store, err := NewS3(context.Background(), &S3Config{
		Endpoint:  "http://s3.test.local",
		Bucket:    "chemdb",
		AccessKey: "AKIA",
		SecretKey: "SECRET",
		PathStyle: true,
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: fake}
	})
	require.NoError(t, err)
	return store, fake
}

func TestS3StoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, fake := newFakeS3Store(t)
	assert.Equal(t, "chemdb", store.Bucket())

	require.NoError(t, store.PutObject(ctx, "uploads/2026/01/a.png", strings.NewReader("png-bytes"), 9, "image/png"))
	obj, err := store.GetObject(ctx, "uploads/2026/01/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), obj.Data)
	assert.Equal(t, "image/png", obj.ContentType)

	require.NoError(t, store.DeleteObject(ctx, "uploads/2026/01/a.png"))
	_, err = store.GetObject(ctx, "uploads/2026/01/a.png")
	assert.ErrorIs(t, err, repo.ErrObjectNotFound)

	require.NoError(t, store.Ping(ctx))
	assert.Contains(t, fake.calls, "DELETE uploads/2026/01/a.png")
}

func TestMemoryRecordsDeletes(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("chemdb")
	require.NoError(t, m.PutObject(ctx, "a.png", strings.NewReader("a"), 1, "image/png"))
	m.FailDelete("b.png")

	require.NoError(t, m.DeleteObject(ctx, "a.png"))
	require.Error(t, m.DeleteObject(ctx, "b.png"))
	assert.Equal(t, []string{"a.png", "b.png"}, m.Deletes())
	assert.False(t, m.Has("a.png"))

	m.ResetDeletes()
	assert.Empty(t, m.Deletes())
}

func TestNewSelectsDriver(t *testing.T) {
	store, err := New(context.Background(), &config.Storage{Driver: config.StorageMemory, Bucket: "b"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, store)

	_, err = New(context.Background(), &config.Storage{Driver: "ftp", Bucket: "b"})
	assert.Error(t, err)
}
