package excel

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	storageImpl "github.com/scienceol/chemdb/pkg/core/storage/storage"
	"github.com/scienceol/chemdb/pkg/repo/objectstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T, publicURL string) (*Resolver, *objectstore.Memory) {
	t.Helper()
	mem := objectstore.NewMemory("chemdb")
	files := storageImpl.New(mem, storageImpl.Config{Workers: 1})
	t.Cleanup(files.Close)
	return NewResolver(files, time.Second, publicURL), mem
}

func TestResolveDataURI(t *testing.T) {
	r, _ := newResolver(t, "")
	img, err := r.Resolve(context.Background(), pngDataURI(t))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Ext)
	assert.True(t, img.Embeddable())

	img, err = r.Resolve(context.Background(), "data:text/plain,hello%20world")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), img.Data)
	assert.False(t, img.Embeddable())

	_, err = r.Resolve(context.Background(), "data:image/png;base64")
	assert.Error(t, err)
}

func TestResolveAbsoluteURL(t *testing.T) {
	data := pngBytes(t, 8, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/missing.png" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	r, _ := newResolver(t, "")
	img, err := r.Resolve(context.Background(), srv.URL+"/spectra/hrms")
	require.NoError(t, err)
	assert.Equal(t, data, img.Data)
	assert.Equal(t, ".png", img.Ext)

	_, err = r.Resolve(context.Background(), srv.URL+"/missing.png")
	assert.Error(t, err)
}

func TestResolveBucketPath(t *testing.T) {
	ctx := context.Background()
	r, mem := newResolver(t, "")
	data := pngBytes(t, 4, 4)
	require.NoError(t, mem.PutObject(ctx, "uploads/2026/01/a.png", bytes.NewReader(data), int64(len(data)), "image/png"))
	require.NoError(t, mem.PutObject(ctx, "uploads/2026/01/b.pdf", bytes.NewReader([]byte("%PDF-1.4")), 8, "application/pdf"))

	img, err := r.Resolve(ctx, "/chemdb/uploads/2026/01/a.png")
	require.NoError(t, err)
	assert.True(t, img.Embeddable())

	img, err = r.Resolve(ctx, "/chemdb/uploads/2026/01/b.pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", img.ContentType)
	assert.False(t, img.Embeddable())

	_, err = r.Resolve(ctx, "/chemdb/uploads/none.png")
	assert.Error(t, err)
}

func TestResolveUnresolvable(t *testing.T) {
	r, _ := newResolver(t, "")
	for _, ref := range []string{"", "  ", "relative/a.png", "/other-bucket/a.png"} {
		_, err := r.Resolve(context.Background(), ref)
		assert.ErrorIs(t, err, errUnresolvable, ref)
	}
}

func TestLink(t *testing.T) {
	r, _ := newResolver(t, "http://files.local/")
	assert.Equal(t, "http://files.local/chemdb/a.pdf", r.Link("/chemdb/a.pdf"))
	assert.Equal(t, "https://x.org/a.png", r.Link("https://x.org/a.png"))
	assert.Empty(t, r.Link("relative/a.png"))
	assert.Empty(t, r.Link("data:image/png;base64,AAAA"))

	bare, _ := newResolver(t, "")
	assert.Empty(t, bare.Link("/chemdb/a.pdf"))
}
