package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/scienceol/chemdb/pkg/common/code"
	"github.com/scienceol/chemdb/pkg/core/storage"
	"github.com/scienceol/chemdb/pkg/repo/objectstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFromRef(t *testing.T) {
	cases := []struct {
		ref string
		key string
		ok  bool
	}{
		{"/chemdb/a.png", "a.png", true},
		{"/chemdb/uploads/2026/01/x.pdf", "uploads/2026/01/x.pdf", true},
		{"http://minio:9000/chemdb/uploads/b.png", "uploads/b.png", true},
		{"https://cdn.example.com/chemdb/c.png?X-Amz-Expires=60", "c.png", true},
		{"/chemdb/a.png?v=2", "a.png", true},
		{"/other/a.png", "", false},
		{"chemdb/a.png", "", false},
		{"/chemdb/", "", false},
		{"/chemdb", "", false},
		{"https://example.com/a.png", "", false},
		{"data:image/png;base64,AAAA", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		key, ok := keyFromRef("chemdb", c.ref)
		assert.Equal(t, c.ok, ok, c.ref)
		assert.Equal(t, c.key, key, c.ref)
	}
}

func TestNewKeyLayout(t *testing.T) {
	key := newKey(mustTime(t, "2026-03-04T10:00:00Z"), "Spectrum.PNG")
	assert.True(t, strings.HasPrefix(key, "uploads/2026/03/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
}

func TestReconcileOutcomes(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemory("chemdb")
	require.NoError(t, store.PutObject(ctx, "a.png", strings.NewReader("a"), 1, "image/png"))
	store.FailDelete("b.png")

	svc := New(store, Config{Workers: 2})
	defer svc.Close()

	outcomes := svc.Reconcile(ctx, []string{"/chemdb/a.png", "/chemdb/b.png", "relative/c.png", "/chemdb/a.png"})
	require.Len(t, outcomes, 3)

	assert.Equal(t, "/chemdb/a.png", outcomes[0].Ref)
	assert.Equal(t, "a.png", outcomes[0].Key)
	assert.Equal(t, storage.OutcomeDeleted, outcomes[0].Status)

	assert.Equal(t, storage.OutcomeFailed, outcomes[1].Status)
	assert.NotEmpty(t, outcomes[1].Error)

	assert.Equal(t, storage.OutcomeSkipped, outcomes[2].Status)

	assert.ElementsMatch(t, []string{"a.png", "b.png"}, store.Deletes())
	assert.False(t, store.Has("a.png"))
}

func TestReconcileEmpty(t *testing.T) {
	svc := New(objectstore.NewMemory("chemdb"), Config{})
	defer svc.Close()
	assert.Empty(t, svc.Reconcile(context.Background(), nil))
}

func TestUploadAndFetch(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemory("chemdb")
	svc := New(store, Config{MaxUploadBytes: 1 << 20})
	defer svc.Close()

	fh := fileHeader(t, "file", "hrms.png", "image/png", []byte("\x89PNG\r\n\x1a\nrest"))
	res, err := svc.Upload(ctx, fh)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.URL, "/chemdb/uploads/"), res.URL)
	assert.Equal(t, "image/png", res.ContentType)
	assert.True(t, store.Has(res.Key))

	obj, err := svc.Fetch(ctx, res.URL)
	require.NoError(t, err)
	assert.Equal(t, "image/png", obj.ContentType)

	_, err = svc.Fetch(ctx, "not-a-ref")
	assert.ErrorIs(t, err, code.StorageKeyErr)

	out := svc.Delete(ctx, res.URL)
	assert.Equal(t, storage.OutcomeDeleted, out.Status)
	assert.False(t, store.Has(res.Key))
}

func TestUploadTooLarge(t *testing.T) {
	svc := New(objectstore.NewMemory("chemdb"), Config{MaxUploadBytes: 4})
	defer svc.Close()
	_, err := svc.Upload(context.Background(), fileHeader(t, "file", "big.pdf", "application/pdf", []byte("0123456789")))
	assert.ErrorIs(t, err, code.UploadTooLargeErr)
}

func TestUploadMany(t *testing.T) {
	svc := New(objectstore.NewMemory("chemdb"), Config{})
	defer svc.Close()

	_, err := svc.UploadMany(context.Background(), nil)
	assert.ErrorIs(t, err, code.ParamErr)

	res, err := svc.UploadMany(context.Background(), []*multipart.FileHeader{
		fileHeader(t, "files", "a.pdf", "", []byte("%PDF-1.4")),
		fileHeader(t, "files", "b.jpg", "image/jpeg", []byte{0xff, 0xd8, 0xff}),
	})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "application/pdf", res[0].ContentType)
	assert.NotEqual(t, res[0].URL, res[1].URL)
}

func TestUploadManyRemovesStoredOnFailure(t *testing.T) {
	store := objectstore.NewMemory("chemdb")
	svc := New(store, Config{MaxUploadBytes: 8})
	defer svc.Close()

	res, err := svc.UploadMany(context.Background(), []*multipart.FileHeader{
		fileHeader(t, "files", "a.pdf", "", []byte("%PDF-1.4")),
		fileHeader(t, "files", "big.pdf", "", []byte("%PDF-1.4 too long")),
	})
	assert.ErrorIs(t, err, code.UploadTooLargeErr)
	assert.Nil(t, res)

	deleted := store.Deletes()
	require.Len(t, deleted, 1)
	assert.True(t, strings.HasPrefix(deleted[0], "uploads/"), deleted[0])
	assert.False(t, store.Has(deleted[0]))
}

func fileHeader(t *testing.T, field, name, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+name+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	require.NotEmpty(t, form.File[field])
	return form.File[field][0]
}
