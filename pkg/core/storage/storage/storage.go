package storage

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/scienceol/chemdb/pkg/common/code"
	"github.com/scienceol/chemdb/pkg/core/storage"
	"github.com/scienceol/chemdb/pkg/middleware/logger"
	"github.com/scienceol/chemdb/pkg/repo"
)

type Config struct {
	MaxUploadBytes int64
	Workers        int
}

type storageImpl struct {
	store repo.ObjectStore
	conf  Config
	pools *ants.Pool
	now   func() time.Time
}

func New(store repo.ObjectStore, conf Config) storage.Service {
	workers := conf.Workers
	if workers <= 0 {
		workers = ants.DefaultAntsPoolSize
	}
	pools, err := ants.NewPool(workers, ants.WithExpiryDuration(30*time.Second))
	if err != nil {
		pools = nil
	}
	return &storageImpl{
		store: store,
		conf:  conf,
		pools: pools,
		now:   time.Now,
	}
}

func (s *storageImpl) Close() {
	if s.pools != nil {
		s.pools.Release()
	}
}

func (s *storageImpl) KeyFromRef(ref string) (string, bool) {
	return keyFromRef(s.store.Bucket(), ref)
}

func (s *storageImpl) Upload(ctx context.Context, fh *multipart.FileHeader) (*storage.UploadResult, error) {
	if fh == nil {
		return nil, code.ParamErr.WithMsg("file is required")
	}
	if s.conf.MaxUploadBytes > 0 && fh.Size > s.conf.MaxUploadBytes {
		return nil, code.UploadTooLargeErr.WithMsgf("%s exceeds %d bytes", fh.Filename, s.conf.MaxUploadBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, code.UploadFileErr.WithErr(err)
	}
	defer f.Close()

	contentType := detectContentType(fh, f)
	key := newKey(s.now(), fh.Filename)
	if err := s.store.PutObject(ctx, key, f, fh.Size, contentType); err != nil {
		logger.Errorf(ctx, "put object %s err: %+v", key, err)
		return nil, code.UploadFileErr.WithErr(err)
	}

	return &storage.UploadResult{
		URL:         refFromKey(s.store.Bucket(), key),
		Key:         key,
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: contentType,
	}, nil
}

// UploadMany stops at the first failure and removes the files it already stored.
func (s *storageImpl) UploadMany(ctx context.Context, files []*multipart.FileHeader) ([]*storage.UploadResult, error) {
	if len(files) == 0 {
		return nil, code.ParamErr.WithMsg("files is required")
	}
	results := make([]*storage.UploadResult, 0, len(files))
	for _, fh := range files {
		res, err := s.Upload(ctx, fh)
		if err != nil {
			s.rollback(ctx, results)
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *storageImpl) rollback(ctx context.Context, stored []*storage.UploadResult) {
	if len(stored) == 0 {
		return
	}
	refs := make([]string, 0, len(stored))
	for _, res := range stored {
		refs = append(refs, res.URL)
	}
	for _, out := range s.Reconcile(context.WithoutCancel(ctx), refs) {
		if out.Status == storage.OutcomeFailed {
			logger.Warnf(ctx, "rollback upload %s err: %s", out.Key, out.Error)
		}
	}
}

func (s *storageImpl) Fetch(ctx context.Context, ref string) (*repo.Object, error) {
	key, ok := s.KeyFromRef(ref)
	if !ok {
		return nil, code.StorageKeyErr.WithMsg(ref)
	}
	obj, err := s.store.GetObject(ctx, key)
	if err != nil {
		return nil, code.FetchFileErr.WithErr(err)
	}
	return obj, nil
}

func (s *storageImpl) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func detectContentType(fh *multipart.FileHeader, f multipart.File) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(fh.Filename))); ct != "" {
		return ct
	}
	head := make([]byte, 512)
	n, _ := f.Read(head)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "application/octet-stream"
	}
	return http.DetectContentType(head[:n])
}
