package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/scienceol/chemdb/pkg/repo"
)

// Memory keeps objects in process. It records every delete call and can be told
// to fail chosen keys, which is what reconciliation tests need.
type Memory struct {
	mu       sync.Mutex
	bucket   string
	objects  map[string]repo.Object
	deletes  []string
	failKeys map[string]error
}

func NewMemory(bucket string) *Memory {
	return &Memory{
		bucket:   bucket,
		objects:  make(map[string]repo.Object),
		failKeys: make(map[string]error),
	}
}

func (m *Memory) Bucket() string {
	return m.bucket
}

func (m *Memory) PutObject(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = repo.Object{Data: data, ContentType: contentType}
	return nil
}

func (m *Memory) GetObject(_ context.Context, key string) (*repo.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, repo.ErrObjectNotFound
	}
	return &repo.Object{Data: bytes.Clone(obj.Data), ContentType: obj.ContentType}, nil
}

func (m *Memory) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	if err, ok := m.failKeys[key]; ok {
		return err
	}
	delete(m.objects, key)
	return nil
}

func (m *Memory) Ping(_ context.Context) error {
	return nil
}

// FailDelete makes later deletes of key return an error.
func (m *Memory) FailDelete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failKeys[key] = fmt.Errorf("delete %s: injected failure", key)
}

// Deletes returns the keys passed to DeleteObject, in call order.
func (m *Memory) Deletes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deletes...)
}

func (m *Memory) ResetDeletes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = nil
}

func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}
