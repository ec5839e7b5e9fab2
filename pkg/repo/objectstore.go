package repo

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("object not found")

type Object struct {
	Data        []byte
	ContentType string
}

// ObjectStore is a flat key space inside one bucket.
type ObjectStore interface {
	Bucket() string
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	GetObject(ctx context.Context, key string) (*Object, error)
	DeleteObject(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
