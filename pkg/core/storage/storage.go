package storage

import (
	"context"
	"mime/multipart"

	"github.com/scienceol/chemdb/pkg/repo"
)

type Service interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (*UploadResult, error)
	UploadMany(ctx context.Context, files []*multipart.FileHeader) ([]*UploadResult, error)
	// Delete removes one referenced file. Failures are reported, never returned.
	Delete(ctx context.Context, ref string) *Outcome
	// Reconcile deletes every reference and returns outcomes in input order.
	Reconcile(ctx context.Context, refs []string) []*Outcome
	KeyFromRef(ref string) (string, bool)
	Fetch(ctx context.Context, ref string) (*repo.Object, error)
	Ping(ctx context.Context) error
	// Close releases the delete worker pool.
	Close()
}
