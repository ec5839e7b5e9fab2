package meta

import (
	"context"

	"github.com/scienceol/chemdb/pkg/repo"
)

type Service interface {
	// Values lists the distinct stored values of a tag column, or the fixed status set.
	Values(ctx context.Context, kind Kind) ([]string, error)
	NextSerialNumber(ctx context.Context) (int64, error)
	NextTableNumber(ctx context.Context) (int64, error)
	LookupPubChem(ctx context.Context, name string) (*repo.CompoundInfo, error)
	Invalidate(ctx context.Context)
}
