package compound

import (
	"context"

	"github.com/scienceol/chemdb/pkg/common"
	"github.com/scienceol/chemdb/pkg/common/uuid"
)

type Service interface {
	List(ctx context.Context, req *ListReq) (*common.PageResp[[]*Compound], error)
	Get(ctx context.Context, id uuid.UUID) (*Compound, error)
	Create(ctx context.Context, in *CompoundInput) (*Compound, error)
	// Update merges the submitted fields into the stored document.
	Update(ctx context.Context, id uuid.UUID, in *CompoundInput) (*Compound, error)
	Delete(ctx context.Context, id uuid.UUID) (*DeleteResult, error)
}
