package repo

import (
	"context"

	"github.com/scienceol/chemdb/pkg/common/uuid"
)

type IDOrUUIDTranslate interface {
	GetIDByUUID(ctx context.Context, uuid uuid.UUID) (int64, error)
}

// Transactor runs fn in one database transaction; repositories called with txCtx join it.
type Transactor interface {
	ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error
}
