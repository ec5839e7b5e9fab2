package export

import (
	"context"

	"github.com/scienceol/chemdb/pkg/common/uuid"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Service interface {
	ExportCompound(ctx context.Context, id uuid.UUID) (*File, error)
}
