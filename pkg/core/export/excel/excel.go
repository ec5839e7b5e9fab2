package excel

import (
	"context"
	"fmt"

	"github.com/scienceol/chemdb/pkg/common/code"
	"github.com/scienceol/chemdb/pkg/common/uuid"
	"github.com/scienceol/chemdb/pkg/core/compound"
	"github.com/scienceol/chemdb/pkg/core/export"
	"github.com/scienceol/chemdb/pkg/middleware/logger"
)

type excelImpl struct {
	compounds compound.Service
	resolver  *Resolver
}

func New(compounds compound.Service, resolver *Resolver) export.Service {
	return &excelImpl{
		compounds: compounds,
		resolver:  resolver,
	}
}

func (e *excelImpl) ExportCompound(ctx context.Context, id uuid.UUID) (*export.File, error) {
	doc, err := e.compounds.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	buf, err := Build(ctx, e.resolver, doc)
	if err != nil {
		logger.Errorf(ctx, "build workbook for compound %s err: %+v", id, err)
		return nil, code.CompoundExportErr.WithErr(err)
	}

	return &export.File{
		Name:        fileName(doc),
		ContentType: export.ContentTypeXLSX,
		Data:        buf.Bytes(),
	}, nil
}

func fileName(doc *compound.Compound) string {
	if doc.SttHC > 0 {
		return fmt.Sprintf("HC-%d.xlsx", doc.SttHC)
	}
	return fmt.Sprintf("HC-%s.xlsx", doc.ID.String())
}
