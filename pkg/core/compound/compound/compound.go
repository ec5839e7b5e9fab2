package compound

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scienceol/chemdb/pkg/common"
	"github.com/scienceol/chemdb/pkg/common/code"
	"github.com/scienceol/chemdb/pkg/common/uuid"
	"github.com/scienceol/chemdb/pkg/core/compound"
	"github.com/scienceol/chemdb/pkg/core/storage"
	"github.com/scienceol/chemdb/pkg/middleware/logger"
	"github.com/scienceol/chemdb/pkg/repo"
)

// Invalidator drops cached metadata after a write.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type compoundImpl struct {
	store repo.CompoundRepo
	files storage.Service
	cache Invalidator
}

func New(store repo.CompoundRepo, files storage.Service, cache Invalidator) compound.Service {
	return &compoundImpl{store: store, files: files, cache: cache}
}

func (c *compoundImpl) List(ctx context.Context, req *compound.ListReq) (*common.PageResp[[]*compound.Compound], error) {
	req.Normalize()
	q := &repo.CompoundQuery{
		SearchTerm:  req.SearchTerm,
		Categories:  splitValues(req.LoaiHC),
		Statuses:    splitValues(req.Status),
		StatePhases: splitValues(req.TrangThai),
		Colors:      splitValues(req.Mau),
		Offset:      req.Offset(),
		Limit:       req.Limit,
	}

	ids, total, err := c.store.ListCompoundIDs(ctx, q)
	if err != nil {
		logger.Errorf(ctx, "list compound ids err: %+v", err)
		return nil, code.CompoundQueryErr.WithErr(err)
	}
	docs, err := c.load(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &common.PageResp[[]*compound.Compound]{
		Data:  docs,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}

// splitValues accepts repeated and comma separated query values.
func splitValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c *compoundImpl) load(ctx context.Context, ids []int64) ([]*compound.Compound, error) {
	rows, err := c.store.GetCompoundRows(ctx, ids)
	if err != nil {
		logger.Errorf(ctx, "get compound rows err: %+v", err)
		return nil, code.CompoundQueryErr.WithErr(err)
	}
	signals, err := c.store.GetSignals(ctx, blockIDs(rows))
	if err != nil {
		logger.Errorf(ctx, "get nmr signals err: %+v", err)
		return nil, code.CompoundQueryErr.WithErr(err)
	}
	return assemble(rows, signals), nil
}

func (c *compoundImpl) Get(ctx context.Context, id uuid.UUID) (*compound.Compound, error) {
	_, doc, err := c.get(ctx, id)
	return doc, err
}

func (c *compoundImpl) get(ctx context.Context, id uuid.UUID) (int64, *compound.Compound, error) {
	if id.IsNil() {
		return 0, nil, code.ParamErr.WithMsg("invalid compound id")
	}
	compoundID, err := c.store.GetIDByUUID(ctx, id)
	if err != nil {
		if errors.Is(err, code.RecordNotFound) {
			return 0, nil, code.CompoundNotFound
		}
		return 0, nil, code.CompoundQueryErr.WithErr(err)
	}
	docs, err := c.load(ctx, []int64{compoundID})
	if err != nil {
		return 0, nil, err
	}
	if len(docs) == 0 {
		return 0, nil, code.CompoundNotFound
	}
	return compoundID, docs[0], nil
}

func (c *compoundImpl) Create(ctx context.Context, in *compound.CompoundInput) (*compound.Compound, error) {
	if err := in.Validate(true); err != nil {
		return nil, err
	}

	doc := newDocument()
	applyInput(doc, in)
	if in.NMRData == nil {
		doc.NMRData = []*compound.NMRBlock{placeholderBlock()}
	}

	row, err := toModel(doc)
	if err != nil {
		return nil, code.ParamErr.WithErr(err)
	}
	blocks := toBlockModels(doc.NMRData)

	err = c.store.ExecTx(ctx, func(txCtx context.Context) error {
		if in.SttHC == nil {
			next, err := c.store.NextSerialNumber(txCtx)
			if err != nil {
				return err
			}
			row.SerialNumber = next
		}
		if err := c.store.CreateCompound(txCtx, row); err != nil {
			return err
		}
		return c.store.InsertBlocks(txCtx, row.ID, blocks)
	})
	if err != nil {
		if errors.Is(err, code.CompoundDuplicateErr) {
			return nil, err
		}
		logger.Errorf(ctx, "create compound err: %+v", err)
		return nil, code.CompoundCreateErr.WithErr(err)
	}

	c.invalidate(ctx)
	return c.Get(ctx, row.UUID)
}

func (c *compoundImpl) Update(ctx context.Context, id uuid.UUID, in *compound.CompoundInput) (*compound.Compound, error) {
	if err := in.Validate(false); err != nil {
		return nil, err
	}

	compoundID, existing, err := c.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.UpdatedAt != nil && !sameInstant(*in.UpdatedAt, existing.UpdatedAt) {
		return nil, code.UpdateConflictErr.WithMsgf("compound %s was updated at %s", id, existing.UpdatedAt.Format(time.RFC3339Nano))
	}

	merged := clone(existing)
	applyInput(merged, in)
	stale := staleFiles(existing, merged)

	row, err := toModel(merged)
	if err != nil {
		return nil, code.ParamErr.WithErr(err)
	}
	row.ID = compoundID
	row.UUID = existing.ID
	row.CreatedAt = existing.CreatedAt

	err = c.store.ExecTx(ctx, func(txCtx context.Context) error {
		if err := c.store.UpdateCompound(txCtx, row, existing.UpdatedAt); err != nil {
			return err
		}
		if in.NMRData == nil {
			return nil
		}
		if err := c.store.DeleteBlocks(txCtx, compoundID); err != nil {
			return err
		}
		return c.store.InsertBlocks(txCtx, compoundID, toBlockModels(merged.NMRData))
	})
	if err != nil {
		if errors.Is(err, code.UpdateConflictErr) || errors.Is(err, code.CompoundDuplicateErr) {
			return nil, err
		}
		logger.Errorf(ctx, "update compound %s err: %+v", id, err)
		return nil, code.CompoundUpdateErr.WithErr(err)
	}

	c.reconcile(ctx, id, stale)
	c.invalidate(ctx)
	return c.Get(ctx, id)
}

func (c *compoundImpl) Delete(ctx context.Context, id uuid.UUID) (*compound.DeleteResult, error) {
	compoundID, existing, err := c.get(ctx, id)
	if err != nil {
		return nil, err
	}

	deleted := false
	err = c.store.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		deleted, err = c.store.DeleteCompound(txCtx, compoundID)
		return err
	})
	if err != nil {
		logger.Errorf(ctx, "delete compound %s err: %+v", id, err)
		return nil, code.CompoundDeleteErr.WithErr(err)
	}
	if !deleted {
		return nil, code.CompoundNotFound
	}

	res := &compound.DeleteResult{
		Deleted: true,
		Files:   c.reconcile(ctx, id, existing.FileRefs()),
	}
	c.invalidate(ctx)
	return res, nil
}

func (c *compoundImpl) reconcile(ctx context.Context, id uuid.UUID, refs []string) []*storage.Outcome {
	if len(refs) == 0 || c.files == nil {
		return []*storage.Outcome{}
	}
	outcomes := c.files.Reconcile(ctx, refs)
	summary := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		summary = append(summary, fmt.Sprintf("%s=%s", o.Ref, o.Status))
	}
	logger.Infof(ctx, "reconcile files of compound %s: %s", id, strings.Join(summary, ", "))
	return outcomes
}

func (c *compoundImpl) invalidate(ctx context.Context) {
	if c.cache != nil {
		c.cache.Invalidate(ctx)
	}
}

// sameInstant compares at microsecond precision, the resolution postgres keeps.
func sameInstant(a, b time.Time) bool {
	return a.Truncate(time.Microsecond).Equal(b.Truncate(time.Microsecond))
}
