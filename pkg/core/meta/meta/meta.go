package meta

import (
	"context"
	"strings"

	r "github.com/redis/go-redis/v9"
	"github.com/scienceol/chemdb/pkg/common/code"
	"github.com/scienceol/chemdb/pkg/core/compound"
	"github.com/scienceol/chemdb/pkg/core/meta"
	"github.com/scienceol/chemdb/pkg/middleware/logger"
	"github.com/scienceol/chemdb/pkg/repo"
)

var columns = map[meta.Kind]repo.DistinctColumn{
	meta.KindCategory:   repo.DistinctCategory,
	meta.KindStatePhase: repo.DistinctStatePhase,
	meta.KindColor:      repo.DistinctColor,
	meta.KindSolvent:    repo.DistinctSolvent,
}

type metaImpl struct {
	store   repo.CompoundRepo
	pubchem repo.PubChemRepo
	cache   listCache
}

// New wires the metadata service. A nil redis client disables caching.
func New(store repo.CompoundRepo, pubchem repo.PubChemRepo, rClient *r.Client) meta.Service {
	m := &metaImpl{store: store, pubchem: pubchem}
	if rClient != nil {
		m.cache = &redisCache{client: rClient}
	}
	return m
}

func (m *metaImpl) Values(ctx context.Context, kind meta.Kind) ([]string, error) {
	if kind == meta.KindStatus {
		return append([]string(nil), compound.Statuses...), nil
	}
	column, ok := columns[kind]
	if !ok {
		return nil, code.ParamErr.WithMsgf("unknown metadata kind %q", kind)
	}

	if m.cache != nil {
		values, hit, err := m.cache.Get(ctx, string(kind))
		if err != nil {
			logger.Warnf(ctx, "read meta cache %s err: %+v", kind, err)
		}
		if hit {
			return values, nil
		}
	}

	values, err := m.store.DistinctValues(ctx, column)
	if err != nil {
		logger.Errorf(ctx, "distinct values %s err: %+v", column, err)
		return nil, code.QueryRecordErr.WithErr(err)
	}

	if m.cache != nil {
		if err := m.cache.Set(ctx, string(kind), values); err != nil {
			logger.Warnf(ctx, "write meta cache %s err: %+v", kind, err)
		}
	}
	return values, nil
}

// NextSerialNumber is a hint for the form. Create assigns its own number.
func (m *metaImpl) NextSerialNumber(ctx context.Context) (int64, error) {
	next, err := m.store.NextSerialNumber(ctx)
	if err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return next, nil
}

func (m *metaImpl) NextTableNumber(ctx context.Context) (int64, error) {
	next, err := m.store.NextTableNumber(ctx)
	if err != nil {
		return 0, code.QueryRecordErr.WithErr(err)
	}
	return next, nil
}

func (m *metaImpl) LookupPubChem(ctx context.Context, name string) (*repo.CompoundInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, code.ParamErr.WithMsg("name is required")
	}
	return m.pubchem.GetCompoundByName(ctx, name)
}

func (m *metaImpl) Invalidate(ctx context.Context) {
	if m.cache == nil {
		return
	}
	keys := make([]string, 0, len(columns))
	for kind := range columns {
		keys = append(keys, string(kind))
	}
	if err := m.cache.Del(ctx, keys...); err != nil {
		logger.Warnf(ctx, "invalidate meta cache err: %+v", err)
	}
}
