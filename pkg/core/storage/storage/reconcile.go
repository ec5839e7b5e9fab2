package storage

import (
	"context"
	"sync"

	"github.com/alphadose/haxmap"
	"github.com/scienceol/chemdb/pkg/core/storage"
	"github.com/scienceol/chemdb/pkg/middleware/logger"
	"github.com/scienceol/chemdb/pkg/utils"
)

func (s *storageImpl) Delete(ctx context.Context, ref string) *storage.Outcome {
	outcome := &storage.Outcome{Ref: ref}
	key, ok := s.KeyFromRef(ref)
	if !ok {
		outcome.Status = storage.OutcomeSkipped
		logger.Warnf(ctx, "skip delete, no storage key in ref: %s", ref)
		return outcome
	}
	outcome.Key = key
	if err := s.store.DeleteObject(ctx, key); err != nil {
		outcome.Status = storage.OutcomeFailed
		outcome.Error = err.Error()
		logger.Errorf(ctx, "delete object %s err: %+v", key, err)
		return outcome
	}
	outcome.Status = storage.OutcomeDeleted
	return outcome
}

// Reconcile issues one delete per distinct reference on the worker pool.
func (s *storageImpl) Reconcile(ctx context.Context, refs []string) []*storage.Outcome {
	refs = utils.Distinct(refs)
	if len(refs) == 0 {
		return []*storage.Outcome{}
	}

	results := haxmap.New[int, *storage.Outcome](uintptr(len(refs)))
	wg := sync.WaitGroup{}
	for i, ref := range refs {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := utils.SafelyRun(func() {
				results.Set(i, s.Delete(ctx, ref))
			}); err != nil {
				results.Set(i, &storage.Outcome{Ref: ref, Status: storage.OutcomeFailed, Error: err.Error()})
			}
		}
		if s.pools == nil {
			task()
			continue
		}
		if err := s.pools.Submit(task); err != nil {
			logger.Warnf(ctx, "submit delete task err: %+v, running inline", err)
			task()
		}
	}
	wg.Wait()

	outcomes := make([]*storage.Outcome, 0, len(refs))
	for i, ref := range refs {
		if o, ok := results.Get(i); ok {
			outcomes = append(outcomes, o)
			continue
		}
		outcomes = append(outcomes, &storage.Outcome{Ref: ref, Status: storage.OutcomeFailed, Error: "no result"})
	}
	return outcomes
}
