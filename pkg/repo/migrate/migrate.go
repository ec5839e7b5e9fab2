package migrate

import (
	"context"

	"github.com/scienceol/chemdb/pkg/middleware/db"
	"github.com/scienceol/chemdb/pkg/middleware/logger"
	"github.com/scienceol/chemdb/pkg/repo/model"
)

// Table creates or alters the schema. Parents come before children so the
// cascading foreign keys can be created.
func Table(ctx context.Context, ds *db.Datastore) error {
	d := ds.DBWithContext(ctx)
	models := []any{
		&model.Compound{},
		&model.NMRBlock{},
		&model.NMRSignal{},
	}
	for _, m := range models {
		if err := d.AutoMigrate(m); err != nil {
			logger.Errorf(ctx, "migrate table err: %+v", err)
			return err
		}
	}
	return nil
}
