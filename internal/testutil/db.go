package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/scienceol/chemdb/pkg/middleware/db"
	"github.com/scienceol/chemdb/pkg/repo/migrate"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var seq atomic.Int64

// NewDatastore opens a private in-memory sqlite database with the production schema.
func NewDatastore(t *testing.T) *db.Datastore {
	t.Helper()
	dsn := fmt.Sprintf("file:chemdb-test-%d?mode=memory&cache=shared&_foreign_keys=on", seq.Add(1))
	d, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := d.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ds := db.NewDatastore(d)
	require.NoError(t, migrate.Table(context.Background(), ds))
	return ds
}
