package db

import (
	"context"
	"fmt"
	"time"

	"github.com/scienceol/chemdb/pkg/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

type LogConf struct {
	Level string
}

type Config struct {
	Host            string
	Port            int
	User            string
	PW              string
	DBName          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnectTimeout  int
	LogConf         LogConf
}

// Datastore owns the process-wide gorm handle. Repositories embed it.
type Datastore struct {
	db *gorm.DB
}

type txKey struct{}

var datastore *Datastore

func InitPostgres(ctx context.Context, conf *Config) {
	ds, err := OpenPostgres(conf)
	if err != nil {
		logger.Fatalf(ctx, "init postgres fail err: %+v", err)
	}
	datastore = ds
	logger.Infof(ctx, "postgres connected host: %s db: %s", conf.Host, conf.DBName)
}

func OpenPostgres(conf *Config) (*Datastore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC connect_timeout=%d",
		conf.Host, conf.Port, conf.User, conf.PW, conf.DBName, conf.ConnectTimeout)

	d, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLevel(conf.LogConf.Level)),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := d.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("install tracing plugin: %w", err)
	}

	sqlDB, err := d.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	if conf.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(conf.MaxOpenConns)
	}
	if conf.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(conf.MaxIdleConns)
	}
	if conf.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(conf.ConnMaxIdleTime)
	}
	return &Datastore{db: d}, nil
}

func gormLevel(level string) gormLogger.LogLevel {
	switch level {
	case "debug":
		return gormLogger.Info
	case "error":
		return gormLogger.Error
	default:
		return gormLogger.Warn
	}
}

// NewDatastore wraps an already opened handle, e.g. sqlite in tests.
func NewDatastore(d *gorm.DB) *Datastore {
	return &Datastore{db: d}
}

func DB() *Datastore {
	return datastore
}

func ClosePostgres(ctx context.Context) {
	if datastore == nil {
		return
	}
	if sqlDB, err := datastore.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Errorf(ctx, "close postgres err: %+v", err)
		}
	}
}

func (d *Datastore) DBIns() *gorm.DB {
	return d.db
}

// DBWithContext returns the transaction bound to ctx by ExecTx, or the pool handle.
func (d *Datastore) DBWithContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return d.db.WithContext(ctx)
}

// ExecTx runs fn in one transaction. Repositories called with txCtx join it.
func (d *Datastore) ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return d.DBWithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
