package logger

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ServiceEnv struct {
	Platform string
	Service  string
	Env      string
}

type LogConfig struct {
	Path       string
	LogLevel   string
	ServiceEnv ServiceEnv
}

var (
	mu     sync.RWMutex
	sugar  = otelzap.New(zap.NewNop()).Sugar()
	rotate *lumberjack.Logger
)

func Init(conf *LogConfig) {
	level := parseLevel(conf.LogLevel)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(os.Stdout), level),
	}

	var fileWriter *lumberjack.Logger
	if strings.TrimSpace(conf.Path) != "" {
		fileWriter = &lumberjack.Logger{
			Filename:   conf.Path,
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileWriter), level))
	}

	zl := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(2)).With(
		zap.String("platform", conf.ServiceEnv.Platform),
		zap.String("service", conf.ServiceEnv.Service),
		zap.String("env", conf.ServiceEnv.Env),
	)

	mu.Lock()
	defer mu.Unlock()
	sugar = otelzap.New(zl, otelzap.WithMinLevel(level)).Sugar()
	rotate = fileWriter
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	_ = sugar.Sync()
	if rotate != nil {
		_ = rotate.Close()
		rotate = nil
	}
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func get() *otelzap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func withCtx(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func Debugf(ctx context.Context, format string, args ...any) {
	get().DebugfContext(withCtx(ctx), format, args...)
}

func Infof(ctx context.Context, format string, args ...any) {
	get().InfofContext(withCtx(ctx), format, args...)
}

func Warnf(ctx context.Context, format string, args ...any) {
	get().WarnfContext(withCtx(ctx), format, args...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	get().ErrorfContext(withCtx(ctx), format, args...)
}

func Fatalf(ctx context.Context, format string, args ...any) {
	get().FatalfContext(withCtx(ctx), format, args...)
}
