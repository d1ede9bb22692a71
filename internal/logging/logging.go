// Package logging builds the process-wide zap logger and the rotating
// error files kept next to it.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"vetcare/internal/config"
)

// Error file names under LOG_DIR.
const (
	SaleErrorFile   = "sale-error.log"
	SyncErrorFile   = "sync-error.log"
	ServerErrorFile = "server-error.log"
)

// Init builds the global logger for env and installs it with
// zap.ReplaceGlobals. Production logs JSON, everything else uses the
// development console encoder.
func Init(cfg config.LogConfig, env string) (*zap.Logger, error) {
	var zapConfig zap.Config
	if env == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapConfig.Build(zap.AddCaller())
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// ErrorFiles are the append-only debugging logs for sale, sync and
// unhandled server failures.
type ErrorFiles struct {
	Sale   *zap.Logger
	Sync   *zap.Logger
	Server *zap.Logger

	closers []io.Closer
}

// NewErrorFiles opens the rotating error files in dir. An empty dir
// yields no-op loggers.
func NewErrorFiles(dir string) (*ErrorFiles, error) {
	if dir == "" {
		return NopErrorFiles(), nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f := &ErrorFiles{}
	f.Sale = f.open(filepath.Join(dir, SaleErrorFile))
	f.Sync = f.open(filepath.Join(dir, SyncErrorFile))
	f.Server = f.open(filepath.Join(dir, ServerErrorFile))
	return f, nil
}

// NopErrorFiles discards everything.
func NopErrorFiles() *ErrorFiles {
	return &ErrorFiles{Sale: zap.NewNop(), Sync: zap.NewNop(), Server: zap.NewNop()}
}

func (f *ErrorFiles) open(filename string) *zap.Logger {
	lj := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     30,
		Compress:   false,
	}
	f.closers = append(f.closers, lj)
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(lj),
		zapcore.ErrorLevel,
	)
	return zap.New(core)
}

// Close flushes and closes every file.
func (f *ErrorFiles) Close() error {
	for _, l := range []*zap.Logger{f.Sale, f.Sync, f.Server} {
		_ = l.Sync()
	}
	var first error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
