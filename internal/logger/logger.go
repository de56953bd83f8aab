package logger

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides structured, operation-keyed logging for the data layer.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a logger for the given environment ("production" or anything
// else for development output) and level name.
func New(env, level string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(env) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, err
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: z.Sugar()}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// WithOperationID returns a child logger tagged with a fresh op_id.
func (l *Logger) WithOperationID() *Logger {
	return l.With("op_id", uuid.NewString())
}

func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

// LogError logs an error with context
func (l *Logger) LogError(operation string, err error) {
	l.sugar.Errorw("operation failed", "operation", operation, "error", err)
}

func (l *Logger) LogErrorf(operation string, format string, args ...interface{}) {
	l.sugar.With("operation", operation).Errorf(format, args...)
}

func (l *Logger) LogInfo(operation string, message string) {
	l.sugar.Infow(message, "operation", operation)
}

func (l *Logger) LogInfof(operation string, format string, args ...interface{}) {
	l.sugar.With("operation", operation).Infof(format, args...)
}

func (l *Logger) LogWarn(operation string, message string) {
	l.sugar.Warnw(message, "operation", operation)
}

func (l *Logger) LogDebugf(operation string, format string, args ...interface{}) {
	l.sugar.With("operation", operation).Debugf(format, args...)
}
