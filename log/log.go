package log

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

// Level is an alias for the zap log levels.
type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	FatalLevel = zapcore.FatalLevel
)

// Field is an alias for zap.Field to keep call sites free of zap imports.
type Field = zap.Field

//nolint:gochecknoglobals // field and option aliases
var (
	Any        = zap.Any
	Bool       = zap.Bool
	String     = zap.String
	Int        = zap.Int
	Int32      = zap.Int32
	Int64      = zap.Int64
	Uint32     = zap.Uint32
	Uint64     = zap.Uint64
	Float32    = zap.Float32
	Float64    = zap.Float64
	Time       = zap.Time
	Duration   = zap.Duration
	ErrorField = zap.Error

	WithCaller    = zap.WithCaller
	AddCallerSkip = zap.AddCallerSkip
	AddStacktrace = zap.AddStacktrace
)

// Option is an alias for zap.Option.
type Option = zap.Option

// WithFilterRules wraps the core with a zapfilter core using the given
// rules (for example "warn+:* debug:timing*"). Invalid rules disable
// all filtering rather than dropping messages.
func WithFilterRules(rules string) Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		filterFunc, err := zapfilter.ParseRules(rules)
		if err != nil {
			return core
		}
		return zapfilter.NewFilteringCore(core, filterFunc)
	})
}

// Logger wraps a zap.Logger with the subset of its API used here.
type Logger struct {
	l     *zap.Logger
	sugar *zap.SugaredLogger
	level Level
}

func newLogger(core zapcore.Core, level Level, opts ...Option) *Logger {
	l := zap.New(core, opts...)
	return &Logger{l: l, sugar: l.Sugar(), level: level}
}

// New creates a Logger with a JSON encoder writing to w.
func New(w io.Writer, level Level, opts ...Option) *Logger {
	if w == nil {
		w = os.Stderr
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.AddSync(w),
		level,
	)
	return newLogger(core, level, opts...)
}

// DevLogger creates a Logger with a colored console encoder writing to w.
func DevLogger(w io.Writer, level Level, opts ...Option) *Logger {
	if w == nil {
		w = os.Stderr
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(w),
		level,
	)
	return newLogger(core, level, opts...)
}

func (l *Logger) Debug(msg string, fields ...Field) { l.l.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.l.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.l.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.l.Error(msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...Field) { l.l.Fatal(msg, fields...) }

func (l *Logger) Debugf(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.sugar.Errorf(format, args...) }
func (l *Logger) Fatalf(format string, args ...any) { l.sugar.Fatalf(format, args...) }

// Log writes a message at an arbitrary level.
func (l *Logger) Log(lvl Level, msg string, fields ...Field) { l.l.Log(lvl, msg, fields...) }

// Named returns a child logger with the given name segment appended.
func (l *Logger) Named(name string) *Logger {
	child := l.l.Named(name)
	return &Logger{l: child, sugar: child.Sugar(), level: l.level}
}

// WithOptions clones the logger with the additional options applied.
func (l *Logger) WithOptions(opts ...Option) *Logger {
	clone := l.l.WithOptions(opts...)
	return &Logger{l: clone, sugar: clone.Sugar(), level: l.level}
}

// Level returns the level the logger was created with.
func (l *Logger) Level() Level { return l.level }

// Sugar exposes the underlying SugaredLogger.
func (l *Logger) Sugar() *zap.SugaredLogger { return l.sugar }

func (l *Logger) Sync() error { return l.l.Sync() }

// ParseLevel converts a level name into a Level.
func ParseLevel(text string) (Level, error) {
	return zapcore.ParseLevel(text)
}

//nolint:gochecknoglobals // default logger plus delegates
var (
	std = New(os.Stderr, InfoLevel)

	Debug  = std.Debug
	Info   = std.Info
	Warn   = std.Warn
	Error  = std.Error
	Fatal  = std.Fatal
	Fatalf = std.Fatalf
)

// Default returns the package level logger.
func Default() *Logger { return std }

// ResetDefault replaces the package level logger and its delegates.
func ResetDefault(l *Logger) {
	std = l
	Debug = std.Debug
	Info = std.Info
	Warn = std.Warn
	Error = std.Error
	Fatal = std.Fatal
	Fatalf = std.Fatalf
}

type ctxKey struct{}

// AddToContext stores the logger in the context.
func AddToContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// GetFromContext returns the logger stored in the context or Default().
func GetFromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Default()
}
