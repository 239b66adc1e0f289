// Package logger wraps zap with the structured logging conventions used by tickarc.
//
// Entries are JSON with a "message" key and ISO8601 times. Fields attached to a
// context with ContextWithFields are appended by the *Context methods, so a batch can
// tag every entry of one input without threading a logger through each call.
package logger

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a log severity name.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

const messageKey = "message"

// ParseLevel maps a case-insensitive level name onto a Level. Unknown names map to
// InfoLevel.
func ParseLevel(s string) Level {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case DebugLevel, WarnLevel, ErrorLevel:
		return l
	default:
		return InfoLevel
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Field is one key-value pair of a log entry.
type Field struct {
	Key   string
	Value any
}

// NewField returns a Field.
func NewField(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger writes structured entries through zap.
type Logger struct {
	z *zap.Logger
}

// New wraps an existing zap logger.
func New(z *zap.Logger) *Logger {
	return &Logger{z: z}
}

// NewWithWriter creates a Logger writing JSON entries at or above level to w.
func NewWithWriter(w io.Writer, level Level) *Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.MessageKey = messageKey
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), level.zapLevel())

	return New(zap.New(core, zap.AddCaller()))
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return New(zap.NewNop())
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

// WithFields returns a child logger that adds fields to every entry.
func (l *Logger) WithFields(fields ...Field) *Logger {
	return New(l.z.With(zapFields(fields)...))
}

func (l *Logger) Debug(message string, fields ...Field) {
	l.z.Debug(message, zapFields(fields)...)
}

func (l *Logger) Info(message string, fields ...Field) {
	l.z.Info(message, zapFields(fields)...)
}

func (l *Logger) Warn(message string, fields ...Field) {
	l.z.Warn(message, zapFields(fields)...)
}

// Error logs err.Error() as the message. When err carries a github.com/pkg/errors
// stack, that stack replaces the one zap would capture here.
func (l *Logger) Error(err error, fields ...Field) {
	if err == nil {
		return
	}

	ce := l.z.Check(zapcore.ErrorLevel, err.Error())
	if ce == nil {
		return
	}

	var st stackTracer
	if errors.As(err, &st) {
		ce.Stack = strings.TrimSpace(fmt.Sprintf("%+v", st.StackTrace()))
	}
	ce.Write(zapFields(fields)...)
}

func (l *Logger) DebugContext(ctx context.Context, message string, fields ...Field) {
	l.Debug(message, withContextFields(ctx, fields)...)
}

func (l *Logger) InfoContext(ctx context.Context, message string, fields ...Field) {
	l.Info(message, withContextFields(ctx, fields)...)
}

func (l *Logger) WarnContext(ctx context.Context, message string, fields ...Field) {
	l.Warn(message, withContextFields(ctx, fields)...)
}

func (l *Logger) ErrorContext(ctx context.Context, err error, fields ...Field) {
	l.Error(err, withContextFields(ctx, fields)...)
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func zapFields(fields []Field) []zapcore.Field {
	out := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		out[i] = zap.Any(f.Key, f.Value)
	}

	return out
}

type fieldsKey struct{}

// ContextWithFields returns a copy of ctx carrying fields after any already attached.
func ContextWithFields(ctx context.Context, fields ...Field) context.Context {
	return context.WithValue(ctx, fieldsKey{}, withContextFields(ctx, fields))
}

// FieldsFromContext returns the fields attached by ContextWithFields.
func FieldsFromContext(ctx context.Context) []Field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).([]Field)

	return fields
}

// withContextFields returns the context fields followed by fields, in a new slice.
func withContextFields(ctx context.Context, fields []Field) []Field {
	attached := FieldsFromContext(ctx)
	if len(attached) == 0 {
		return fields
	}

	out := make([]Field, 0, len(attached)+len(fields))
	out = append(out, attached...)

	return append(out, fields...)
}
