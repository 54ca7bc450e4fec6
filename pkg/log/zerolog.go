package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	perrors "github.com/YuminosukeSato/custsat/pkg/errors"
)

var (
	providerMu     sync.RWMutex
	globalProvider LoggerProvider = NewZerologProvider(LevelInfo)
)

func init() {
	// Warnings raised through pkg/errors land in the active provider.
	perrors.SetZerologWarnFunc(func(w error) {
		GetLoggerWithName("warnings").Warn(w.Error(), ErrorTypeKey, fmt.Sprintf("%T", w))
	})
}

// SetProvider replaces the package-level provider used by GetLogger.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	globalProvider = p
}

// GetLogger returns the default logger of the package-level provider.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return globalProvider.GetLogger()
}

// GetLoggerWithName returns a logger of the package-level provider tagged with
// a component name.
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return globalProvider.GetLoggerWithName(name)
}

// ZerologProvider is a LoggerProvider backed by zerolog.
type ZerologProvider struct {
	mu   sync.RWMutex
	base zerolog.Logger
}

// NewZerologProvider creates a provider writing JSON records to stderr.
func NewZerologProvider(level Level) *ZerologProvider {
	return NewZerologProviderWithWriter(os.Stderr, level)
}

// NewZerologProviderWithWriter creates a provider writing JSON records to w.
func NewZerologProviderWithWriter(w io.Writer, level Level) *ZerologProvider {
	return &ZerologProvider{
		base: zerolog.New(w).With().Timestamp().Logger().Level(toZerologLevel(level)),
	}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{logger: p.base}
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{logger: p.base.With().Str(ComponentKey, name).Logger()}
}

// SetLevel implements LoggerProvider.SetLevel. Loggers handed out earlier keep
// their level.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = p.base.Level(toZerologLevel(level))
}

type zerologLogger struct {
	logger zerolog.Logger
}

func (z *zerologLogger) Debug(msg string, fields ...any) { z.emit(z.logger.Debug(), msg, fields) }
func (z *zerologLogger) Info(msg string, fields ...any)  { z.emit(z.logger.Info(), msg, fields) }
func (z *zerologLogger) Warn(msg string, fields ...any)  { z.emit(z.logger.Warn(), msg, fields) }
func (z *zerologLogger) Error(msg string, fields ...any) { z.emit(z.logger.Error(), msg, fields) }

func (z *zerologLogger) With(fields ...any) Logger {
	return &zerologLogger{logger: z.logger.With().Fields(normalizeFields(fields)).Logger()}
}

func (z *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= z.logger.GetLevel()
}

func (z *zerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			e = e.AnErr(ErrAttrKey, err)
			if st := extractStacktrace(err); st != "" {
				e = e.Str(StacktraceAttrKey, st)
			}
			var detail zerolog.LogObjectMarshaler
			if errors.As(err, &detail) {
				e = e.Object("error_detail", detail)
			}
			fields = fields[1:]
		}
	}
	e.Fields(normalizeFields(fields)).Msg(msg)
}

// normalizeFields drops a dangling key so that zerolog never sees an odd list.
func normalizeFields(fields []any) []any {
	if len(fields)%2 == 1 {
		return fields[:len(fields)-1]
	}
	return fields
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
