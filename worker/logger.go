package worker

import (
	tlog "go.temporal.io/sdk/log"

	"github.com/YuminosukeSato/custsat/pkg/log"
)

// temporalLogger routes sdk log records into the process logger.
type temporalLogger struct {
	logger log.Logger
}

// NewTemporalLogger adapts l to the Temporal sdk logger interface.
func NewTemporalLogger(l log.Logger) tlog.Logger {
	return &temporalLogger{logger: l}
}

func (t *temporalLogger) Debug(msg string, keyvals ...interface{}) { t.logger.Debug(msg, keyvals...) }
func (t *temporalLogger) Info(msg string, keyvals ...interface{})  { t.logger.Info(msg, keyvals...) }
func (t *temporalLogger) Warn(msg string, keyvals ...interface{})  { t.logger.Warn(msg, keyvals...) }
func (t *temporalLogger) Error(msg string, keyvals ...interface{}) { t.logger.Error(msg, keyvals...) }

func (t *temporalLogger) With(keyvals ...interface{}) tlog.Logger {
	return &temporalLogger{logger: t.logger.With(keyvals...)}
}

var (
	_ tlog.Logger     = (*temporalLogger)(nil)
	_ tlog.WithLogger = (*temporalLogger)(nil)
)
