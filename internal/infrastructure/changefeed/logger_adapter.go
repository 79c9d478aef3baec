package changefeed

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

// LoggerAdapter routes watermill logs into the service logger. Trace output
// is logged at debug.
type LoggerAdapter struct {
	logger *logging.Logger
}

func NewLoggerAdapter(logger *logging.Logger) *LoggerAdapter {
	if logger == nil {
		logger = logging.Default()
	}
	return &LoggerAdapter{logger: logger}
}

func (l *LoggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	l.logger.Error(msg, append(fieldArgs(fields), "error", err)...)
}

func (l *LoggerAdapter) Info(msg string, fields watermill.LogFields) {
	l.logger.Info(msg, fieldArgs(fields)...)
}

func (l *LoggerAdapter) Debug(msg string, fields watermill.LogFields) {
	l.logger.Debug(msg, fieldArgs(fields)...)
}

func (l *LoggerAdapter) Trace(msg string, fields watermill.LogFields) {
	l.logger.Debug(msg, fieldArgs(fields)...)
}

func (l *LoggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &LoggerAdapter{logger: l.logger.With(fieldArgs(fields)...)}
}

func fieldArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
