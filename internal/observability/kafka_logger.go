package observability

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Compile-time interface verification.
var _ kafka.Logger = (*KafkaLogger)(nil)

// KafkaLogger adapts zerolog to kafka-go's Logger interface.
type KafkaLogger struct {
	logger zerolog.Logger
	level  zerolog.Level
}

// NewKafkaLogger returns a logger for the writer's routine messages, logged
// at debug level with a "component":"kafka" field.
func NewKafkaLogger(logger zerolog.Logger) *KafkaLogger {
	return &KafkaLogger{logger: WithComponent(logger, "kafka"), level: zerolog.DebugLevel}
}

// NewKafkaErrorLogger returns a logger for the writer's error messages,
// logged at error level.
func NewKafkaErrorLogger(logger zerolog.Logger) *KafkaLogger {
	return &KafkaLogger{logger: WithComponent(logger, "kafka"), level: zerolog.ErrorLevel}
}

// Printf implements kafka.Logger.
func (l *KafkaLogger) Printf(format string, args ...interface{}) {
	l.logger.WithLevel(l.level).Msg(fmt.Sprintf(format, args...))
}
