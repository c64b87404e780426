package combat

import "go.uber.org/zap"

// Log is the per-encounter sink for human-readable combat narration. The
// Engine emits ordered messages; consumers only append and display, never
// parse. A Log is constructed per encounter and passed to the Engine, never
// a process-wide singleton.
type Log interface {
	Add(message string)
}

// MemoryLog is an ordered in-memory Log, suitable for UI display and tests.
// It is not safe for concurrent use.
type MemoryLog struct {
	messages []string
}

// NewMemoryLog creates an empty MemoryLog.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Add appends a message.
func (l *MemoryLog) Add(message string) {
	l.messages = append(l.messages, message)
}

// Messages returns a copy of all messages in emission order.
func (l *MemoryLog) Messages() []string {
	out := make([]string, len(l.messages))
	copy(out, l.messages)
	return out
}

// NopLog discards all messages.
type NopLog struct{}

// Add discards the message.
func (NopLog) Add(string) {}

// ZapLog forwards combat narration to a structured logger at info level.
type ZapLog struct {
	logger *zap.Logger
}

// NewZapLog creates a Log backed by logger.
//
// Precondition: logger must be non-nil.
func NewZapLog(logger *zap.Logger) *ZapLog {
	return &ZapLog{logger: logger}
}

// Add logs the message at info level under the "combat" key.
func (l *ZapLog) Add(message string) {
	l.logger.Info("combat", zap.String("event", message))
}
