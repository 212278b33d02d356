package service

// Logger is the minimal logging contract services depend on.
// Tests pass a no-op implementation.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

// Info does nothing.
func (NopLogger) Info(msg string, keysAndValues ...interface{}) {}

// Error does nothing.
func (NopLogger) Error(msg string, keysAndValues ...interface{}) {}
