package port

// Logger is the key/value logging interface for components that do not take a *zap.Logger.
// args alternate keys and values.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
