package logger

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Output encodings.
const (
	ConsoleEncoding = "console"
	JSONEncoding    = "json"
)

// New builds a logger for the given level and encoding. Unknown levels fall
// back to debug, unknown encodings to console.
func New(level, encoding string) *Logger {
	return newZapLogger(level, encoding)
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return FromZap(nil)
}
