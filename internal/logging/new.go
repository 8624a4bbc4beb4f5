package logging

import "io"

// New picks the backend by name: "zap" selects ZapLogger, anything else
// falls back to slog.
func New(w io.Writer, backend, format, level string) Logger {
	if backend == "zap" {
		return NewZapFromOptions(w, format, level)
	}
	return NewSlogFromOptions(w, format, level)
}
