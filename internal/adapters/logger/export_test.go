package logger

import "log/slog"

// DisableClock drops the time-of-day prefix so output is deterministic.
func (l *Logger) DisableClock() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clock = false
	l.logger = slog.New(newHandler(l.output, l.jsonMode, false))
}

var (
	CollectErrorEntriesExported = collectErrorEntries
	FormatErrorEntriesExported  = formatErrorEntries
)
