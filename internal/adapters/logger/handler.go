package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/assetpipe/internal/ui/output"
	"go.trai.ch/assetpipe/internal/ui/style"
)

// clockLayout is the wall-clock prefix of every line, e.g. "[14:03:27]".
const clockLayout = "[15:04:05]"

// HandlerOptions configures a PrettyHandler.
type HandlerOptions struct {
	// Level is the minimum level written. It defaults to slog.LevelInfo.
	Level slog.Leveler
	// Clock prefixes each line with the record's wall-clock time.
	Clock bool
}

// PrettyHandler is a slog.Handler that writes one colored line per record,
// optionally prefixed with the time of day.
type PrettyHandler struct {
	out   *termenv.Output
	opts  HandlerOptions
	attrs []string
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to w, or to stderr
// when w is nil.
func NewPrettyHandler(w io.Writer, opts HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	return &PrettyHandler{out: output.New(w), opts: opts}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	msg, color := r.Message, style.Slate
	switch {
	case r.Level >= slog.LevelError:
		msg, color = style.Cross+" "+msg, style.Red
	case r.Level >= slog.LevelWarn:
		msg, color = style.Warning+" "+msg, style.Yellow
	}

	parts := append([]string(nil), h.attrs...)
	r.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, formatAttr(h.group, attr))
		return true
	})
	if len(parts) > 0 {
		msg += " " + strings.Join(parts, " ")
	}

	var b strings.Builder
	if h.opts.Clock && !r.Time.IsZero() {
		b.WriteString(h.out.String(r.Time.Format(clockLayout)).Faint().String())
		b.WriteByte(' ')
	}
	b.WriteString(h.out.String(msg).Foreground(termenv.RGBColor(string(color))).String())
	b.WriteByte('\n')

	_, err := h.out.WriteString(b.String())
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]string(nil), h.attrs...)
	for _, attr := range attrs {
		next.attrs = append(next.attrs, formatAttr(h.group, attr))
	}
	return &next
}

// WithGroup returns a new Handler whose later attributes are qualified by name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	next := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	next.group = name
	return &next
}

func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}
