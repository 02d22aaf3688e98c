// Package logger builds the process-wide *slog.Logger. Records are written by
// zerolog, as JSON by default or through zerolog's console writer.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Level       string
	Format      string
	Output      io.Writer
}

// New returns a slog logger backed by zerolog.
func New(opts Options) *slog.Logger {
	var output = opts.Output
	if output == nil {
		output = os.Stdout
	}
	if strings.EqualFold(opts.Format, FormatConsole) {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	base := zerolog.New(output).Level(toZerolog(ParseLevel(opts.Level)))
	if opts.ServiceName != "" {
		base = base.With().Str("service", opts.ServiceName).Logger()
	}

	return slog.New(&handler{base: base})
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else,
// including an empty string, is info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type field struct {
	key   string
	value slog.Value
}

type handler struct {
	base   zerolog.Logger
	fields []field
	prefix string
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return toZerolog(level) >= h.base.GetLevel()
}

func (h *handler) Handle(_ context.Context, rec slog.Record) error {
	event := h.base.WithLevel(toZerolog(rec.Level))
	if event == nil {
		return nil
	}

	if !rec.Time.IsZero() {
		event = event.Time(zerolog.TimestampFieldName, rec.Time)
	}
	for _, f := range h.fields {
		event = appendValue(event, f.key, f.value)
	}
	rec.Attrs(func(attr slog.Attr) bool {
		flatten(h.prefix, attr, func(key string, value slog.Value) {
			event = appendValue(event, key, value)
		})
		return true
	})

	event.Msg(rec.Message)
	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.fields = append(make([]field, 0, len(h.fields)+len(attrs)), h.fields...)
	for _, attr := range attrs {
		flatten(h.prefix, attr, func(key string, value slog.Value) {
			clone.fields = append(clone.fields, field{key: key, value: value})
		})
	}
	return &clone
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// flatten resolves attr and emits group members as dotted keys.
func flatten(prefix string, attr slog.Attr, emit func(key string, value slog.Value)) {
	value := attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if attr.Key != "" {
			groupPrefix = prefix + attr.Key + "."
		}
		for _, member := range value.Group() {
			flatten(groupPrefix, member, emit)
		}
		return
	}

	emit(prefix+attr.Key, value)
}

func appendValue(event *zerolog.Event, key string, value slog.Value) *zerolog.Event {
	switch value.Kind() {
	case slog.KindString:
		return event.Str(key, value.String())
	case slog.KindInt64:
		return event.Int64(key, value.Int64())
	case slog.KindUint64:
		return event.Uint64(key, value.Uint64())
	case slog.KindFloat64:
		return event.Float64(key, value.Float64())
	case slog.KindBool:
		return event.Bool(key, value.Bool())
	case slog.KindDuration:
		return event.Dur(key, value.Duration())
	case slog.KindTime:
		return event.Time(key, value.Time())
	default:
		if err, ok := value.Any().(error); ok {
			return event.AnErr(key, err)
		}
		return event.Interface(key, value.Any())
	}
}

func toZerolog(level slog.Level) zerolog.Level {
	switch {
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}
