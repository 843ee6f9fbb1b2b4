package logger

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger implements Logger on top of zerolog. String and interface
// fields pass through a SensitiveDataFilter before they are written.
type ZeroLogger struct {
	zlog   *zerolog.Logger
	filter *SensitiveDataFilter
}

var _ Logger = (*ZeroLogger)(nil)

var callerMarshalOnce sync.Once

type options struct {
	out    io.Writer
	filter *FilterConfig
}

// Option customizes New.
type Option func(*options)

// WithOutput redirects log output. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithFilterConfig replaces the default sensitive field configuration.
func WithFilterConfig(cfg *FilterConfig) Option {
	return func(o *options) {
		o.filter = cfg
	}
}

// New creates a logger at the given level. Unknown levels fall back to info.
// When pretty is set output goes through zerolog's console writer.
func New(level string, pretty bool, opts ...Option) *ZeroLogger {
	callerMarshalOnce.Do(func() {
		zerolog.CallerMarshalFunc = shortCaller
	})

	o := options{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	out := o.out
	if pretty {
		out = zerolog.ConsoleWriter{Out: o.out, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(out).With().Timestamp().CallerWithSkipFrameCount(3).Logger()

	zLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zLevel = zerolog.InfoLevel
	}
	l = l.Level(zLevel)

	return &ZeroLogger{zlog: &l, filter: NewSensitiveDataFilter(o.filter)}
}

// NewNop returns a logger that discards everything.
func NewNop() *ZeroLogger {
	l := zerolog.Nop()
	return &ZeroLogger{zlog: &l, filter: NewSensitiveDataFilter(nil)}
}

func shortCaller(_ uintptr, file string, line int) string {
	base := filepath.Base(file)
	parent := filepath.Base(filepath.Dir(file))
	if parent != "." && parent != "" {
		return parent + "/" + base + ":" + strconv.Itoa(line)
	}
	return base + ":" + strconv.Itoa(line)
}

// WithContext returns the zerolog logger stored in ctx when there is one.
func (l *ZeroLogger) WithContext(ctx any) Logger {
	if c, ok := ctx.(context.Context); ok {
		zl := zerolog.Ctx(c)
		if zl == nil || zl.GetLevel() == zerolog.Disabled {
			return l
		}
		return &ZeroLogger{zlog: zl, filter: l.filter}
	}
	return l
}

// WithFields returns a logger that attaches fields to every entry.
func (l *ZeroLogger) WithFields(fields map[string]any) Logger {
	if l.filter != nil {
		fields = l.filter.FilterFields(fields)
	}
	log := l.zlog.With().Fields(fields).Logger()
	return &ZeroLogger{zlog: &log, filter: l.filter}
}
