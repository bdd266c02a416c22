package log

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[Logger]

// Logger is a slog.Logger bound to one component. The component attribute is
// attached once, at construction.
type Logger struct {
	*slog.Logger
	component string
	root      slog.Handler
	attrs     []any
}

type Config struct {
	Level     slog.Level
	Component string
	Output    io.Writer
	Handler   slog.Handler
}

func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
		Output:    os.Stdout,
	}
}

// New creates a logger writing text records, unless cfg.Handler is set.
func New(cfg Config) *Logger {
	handler := cfg.Handler
	if handler == nil {
		out := cfg.Output
		if out == nil {
			out = os.Stdout
		}
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Level})
	}
	component := cfg.Component
	if component == "" {
		component = ComponentApp
	}
	return &Logger{
		Logger:    slog.New(handler).With(FieldComponent, component),
		component: component,
		root:      handler,
	}
}

// Wrap adopts an existing slog logger, e.g. slog.Default().
func Wrap(l *slog.Logger, component string) *Logger {
	if l == nil {
		l = slog.Default()
	}
	return &Logger{Logger: l.With(FieldComponent, component), component: component, root: l.Handler()}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		component: l.component,
		root:      l.root,
		attrs:     append(append([]any(nil), l.attrs...), args...),
	}
}

// WithComponent returns a logger tagged with a different component that keeps
// the attributes added through With.
func (l *Logger) WithComponent(component string) *Logger {
	root := l.root
	if root == nil {
		root = slog.Default().Handler()
	}
	args := append([]any{FieldComponent, component}, l.attrs...)
	return &Logger{
		Logger:    slog.New(root).With(args...),
		component: component,
		root:      root,
		attrs:     l.attrs,
	}
}

// SetDefault installs logger as the slog default and as the fallback for
// FromContext.
func SetDefault(logger *Logger) {
	defaultLogger.Store(logger)
	slog.SetDefault(logger.Logger)
}

func (l *Logger) Component() string {
	return l.component
}
