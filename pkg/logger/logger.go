package logger

import (
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Fields 구조화 로그 필드
type Fields = map[string]interface{}

// Logger wraps zerolog.Logger with the map-based field API used across the service.
type Logger struct {
	zl zerolog.Logger
}

type Config struct {
	Level       string // debug, info, warn, error, fatal
	Format      string // json, console
	Output      io.Writer
	EnableColor bool
	Service     string // attached to every entry when set
}

// ConfigForEnvironment: development은 debug + console, 그 외는 info + json.
func ConfigForEnvironment(env, service string) Config {
	if env == "development" {
		return Config{Level: "debug", Format: "console", EnableColor: true, Service: service}
	}
	return Config{Level: "info", Format: "json", Service: service}
}

var (
	mu     sync.RWMutex
	global *Logger
)

// Initialize replaces the process-wide logger.
func Initialize(cfg Config) {
	zerolog.SetGlobalLevel(parseLogLevel(cfg.Level))

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.EnableColor,
		}
	}

	zctx := zerolog.New(out).With().Timestamp()
	if cfg.Service != "" {
		zctx = zctx.Str("service", cfg.Service)
	}
	zl := zctx.Logger()

	mu.Lock()
	global = &Logger{zl: zl}
	mu.Unlock()
	log.Logger = zl
}

func parseLogLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Get returns the process-wide logger, creating a console logger on first use.
func Get() *Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}
	Initialize(Config{Level: "info", Format: "console", EnableColor: true})
	return Get()
}

// WithContext derives a logger that carries fields on every entry.
func (l *Logger) WithContext(fields Fields) *Logger {
	zctx := l.zl.With()
	for k, v := range fields {
		zctx = zctx.Interface(k, v)
	}
	return &Logger{zl: zctx.Logger()}
}

// write adds the caller two frames up and the optional field map.
func write(event *zerolog.Event, msg string, fields []Fields) {
	if event == nil {
		return
	}
	if pc, file, line, ok := runtime.Caller(2); ok {
		event = event.Str("caller", zerolog.CallerMarshalFunc(pc, file, line))
	}
	if len(fields) > 0 {
		event = event.Fields(fields[0])
	}
	event.Msg(msg)
}

func (l *Logger) Debug(msg string, fields ...Fields) { write(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...Fields)  { write(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...Fields)  { write(l.zl.Warn(), msg, fields) }

func (l *Logger) Error(msg string, err error, fields ...Fields) {
	write(l.zl.Error().Err(err), msg, fields)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, err error, fields ...Fields) {
	write(l.zl.Fatal().Err(err), msg, fields)
}

func Debug(msg string, fields ...Fields) { write(Get().zl.Debug(), msg, fields) }
func Info(msg string, fields ...Fields)  { write(Get().zl.Info(), msg, fields) }
func Warn(msg string, fields ...Fields)  { write(Get().zl.Warn(), msg, fields) }

func Error(msg string, err error, fields ...Fields) {
	write(Get().zl.Error().Err(err), msg, fields)
}

func Fatal(msg string, err error, fields ...Fields) {
	write(Get().zl.Fatal().Err(err), msg, fields)
}

func WithContext(fields Fields) *Logger {
	return Get().WithContext(fields)
}
