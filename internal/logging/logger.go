// Package logging provides the logging interface shared by the server and
// the CLI, with a zerolog backend and a standard-library adapter.
package logging

import (
	"io"
	stdlog "log"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the unified logging interface used across the application.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
	Debug(msg string, fields ...Field)

	// Printf and Println keep call sites written against log.Logger working.
	Printf(format string, args ...any)
	Println(args ...any)
}

// Field is a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field { return Field{Key: key, Value: value} }
func Int(key string, value int) Field { return Field{Key: key, Value: value} }
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }
func Err(err error) Field              { return Field{Key: "error", Value: err} }

// Setup configures the process-wide zerolog logger and global level. The
// evaluators log through it once it is handed to bessel.SetLogger.
// Human-readable console output is used unless jsonOutput is set.
//
// Parameters:
//   - w: The destination of log records.
//   - level: The minimum level to emit.
//   - jsonOutput: Emit JSON lines instead of console formatting.
func Setup(w io.Writer, level zerolog.Level, jsonOutput bool) {
	zerolog.SetGlobalLevel(level)
	if jsonOutput {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

// ZerologAdapter adapts a zerolog.Logger to the Logger interface.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter creates a new Logger backed by zerolog.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewLogger creates a Logger writing JSON records tagged with component.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	return NewZerologAdapter(
		zerolog.New(w).With().Str("component", component).Timestamp().Logger(),
	)
}

func (z *ZerologAdapter) applyFields(event *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			event = event.Str(f.Key, v)
		case int:
			event = event.Int(f.Key, v)
		case float64:
			event = event.Float64(f.Key, v)
		case time.Duration:
			event = event.Dur(f.Key, v)
		case error:
			event = event.Err(v)
		case bool:
			event = event.Bool(f.Key, v)
		default:
			event = event.Interface(f.Key, v)
		}
	}
	return event
}

func (z *ZerologAdapter) Info(msg string, fields ...Field) {
	z.applyFields(z.logger.Info(), fields).Msg(msg)
}

func (z *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	z.applyFields(z.logger.Error().Err(err), fields).Msg(msg)
}

func (z *ZerologAdapter) Debug(msg string, fields ...Field) {
	z.applyFields(z.logger.Debug(), fields).Msg(msg)
}

func (z *ZerologAdapter) Printf(format string, args ...any) {
	z.logger.Info().Msgf(format, args...)
}

func (z *ZerologAdapter) Println(args ...any) {
	z.logger.Info().Msgf("%v", args)
}

// StdLoggerAdapter adapts a standard log.Logger to the Logger interface.
type StdLoggerAdapter struct {
	logger *stdlog.Logger
}

// NewStdLoggerAdapter creates a new Logger backed by a standard log.Logger.
func NewStdLoggerAdapter(logger *stdlog.Logger) *StdLoggerAdapter {
	return &StdLoggerAdapter{logger: logger}
}

func (s *StdLoggerAdapter) print(level, msg string, err error, fields []Field) {
	switch {
	case err != nil && len(fields) > 0:
		s.logger.Printf("[%s] %s: %v %v", level, msg, err, fields)
	case err != nil:
		s.logger.Printf("[%s] %s: %v", level, msg, err)
	case len(fields) > 0:
		s.logger.Printf("[%s] %s %v", level, msg, fields)
	default:
		s.logger.Printf("[%s] %s", level, msg)
	}
}

func (s *StdLoggerAdapter) Info(msg string, fields ...Field) { s.print("INFO", msg, nil, fields) }
func (s *StdLoggerAdapter) Error(msg string, err error, fields ...Field) {
	s.print("ERROR", msg, err, fields)
}
func (s *StdLoggerAdapter) Debug(msg string, fields ...Field) { s.print("DEBUG", msg, nil, fields) }
func (s *StdLoggerAdapter) Printf(format string, args ...any) { s.logger.Printf(format, args...) }
func (s *StdLoggerAdapter) Println(args ...any)               { s.logger.Println(args...) }
