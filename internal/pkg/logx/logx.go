/*
Package logx provides a structured logging wrapper based on zerolog for the relay server.

It initializes the process-wide logger (console output in development, JSON otherwise),
hands out component sub-loggers to long-lived services, and offers key-value helpers
for one-off events from code that holds no logger of its own.
*/
package logx

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceName is attached to every event.
const ServiceName = "relaychat"

// InitGlobalLogger configures the global zerolog instance.
// Development writes colored console output to stderr at Debug level; otherwise
// JSON goes to stdout at Info level. A non-empty level ("debug", "warn", ...)
// overrides the environment default; an unparsable one is ignored.
func InitGlobalLogger(isDevelopment bool, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var out io.Writer = os.Stdout
	if isDevelopment {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(out).
		Level(resolveLevel(isDevelopment, level)).
		With().
		Timestamp().
		Str("service", ServiceName).
		Caller().
		Logger()
}

func resolveLevel(isDevelopment bool, level string) zerolog.Level {
	if level != "" {
		if lvl, err := zerolog.ParseLevel(level); err == nil && lvl != zerolog.NoLevel {
			return lvl
		}
	}

	if isDevelopment {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// Logger returns a pointer to the global zerolog.Logger instance.
func Logger() *zerolog.Logger {
	return &log.Logger
}

// WithComponent returns a child of the global logger tagged with the given component name.
// Long-lived services keep the returned logger for their own events.
func WithComponent(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}

// checkFields validates that the variadic fields parameter has an even number (key-value pairs).
// If the count is odd, it logs a warning and returns nil to prevent zerolog from panicking.
func checkFields(level string, fields []any) []any {
	if len(fields)%2 != 0 {
		Logger().Warn().
			Int("fields_count", len(fields)).
			Str("log_level", level).
			Msgf("Logx call (%s) received odd number of fields: %v. Fields ignored.", level, fields)
		return nil
	}
	return fields
}

// emit finishes an event built by one of the level helpers below.
// The caller frame reported is the helper's caller.
func emit(event *zerolog.Event, level string, err error, msg string, fields []any) {
	if event == nil {
		return
	}
	if err != nil {
		event = event.Err(err)
	}

	event.
		Fields(checkFields(level, fields)).
		CallerSkipFrame(2).
		Msg(msg)
}

// Debug records msg with optional key-value fields at Debug level.
func Debug(msg string, fields ...any) {
	emit(Logger().Debug(), "Debug", nil, msg, fields)
}

// Info records msg with optional key-value fields at Info level.
func Info(msg string, fields ...any) {
	emit(Logger().Info(), "Info", nil, msg, fields)
}

// Warn records msg with optional key-value fields at Warn level.
func Warn(msg string, fields ...any) {
	emit(Logger().Warn(), "Warn", nil, msg, fields)
}

// Error records err and msg with optional key-value fields at Error level.
func Error(err error, msg string, fields ...any) {
	emit(Logger().Error(), "Error", err, msg, fields)
}

// Fatal records err and msg at Fatal level, then exits the process with status 1.
func Fatal(err error, msg string, fields ...any) {
	emit(Logger().Fatal(), "Fatal", err, msg, fields)
}
