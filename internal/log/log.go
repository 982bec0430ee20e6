package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LevelTrace is a custom trace level below debug
const LevelTrace = slog.Level(-8)

var (
	currentLevel atomic.Value // stores slog.Level

	mu         sync.Mutex // guards output and jsonFormat
	output     io.Writer = os.Stderr
	jsonFormat bool
)

func init() {
	level, err := parseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = slog.LevelInfo
	}
	jsonFormat = strings.ToUpper(os.Getenv("LOG_FORMAT")) == "JSON"

	currentLevel.Store(level)
	updateHandler()
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(s) {
	case "ERROR":
		return slog.LevelError, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "TRACE":
		return LevelTrace, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
}

// updateHandler installs a fresh default handler for the current settings.
func updateHandler() {
	mu.Lock()
	defer mu.Unlock()

	level := currentLevel.Load().(slog.Level)

	replace := func(timeFormat string, timeKey string) func([]string, slog.Attr) slog.Attr {
		return func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				t := a.Value.Time()
				if timeKey == "timestamp" {
					t = t.UTC()
				}
				return slog.Attr{Key: timeKey, Value: slog.StringValue(t.Format(timeFormat))}
			}
			if a.Key == slog.LevelKey && a.Value.Any().(slog.Level) == LevelTrace {
				return slog.Attr{Key: slog.LevelKey, Value: slog.StringValue("TRACE")}
			}
			return a
		}
	}

	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(output, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: replace(time.RFC3339Nano, "timestamp"),
		})
	} else {
		handler = slog.NewTextHandler(output, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: replace("2006-01-02 15:04:05.000-07:00", slog.TimeKey),
		})
	}

	slog.SetDefault(slog.New(handler))
}

// SetLogLevel atomically updates the log level at runtime
func SetLogLevel(level string) error {
	newLevel, err := parseLevel(level)
	if err != nil {
		return err
	}

	currentLevel.Store(newLevel)
	updateHandler()

	LogDebugWithFields("logging", "Log level changed", map[string]any{
		"new_level": level,
	})

	return nil
}

// SetOutput redirects log output. The CLI keeps stdout for results, so logs
// default to stderr; tests point this at a buffer.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
	updateHandler()
}

// SetJSON switches between the JSON and text handlers.
func SetJSON(enabled bool) {
	mu.Lock()
	jsonFormat = enabled
	mu.Unlock()
	updateHandler()
}

// GetLogLevel returns the current log level as a string
func GetLogLevel() string {
	level := currentLevel.Load().(slog.Level)

	switch level {
	case slog.LevelError:
		return "error"
	case slog.LevelWarn:
		return "warn"
	case slog.LevelInfo:
		return "info"
	case slog.LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return "unknown"
	}
}

func traceEnabled() bool {
	return currentLevel.Load().(slog.Level) <= LevelTrace
}

func Logf(format string, args ...any) {
	slog.Default().Info(fmt.Sprintf(format, args...))
}

func LogError(format string, args ...any) {
	slog.Default().Error(fmt.Sprintf(format, args...))
}

func LogWarn(format string, args ...any) {
	slog.Default().Warn(fmt.Sprintf(format, args...))
}

func LogDebug(format string, args ...any) {
	slog.Default().Debug(fmt.Sprintf(format, args...))
}

func LogTrace(format string, args ...any) {
	if traceEnabled() {
		slog.Default().Log(context.Background(), LevelTrace, fmt.Sprintf(format, args...))
	}
}

func buildArgs(component string, fields map[string]any) []any {
	args := make([]any, 0, len(fields)*2+2)
	args = append(args, "component", component)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}

func LogInfoWithFields(component, message string, fields map[string]any) {
	slog.Default().Info(message, buildArgs(component, fields)...)
}

func LogDebugWithFields(component, message string, fields map[string]any) {
	slog.Default().Debug(message, buildArgs(component, fields)...)
}

func LogErrorWithFields(component, message string, fields map[string]any) {
	slog.Default().Error(message, buildArgs(component, fields)...)
}

func LogWarnWithFields(component, message string, fields map[string]any) {
	slog.Default().Warn(message, buildArgs(component, fields)...)
}

func LogTraceWithFields(component, message string, fields map[string]any) {
	if traceEnabled() {
		slog.Default().Log(context.Background(), LevelTrace, message, buildArgs(component, fields)...)
	}
}
