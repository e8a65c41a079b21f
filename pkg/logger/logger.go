package logger

import (
	"log/slog"
	"os"
)

var log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

// Init sets up the global logger. production logs JSON at info level,
// everything else logs text at debug level.
func Init(environment string) {
	if environment == "production" {
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	} else {
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	slog.SetDefault(log)
}

func Debug(msg string, args ...any) {
	log.Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	log.Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	log.Error(msg, normalize(args)...)
}

func Fatal(msg string, args ...any) {
	log.Error(msg, normalize(args)...)
	os.Exit(1)
}

// normalize lets callers pass a bare error or value, logger.Error("msg", err),
// next to the usual key/value pairs.
func normalize(args []any) []any {
	if len(args) == 1 {
		switch v := args[0].(type) {
		case error:
			return []any{slog.Any("error", v)}
		case slog.Attr:
			return args
		default:
			return []any{slog.Any("detail", v)}
		}
	}
	return args
}
