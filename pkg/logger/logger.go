package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config はロガーの設定。
type Config struct {
	Env   string // dev -> 読みやすいコンソール出力 / prod -> JSON
	Level string // trace, debug, info, warn, error
}

// zerologの薄いラッパー（DI用）。
type Logger struct {
	zl zerolog.Logger
}

// New は構造化ロガーを作る。devはコンソール、それ以外はJSON。
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "dev" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()

	//zerologのグローバルも差し替えておく
	log.Logger = zl

	return &Logger{zl: zl}
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With は固定フィールド付きのサブロガー用。
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}
