package logger

import (
	"Devflow/internal/api/config"
	"io"
	log "log/slog"
	"os"
	"strings"
)

// LogWriter gin 访问日志的输出目标
var LogWriter io.Writer = os.Stdout

// InitLogger 按配置初始化全局 slog；配置了 file 时同时写入文件
func InitLogger(cfg config.LogConfig) error {
	opts := &log.HandlerOptions{Level: ParseLevel(cfg.Level)}
	stdout := newHandler(os.Stdout, cfg.Format, opts)

	var final log.Handler = stdout
	LogWriter = os.Stdout
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		// 文件只写 JSON，便于采集
		final = &TeeHandler{handlers: []log.Handler{stdout, log.NewJSONHandler(f, opts)}}
		LogWriter = io.MultiWriter(os.Stdout, f)
	}

	log.SetDefault(log.New(&ContextHandler{final}))
	return nil
}

// ParseLevel 未识别的级别按 info 处理
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.LevelDebug
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

func newHandler(w io.Writer, format string, opts *log.HandlerOptions) log.Handler {
	if strings.EqualFold(format, "text") {
		return log.NewTextHandler(w, opts)
	}
	return log.NewJSONHandler(w, opts)
}
