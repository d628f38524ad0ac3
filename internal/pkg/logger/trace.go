package logger

import (
	"context"
	log "log/slog"
)

// TraceIDKey Context 中链路 ID 的键
const TraceIDKey = "trace_id"

// ContextHandler 从 ctx 中提取 trace_id 附加到每条日志
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		if traceID, ok := ctx.Value(TraceIDKey).(string); ok && traceID != "" {
			r.AddAttrs(log.String(TraceIDKey, traceID))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) log.Handler {
	return &ContextHandler{h.Handler.WithGroup(name)}
}

// WithTraceID 为后台任务生成带链路 ID 的 ctx
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}
