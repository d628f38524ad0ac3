package logger

import (
	"context"
	"errors"
	log "log/slog"
)

// TeeHandler 将日志分发到多个 Handler
type TeeHandler struct {
	handlers []log.Handler
}

func (s *TeeHandler) Enabled(ctx context.Context, level log.Level) bool {
	for _, h := range s.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (s *TeeHandler) Handle(ctx context.Context, r log.Record) error {
	var errs []error
	for _, h := range s.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *TeeHandler) WithAttrs(attrs []log.Attr) log.Handler {
	next := make([]log.Handler, len(s.handlers))
	for i, h := range s.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &TeeHandler{handlers: next}
}

func (s *TeeHandler) WithGroup(name string) log.Handler {
	next := make([]log.Handler, len(s.handlers))
	for i, h := range s.handlers {
		next[i] = h.WithGroup(name)
	}
	return &TeeHandler{handlers: next}
}
