package logger

import (
	"context"
	log "log/slog"
)

// TraceIDKey Context に入れる trace_id のキー
const TraceIDKey = "trace_id"

// ContextHandler ctx から trace_id を取り出して全ログへ付与するラッパー
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
			r.AddAttrs(log.String("trace_id", traceID))
		}
	}
	return h.Handler.Handle(ctx, r)
}
