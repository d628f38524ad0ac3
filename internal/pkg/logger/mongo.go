package logger

import (
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/event"
)

const mongoCmdPreviewLen = 512

// NewMongoMonitor 命令开始记 debug，超过 slow 的命令记 warn，失败记 error
func NewMongoMonitor(slow time.Duration) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(ctx context.Context, evt *event.CommandStartedEvent) {
			if !log.Default().Enabled(ctx, log.LevelDebug) {
				return
			}
			cmd := evt.Command.String()
			if len(cmd) > mongoCmdPreviewLen {
				cmd = cmd[:mongoCmdPreviewLen] + "...[truncated]"
			}
			log.DebugContext(ctx, "mongo command",
				log.String("command", evt.CommandName),
				log.String("database", evt.DatabaseName),
				log.Int64("request_id", evt.RequestID),
				log.String("detail", cmd),
			)
		},
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			if evt.Duration > slow {
				log.WarnContext(ctx, "mongo slow command",
					log.String("command", evt.CommandName),
					log.Duration("latency", evt.Duration),
					log.Int64("request_id", evt.RequestID),
				)
			}
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			log.ErrorContext(ctx, "mongo command failed",
				log.String("command", evt.CommandName),
				log.Duration("latency", evt.Duration),
				log.Int64("request_id", evt.RequestID),
				log.Any("err", evt.Failure),
			)
		},
	}
}
