package observability

import (
	"context"
	"log/slog"
)

// WSLogger provides structured logging for websocket connections of one hub.
type WSLogger struct {
	hubName string
	logger  *slog.Logger
}

// NewWSLogger creates a WSLogger for hubName writing to logger.
func NewWSLogger(hubName string, logger *slog.Logger) *WSLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSLogger{hubName: hubName, logger: logger}
}

// LogConnect logs a websocket connection event.
func (l *WSLogger) LogConnect(ctx context.Context, userID uint, connections int) {
	l.logger.InfoContext(ctx, "websocket connected",
		slog.String("hub", l.hubName),
		slog.Uint64("user_id", uint64(userID)),
		slog.Int("connections", connections),
	)
}

// LogDisconnect logs a websocket disconnection event.
func (l *WSLogger) LogDisconnect(ctx context.Context, userID uint, reason string) {
	l.logger.InfoContext(ctx, "websocket disconnected",
		slog.String("hub", l.hubName),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("reason", reason),
	)
}

// LogError logs a websocket error event.
func (l *WSLogger) LogError(ctx context.Context, userID uint, err error, eventType string) {
	l.logger.ErrorContext(ctx, "websocket error",
		slog.String("hub", l.hubName),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("event_type", eventType),
		slog.String("error", err.Error()),
	)
}

// LogEvent logs and counts an outbound feed event.
func (l *WSLogger) LogEvent(ctx context.Context, eventType string, targets string) {
	FeedEventsTotal.WithLabelValues(eventType).Inc()
	l.logger.DebugContext(ctx, "websocket event published",
		slog.String("hub", l.hubName),
		slog.String("event_type", eventType),
		slog.String("targets", targets),
	)
}
