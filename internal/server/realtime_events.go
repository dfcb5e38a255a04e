package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"snapshare/internal/middleware"
)

// Feed event types pushed over /api/ws.
const (
	EventPostCreated   = "post_created"
	EventPostLiked     = "post_liked"
	EventCommentAdded  = "comment_added"
	EventPostDeleted   = "post_deleted"
	EventFollowChanged = "follow_changed"
	EventError         = "error"
)

type feedEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func encodeEvent(eventType string, payload any) (string, bool) {
	eventJSON, err := json.Marshal(feedEvent{Type: eventType, Payload: payload})
	if err != nil {
		middleware.Logger.Error("failed to marshal feed event",
			slog.String("event", eventType), slog.String("error", err.Error()))
		return "", false
	}
	return string(eventJSON), true
}

// publishUserEvent delivers an event to every connection of userID. With
// Redis the event goes through pub/sub so that every instance, this one
// included, delivers it; without Redis it goes straight to the local hub.
func (s *Server) publishUserEvent(ctx context.Context, userID uint, eventType string, payload any) {
	message, ok := encodeEvent(eventType, payload)
	if !ok {
		return
	}
	ctx = context.WithoutCancel(ctx)
	s.wsLogger.LogEvent(ctx, eventType, "user:"+strconv.FormatUint(uint64(userID), 10))

	if s.notifier != nil && s.notifier.Enabled() {
		err := s.notifier.PublishUser(ctx, userID, message)
		if err == nil {
			return
		}
		s.wsLogger.LogError(ctx, userID, err, eventType)
	}
	s.hub.Broadcast(userID, message)
}

// publishBroadcastEvent delivers an event to every connected client.
func (s *Server) publishBroadcastEvent(ctx context.Context, eventType string, payload any) {
	message, ok := encodeEvent(eventType, payload)
	if !ok {
		return
	}
	ctx = context.WithoutCancel(ctx)
	s.wsLogger.LogEvent(ctx, eventType, "all")

	if s.notifier != nil && s.notifier.Enabled() {
		err := s.notifier.PublishBroadcast(ctx, message)
		if err == nil {
			return
		}
		s.wsLogger.LogError(ctx, 0, err, eventType)
	}
	s.hub.BroadcastAll(message)
}
