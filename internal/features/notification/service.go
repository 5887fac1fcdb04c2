package notification

import (
	"context"
	"errors"
	"fmt"

	"go-approvals/internal/config"

	"go.uber.org/zap"
)

// Notifier delivers approval events. A returned error is informational: the
// approval state change that produced the event has already been persisted.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Sink is one delivery channel for events
type Sink interface {
	Name() string
	Send(ctx context.Context, event Event) error
}

type NotificationServiceImpl struct {
	Sinks  []Sink
	Logger *zap.Logger
}

func NewNotificationService(cfg *config.Config, hub *Hub, logger *zap.Logger) Notifier {
	sinks := []Sink{hub}
	if cfg.NotifyURL != "" {
		sinks = append(sinks, NewFunctionSink(cfg.NotifyURL, cfg.NotifySecret, cfg.NotifyTimeout))
	} else {
		logger.Warn("NOTIFY_URL not set, approval events are only broadcast over websocket")
	}
	return &NotificationServiceImpl{
		Sinks:  sinks,
		Logger: logger,
	}
}

// Notify sends the event to every sink and joins their failures
func (s *NotificationServiceImpl) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, sink := range s.Sinks {
		if err := sink.Send(ctx, event); err != nil {
			s.Logger.Warn("Failed to deliver approval event",
				zap.String("sink", sink.Name()),
				zap.String("type", string(event.Type)),
				zap.String("document_approval_id", event.DocumentApprovalID),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// NopNotifier drops every event
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Event) error { return nil }
