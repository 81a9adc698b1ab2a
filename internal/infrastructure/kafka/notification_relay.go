package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	pkgkafka "github.com/tandaclub/tanda/pkg/kafka"
)

// NotificationRelay consumes the domain event topic and fans events out as
// member notifications. Delivery is best effort: a failed notification is
// logged and never blocks the operation that raised the event.
type NotificationRelay struct {
	consumer *pkgkafka.Consumer
	logger   *slog.Logger
}

// NewNotificationRelay creates a relay reading the given topic.
func NewNotificationRelay(cfg pkgkafka.Config, topic string, logger *slog.Logger) *NotificationRelay {
	r := &NotificationRelay{logger: logger}
	r.consumer = pkgkafka.NewConsumer(cfg, topic, r.handle, logger)
	return r
}

// Start consumes events until the context is canceled.
func (r *NotificationRelay) Start(ctx context.Context) error {
	return r.consumer.Start(ctx)
}

// Close closes the underlying consumer.
func (r *NotificationRelay) Close() error {
	return r.consumer.Close()
}

// handle turns one event message into a notification. Malformed messages are
// dropped rather than retried so a poison event cannot wedge the group.
func (r *NotificationRelay) handle(ctx context.Context, msg pkgkafka.Message) error {
	eventType := msg.Headers["event_type"]
	if eventType == "" {
		r.logger.WarnContext(ctx, "discarding event without type header", "key", string(msg.Key))
		return nil
	}

	var payload struct {
		MemberID string `json:"member_id"`
		ToStatus string `json:"to_status"`
	}
	if len(msg.Value) > 0 {
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			r.logger.WarnContext(ctx, "discarding malformed event payload",
				"event_type", eventType,
				"key", string(msg.Key),
				"error", err,
			)
			return nil
		}
	}

	text, ok := notificationText(eventType, payload.ToStatus)
	if !ok {
		return nil
	}

	r.logger.InfoContext(ctx, "notification",
		"event_type", eventType,
		"aggregate_id", string(msg.Key),
		"member_id", payload.MemberID,
		"text", text,
	)
	return nil
}

// notificationText maps event types to the member-facing message. Events
// without an entry are internal and produce no notification.
func notificationText(eventType, toStatus string) (string, bool) {
	switch eventType {
	case "MemberJoinedGroup":
		return "you have joined the savings group", true
	case "MemberLeftGroup":
		return "you have left the savings group", true
	case "ContributionRecorded":
		return "your weekly contribution was recorded", true
	case "ContributionDeleted":
		return "your contribution was removed", true
	case "LoanRequested":
		return "your loan request was received", true
	case "LoanPaymentRegistered":
		return "your loan payment was registered", true
	case "LoanStatusChanged":
		switch toStatus {
		case "APPROVED":
			return "your loan was approved", true
		case "REJECTED":
			return "your loan was rejected", true
		case "PAID":
			return "your loan is fully repaid", true
		default:
			return "your loan status changed to " + toStatus, true
		}
	default:
		return "", false
	}
}
