// File: internal/notify/lognotifier.go
package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier records notifications to the log instead of delivering them.
// Used for dry runs and when no broker is configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{log: logger.Named("notify.log")}
}

func (n *LogNotifier) NotifyAgent(ctx context.Context, agent, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.log.Info("Agent notification (not delivered)", zap.String("agent", agent), zap.String("message", message))
	return nil
}

func (n *LogNotifier) EmailCustomer(ctx context.Context, address, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.log.Info("Customer email (not delivered)", zap.String("to", address), zap.String("subject", subject))
	return nil
}
