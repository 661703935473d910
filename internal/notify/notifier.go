// File: internal/notify/notifier.go
// Description: Outbound notification dispatch. Agent alerts are published to
// a Kafka topic consumed by the crew dashboard; customer email goes out over
// SMTP.

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/voltride/crew-cli/internal/config"
)

// agentAlert is the JSON payload published for each agent notification.
type agentAlert struct {
	Agent   string    `json:"agent"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// CrewNotifier implements schemas.Notifier over Kafka and SMTP.
type CrewNotifier struct {
	writer *kafka.Writer
	smtp   config.SMTPConfig
	log    *zap.Logger
}

// New builds the notifier. Kafka brokers are required; SMTP may be left
// unconfigured, in which case customer email fails loudly rather than
// silently dropping mail.
func New(cfg config.NotifierConfig, logger *zap.Logger) (*CrewNotifier, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	return &CrewNotifier{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Kafka.Brokers...),
			Topic:    cfg.Kafka.Topic,
			Balancer: &kafka.LeastBytes{},
		},
		smtp: cfg.SMTP,
		log:  logger.Named("notify"),
	}, nil
}

// NotifyAgent publishes an alert keyed by agent name so alerts for one agent
// stay ordered within a partition.
func (n *CrewNotifier) NotifyAgent(ctx context.Context, agent, message string) error {
	payload, err := json.Marshal(agentAlert{Agent: agent, Message: message, SentAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal agent alert: %w", err)
	}
	msg := kafka.Message{Key: []byte(agent), Value: payload}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish agent alert: %w", err)
	}
	n.log.Info("Agent alert published", zap.String("agent", agent))
	return nil
}

// EmailCustomer sends the message over SMTP.
func (n *CrewNotifier) EmailCustomer(ctx context.Context, address, subject, body string) error {
	if n.smtp.Host == "" {
		return fmt.Errorf("smtp is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.smtp.From)
	fmt.Fprintf(&b, "To: %s\r\n", address)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(body)

	addr := fmt.Sprintf("%s:%d", n.smtp.Host, n.smtp.Port)
	var auth smtp.Auth
	if n.smtp.Username != "" {
		auth = smtp.PlainAuth("", n.smtp.Username, n.smtp.Password, n.smtp.Host)
	}
	if err := smtp.SendMail(addr, auth, n.smtp.From, []string{address}, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to send customer email: %w", err)
	}
	n.log.Info("Customer email sent", zap.String("to", address), zap.String("subject", subject))
	return nil
}

// Close flushes and closes the Kafka writer.
func (n *CrewNotifier) Close() error {
	return n.writer.Close()
}
