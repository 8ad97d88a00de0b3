// Package bus wraps the NATS connection the service uses to receive analysis
// triggers and announce fresh scorecards.
package bus

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects the service participates in.
const (
	// SubjectConversationStored triggers analysis of a stored conversation.
	SubjectConversationStored = "support.conversation.stored"
	// SubjectScorecardUpdated announces a freshly written scorecard.
	SubjectScorecardUpdated = "support.scorecard.updated"
	// SubjectServiceRegistered announces the service coming online.
	SubjectServiceRegistered = "support.scorecard.registered"
)

// ConversationStoredEvent is the payload of SubjectConversationStored.
type ConversationStoredEvent struct {
	ConversationID string `json:"conversation_id"`
}

// ScorecardUpdatedEvent is the payload of SubjectScorecardUpdated.
type ScorecardUpdatedEvent struct {
	ConversationID   string  `json:"conversation_id"`
	OverallScore     float64 `json:"overall_score"`
	Sentiment        string  `json:"sentiment"`
	Resolution       bool    `json:"resolution"`
	EscalationNeeded bool    `json:"escalation_needed"`
	Trigger          string  `json:"trigger"` // "event", "sweep" or "api"
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
