package publish

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"
)

// Subscriber receives the plans published on one subject.
type Subscriber struct {
	conn *nats.Conn
	sub  *nats.Subscription
}

// Subscribe connects to natsURL and calls handler for every plan published
// on subject. Messages that do not decode are logged and skipped. The
// handler runs on the NATS delivery goroutine.
func Subscribe(natsURL, subject string, handler func(PlanMessage)) (*Subscriber, error) {
	nc, err := nats.Connect(natsURL, connectOptions("sar-scope-plan-viewer")...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	sub, err := nc.Subscribe(subject, func(m *nats.Msg) {
		msg, err := DecodePlanMessage(m)
		if err != nil {
			log.Printf("⚠️  Skipping plan message: %v", err)
			return
		}
		handler(msg)
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	return &Subscriber{conn: nc, sub: sub}, nil
}

// DecodePlanMessage decodes a message sent by Publisher.Publish.
func DecodePlanMessage(m *nats.Msg) (PlanMessage, error) {
	var msg PlanMessage
	if err := json.Unmarshal(m.Data, &msg); err != nil {
		return PlanMessage{}, fmt.Errorf("failed to decode plan: %w", err)
	}
	if msg.Plan == nil {
		return PlanMessage{}, fmt.Errorf("message %s carries no plan", m.Header.Get(HeaderPlanID))
	}
	if msg.ID == "" {
		msg.ID = m.Header.Get(HeaderPlanID)
	}
	return msg, nil
}

// Close unsubscribes and closes the connection.
func (s *Subscriber) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	if err := s.sub.Unsubscribe(); err != nil {
		log.Printf("⚠️  Failed to unsubscribe: %v", err)
	}
	s.conn.Close()
	return nil
}
