// Package publish sends computed search plans to NATS so dispatch and
// mapping consumers can pick them up.
package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nuid"
	"github.com/unklstewy/sar-scope/pkg/search"
)

// Header names set on every plan message.
const (
	HeaderPlanID    = "Sar-Plan-Id"
	HeaderRiskLevel = "Sar-Risk-Level"
	HeaderICAO      = "Sar-Icao"
)

// ErrNotConnected is returned by Publish before Connect succeeded.
var ErrNotConnected = errors.New("not connected to NATS")

// PlanMessage is the JSON body of a published plan.
type PlanMessage struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	ICAO      string       `json:"icao,omitempty"`
	Plan      *search.Plan `json:"plan"`
}

// msgConn is the part of *nats.Conn the publisher uses.
type msgConn interface {
	PublishMsg(m *nats.Msg) error
	Drain() error
	IsConnected() bool
}

// Publisher publishes plans on one subject. It is safe for concurrent use.
type Publisher struct {
	subject string

	mu   sync.Mutex
	conn msgConn
}

// NewPublisher creates a publisher for subject. Call Connect before Publish.
func NewPublisher(subject string) *Publisher {
	return &Publisher{subject: subject}
}

// Connect dials the NATS server. The connection reconnects forever on its own.
func (p *Publisher) Connect(natsURL string) error {
	nc, err := nats.Connect(natsURL, connectOptions("sar-scope-plan-publisher")...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	p.mu.Lock()
	p.conn = nc
	p.mu.Unlock()

	log.Printf("✓ NATS connected at %s, publishing plans on %s", natsURL, p.subject)
	return nil
}

// Subject returns the subject plans are published on.
func (p *Publisher) Subject() string {
	return p.subject
}

// Publish sends the plan and returns the message ID assigned to it.
func (p *Publisher) Publish(plan *search.Plan, icao string) (string, error) {
	if plan == nil {
		return "", fmt.Errorf("nil plan")
	}

	p.mu.Lock()
	conn := p.conn
	p.mu.Unlock()
	if conn == nil {
		return "", ErrNotConnected
	}

	msg := PlanMessage{
		ID:        nuid.Next(),
		CreatedAt: time.Now().UTC(),
		ICAO:      icao,
		Plan:      plan,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal plan: %w", err)
	}

	m := nats.NewMsg(p.subject)
	m.Data = data
	m.Header.Set(HeaderPlanID, msg.ID)
	m.Header.Set(HeaderRiskLevel, plan.Risk.Level.String())
	if icao != "" {
		m.Header.Set(HeaderICAO, icao)
	}

	if err := conn.PublishMsg(m); err != nil {
		return "", fmt.Errorf("failed to publish plan on %s: %w", p.subject, err)
	}
	return msg.ID, nil
}

// Connected reports whether the publisher currently has a live connection.
func (p *Publisher) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil && p.conn.IsConnected()
}

// Close drains pending messages and closes the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	conn := p.conn
	p.conn = nil
	p.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Drain()
}

func connectOptions(name string) []nats.Option {
	return []nats.Option{
		nats.Name(name),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Printf("⚠️  NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("🔌 NATS reconnected: %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}
}
