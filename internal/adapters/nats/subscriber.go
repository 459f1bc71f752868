package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/samirrijal/begiramap/internal/core/domain"
)

// Subscriber consumes map events off the bus. The WebSocket relay uses a
// raw connection instead; this consumer exists for backend collaborators
// (the assistant panel service, session recorders) that want durable
// delivery.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber sharing a NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeSelections delivers landmark selection changes durably. An empty
// id means the selection was cleared.
func (s *Subscriber) SubscribeSelections(ctx context.Context, durable string, handler func(ctx context.Context, landmarkID string) error) error {
	sub, err := s.js.Subscribe(SubjectSelection, func(msg *nats.Msg) {
		if err := handler(ctx, string(msg.Data)); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(durable),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// SubscribeNotices delivers non-blocking user notices durably.
func (s *Subscriber) SubscribeNotices(ctx context.Context, durable string, handler func(ctx context.Context, n domain.Notice) error) error {
	sub, err := s.js.Subscribe(SubjectNotice, func(msg *nats.Msg) {
		var n domain.Notice
		if err := json.Unmarshal(msg.Data, &n); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, n); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(durable),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// SubscribeViewports delivers camera snapshots best-effort off the core
// connection; only the newest snapshot matters.
func (s *Subscriber) SubscribeViewports(ctx context.Context, handler func(ctx context.Context, vp domain.Viewport) error) error {
	sub, err := s.conn.Subscribe(SubjectViewport, func(msg *nats.Msg) {
		var vp domain.Viewport
		if err := json.Unmarshal(msg.Data, &vp); err != nil {
			return
		}
		_ = handler(ctx, vp)
	})
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
