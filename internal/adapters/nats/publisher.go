package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/samirrijal/begiramap/internal/core/domain"
)

// Subjects carried on the bus. Engine commands and viewport snapshots are
// fire-and-forget broadcasts; selections and notices go through JetStream
// so a client that reconnects mid-session can replay what it missed.
const (
	SubjectEngineCommand = "map.engine.cmd"
	SubjectViewport      = "map.viewport"
	SubjectSelection     = "map.selection"
	SubjectNotice        = "map.notice"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
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

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "MAP_SELECTIONS",
			Subjects:  []string{SubjectSelection},
			Retention: nats.InterestPolicy,
			MaxAge:    1 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "MAP_NOTICES",
			Subjects:  []string{SubjectNotice},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist — try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishEngineCommand broadcasts a rendering instruction to connected
// clients. Commands are only meaningful against the engine state at the
// moment they are issued, so they do not go through JetStream.
func (p *Publisher) PublishEngineCommand(ctx context.Context, cmd domain.EngineCommand) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	return p.conn.Publish(SubjectEngineCommand, data)
}

// PublishViewport broadcasts the newest camera snapshot. Snapshots
// supersede each other, so there is nothing worth replaying.
func (p *Publisher) PublishViewport(ctx context.Context, vp domain.Viewport) error {
	data, err := json.Marshal(vp)
	if err != nil {
		return err
	}
	return p.conn.Publish(SubjectViewport, data)
}

func (p *Publisher) PublishSelection(ctx context.Context, landmarkID string) error {
	_, err := p.js.Publish(SubjectSelection, []byte(landmarkID))
	return err
}

func (p *Publisher) PublishNotice(ctx context.Context, n domain.Notice) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectNotice, data)
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
