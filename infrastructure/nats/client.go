package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"todo-back/pkg/logger"
)

// Client wraps the NATS connection and the JetStream stream holding task events.
type Client struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	stream jetstream.Stream
}

type ClientConfig struct {
	URL  string // nats://localhost:4222
	Name string
}

func NewClient(cfg ClientConfig) (*Client, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	client := &Client{conn: nc, js: js}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.setupStream(ctx); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to setup stream: %w", err)
	}

	logger.Info("NATS client initialized", "url", cfg.URL, "stream", StreamName)
	return client, nil
}

func (c *Client) setupStream(ctx context.Context) error {
	stream, err := c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectEventsAll},
		Storage:     jetstream.FileStorage,
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      StreamMaxAge,
		Replicas:    1,
		Description: "Task board change events",
	})
	if err != nil {
		return fmt.Errorf("failed to create/update events stream: %w", err)
	}
	c.stream = stream
	return nil
}

func (c *Client) JetStream() jetstream.JetStream {
	return c.js
}

// StreamMessages returns how many events the stream currently retains.
func (c *Client) StreamMessages(ctx context.Context) (uint64, error) {
	info, err := c.stream.Info(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get stream info: %w", err)
	}
	return info.State.Msgs, nil
}

// PurgeStream drops every retained event.
func (c *Client) PurgeStream(ctx context.Context) error {
	if err := c.stream.Purge(ctx); err != nil {
		return fmt.Errorf("failed to purge events stream: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	if c.conn != nil {
		if err := c.conn.Drain(); err != nil {
			c.conn.Close()
		}
		logger.Info("NATS connection closed")
	}
	return nil
}

func (c *Client) Ping() error {
	return c.conn.FlushTimeout(5 * time.Second)
}

func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}
