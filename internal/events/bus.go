// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/dishpick/internal/metrics"
)

// Bus backends.
const (
	BackendMemory = "memory"
	BackendNATS   = "nats"
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus is closed")

// BusConfig selects and tunes the bus backend.
type BusConfig struct {
	Backend string

	// URL of the NATS server. Only used by the nats backend.
	URL string

	// BufferSize is the per-subscriber buffer of the memory backend.
	BufferSize int

	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultBusConfig returns an in-process bus.
func DefaultBusConfig() BusConfig {
	return BusConfig{
		Backend:       BackendMemory,
		BufferSize:    256,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// Bus publishes and subscribes to recommendation events.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	backend    string
	logger     watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

// NewBus creates a bus for cfg.Backend.
func NewBus(cfg BusConfig, logger watermill.LoggerAdapter) (*Bus, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	switch cfg.Backend {
	case "", BackendMemory:
		buffer := cfg.BufferSize
		if buffer <= 0 {
			buffer = DefaultBusConfig().BufferSize
		}
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: int64(buffer)}, logger)
		return &Bus{publisher: ch, subscriber: ch, backend: BackendMemory, logger: logger}, nil

	case BackendNATS:
		if cfg.URL == "" {
			return nil, fmt.Errorf("nats event bus requires a url")
		}
		opts := natsOptions(cfg, logger)

		// Core NATS: every instance sees every event, nothing is persisted.
		jsConfig := wmNats.JetStreamConfig{Disabled: true}

		pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
			URL:         cfg.URL,
			NatsOptions: opts,
			Marshaler:   &wmNats.NATSMarshaler{},
			JetStream:   jsConfig,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create nats publisher: %w", err)
		}

		sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
			URL:              cfg.URL,
			SubscribersCount: 1,
			CloseTimeout:     10 * time.Second,
			AckWaitTimeout:   30 * time.Second,
			NatsOptions:      opts,
			Unmarshaler:      &wmNats.NATSMarshaler{},
			JetStream:        jsConfig,
		}, logger)
		if err != nil {
			_ = pub.Close()
			return nil, fmt.Errorf("create nats subscriber: %w", err)
		}
		return &Bus{publisher: pub, subscriber: sub, backend: BackendNATS, logger: logger}, nil

	default:
		return nil, fmt.Errorf("unknown event bus backend %q", cfg.Backend)
	}
}

func natsOptions(cfg BusConfig, logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}
}

// Backend returns the active backend name.
func (b *Bus) Backend() string {
	return b.backend
}

// PublishDishRecommended publishes e on TopicDishRecommended.
func (b *Bus) PublishDishRecommended(ctx context.Context, e *DishRecommended) error {
	err := b.publish(ctx, e)
	metrics.RecordEventPublished(TopicDishRecommended, err)
	return err
}

func (b *Bus) publish(ctx context.Context, e *DishRecommended) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}
	if err := e.Validate(); err != nil {
		return err
	}

	payload, err := e.Marshal()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(e.EventID, payload)
	msg.Metadata.Set("event_type", TopicDishRecommended)
	msg.Metadata.Set("session_id", e.SessionID)
	msg.SetContext(ctx)

	if err := b.publisher.Publish(TopicDishRecommended, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicDishRecommended, err)
	}
	return nil
}

// Subscribe returns the message stream for topic. The stream closes when ctx
// is canceled or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrBusClosed
	}
	return b.subscriber.Subscribe(ctx, topic)
}

// Close shuts down both sides of the bus. It is safe to call more than once.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	if b.backend == BackendMemory {
		// gochannel is both publisher and subscriber
		return b.publisher.Close()
	}
	return errors.Join(b.publisher.Close(), b.subscriber.Close())
}
