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

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/dishpick/internal/metrics"
)

// DefaultMaxAttempts bounds redelivery of a message whose handlers keep failing.
const DefaultMaxAttempts = 3

// Handler receives consumed DishRecommended events.
type Handler interface {
	Name() string
	HandleDishRecommended(ctx context.Context, e *DishRecommended) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc struct {
	HandlerName string
	Fn          func(ctx context.Context, e *DishRecommended) error
}

func (h HandlerFunc) Name() string { return h.HandlerName }

func (h HandlerFunc) HandleDishRecommended(ctx context.Context, e *DishRecommended) error {
	return h.Fn(ctx, e)
}

// Consumer subscribes to TopicDishRecommended and fans each event out to its
// handlers. A message is acked once every handler succeeded and nacked
// otherwise, up to MaxAttempts deliveries. A redelivery only reaches the
// handlers that have not yet succeeded for that message.
type Consumer struct {
	bus         *Bus
	handlers    []Handler
	logger      zerolog.Logger
	MaxAttempts int

	ready     chan struct{}
	readyOnce sync.Once

	mu         sync.Mutex
	deliveries map[string]*delivery
}

// delivery tracks one message across redeliveries, keyed by message UUID.
type delivery struct {
	attempts int

	// done[i] is set once handlers[i] succeeded.
	done []bool
}

// NewConsumer creates a consumer for bus.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewConsumer(bus *Bus, logger zerolog.Logger, handlers ...Handler) *Consumer {
	return &Consumer{
		bus:         bus,
		handlers:    handlers,
		logger:      logger.With().Str("component", "event-consumer").Logger(),
		MaxAttempts: DefaultMaxAttempts,
		ready:       make(chan struct{}),
		deliveries:  make(map[string]*delivery),
	}
}

// Ready is closed once the consumer has subscribed.
func (c *Consumer) Ready() <-chan struct{} {
	return c.ready
}

// Run consumes until ctx is canceled or the subscription closes.
func (c *Consumer) Run(ctx context.Context) error {
	messages, err := c.bus.Subscribe(ctx, TopicDishRecommended)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicDishRecommended, err)
	}
	c.readyOnce.Do(func() { close(c.ready) })
	c.logger.Info().Int("handlers", len(c.handlers)).Msg("event consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("event subscription closed")
			}
			c.process(ctx, msg)
		}
	}
}

// Serve implements suture.Service.
func (c *Consumer) Serve(ctx context.Context) error {
	return c.Run(ctx)
}

func (c *Consumer) String() string {
	return "event-consumer"
}

func (c *Consumer) process(ctx context.Context, msg *message.Message) {
	e, err := UnmarshalDishRecommended(msg.Payload)
	if err != nil {
		// redelivering an undecodable payload cannot help
		c.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping invalid event")
		metrics.RecordEventConsumed(TopicDishRecommended, "invalid")
		msg.Ack()
		return
	}

	d := c.deliveryFor(msg.UUID)
	d.attempts++
	if err := c.dispatch(ctx, e, d); err != nil {
		attempt := d.attempts
		if attempt < c.MaxAttempts {
			c.logger.Warn().Err(err).
				Str("event_id", e.EventID).
				Int("attempt", attempt).
				Msg("event handler failed, requesting redelivery")
			metrics.RecordEventConsumed(TopicDishRecommended, "retry")
			msg.Nack()
			return
		}
		c.logger.Error().Err(err).
			Str("event_id", e.EventID).
			Int("attempts", attempt).
			Msg("event handler failed, giving up")
		metrics.RecordEventConsumed(TopicDishRecommended, "dropped")
		c.forget(msg.UUID)
		msg.Ack()
		return
	}

	c.forget(msg.UUID)
	metrics.RecordEventConsumed(TopicDishRecommended, "success")
	msg.Ack()
}

// dispatch runs every handler that has not yet succeeded for d.
func (c *Consumer) dispatch(ctx context.Context, e *DishRecommended, d *delivery) error {
	var errs []error
	for i, h := range c.handlers {
		if d.done[i] {
			continue
		}
		if err := h.HandleDishRecommended(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.Name(), err))
			continue
		}
		d.done[i] = true
	}
	return errors.Join(errs...)
}

func (c *Consumer) deliveryFor(id string) *delivery {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.deliveries[id]
	if !ok {
		d = &delivery{done: make([]bool, len(c.handlers))}
		c.deliveries[id] = d
	}
	return d
}

func (c *Consumer) forget(id string) {
	c.mu.Lock()
	delete(c.deliveries, id)
	c.mu.Unlock()
}

// pending returns the number of messages awaiting redelivery.
func (c *Consumer) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.deliveries)
}
