// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

// Package events carries recommendation events from the API to their
// consumers over Watermill.
//
// The bus runs in process on a Go channel by default, or over core NATS when
// several instances should share one stream. A Consumer subscribes once and
// fans every event out to its handlers: the analytics sink and the live feed.
package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// TopicDishRecommended is the topic for DishRecommended events.
const TopicDishRecommended = "dish.recommended"

// ErrInvalidEvent is returned when an event fails validation or decoding.
var ErrInvalidEvent = errors.New("invalid event")

// DishRecommended records one dish shown to a user.
type DishRecommended struct {
	EventID      string    `json:"event_id"`
	SessionID    string    `json:"session_id"`
	DishID       string    `json:"dish_id"`
	DishName     string    `json:"dish_name"`
	Stage        string    `json:"stage"`
	PoolSize     int       `json:"pool_size"`
	HistoryReset bool      `json:"history_reset"`
	Page         string    `json:"page,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewDishRecommended fills EventID and Timestamp.
func NewDishRecommended(sessionID, dishID, dishName, stage string, poolSize int) *DishRecommended {
	return &DishRecommended{
		EventID:   uuid.New().String(),
		SessionID: sessionID,
		DishID:    dishID,
		DishName:  dishName,
		Stage:     stage,
		PoolSize:  poolSize,
		Timestamp: time.Now().UTC(),
	}
}

// Validate checks required fields.
func (e *DishRecommended) Validate() error {
	switch {
	case e.EventID == "":
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	case e.DishID == "":
		return fmt.Errorf("%w: dish_id is required", ErrInvalidEvent)
	case e.Stage == "":
		return fmt.Errorf("%w: stage is required", ErrInvalidEvent)
	case e.Timestamp.IsZero():
		return fmt.Errorf("%w: timestamp is required", ErrInvalidEvent)
	}
	return nil
}

// Marshal encodes the event as JSON.
func (e *DishRecommended) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalDishRecommended decodes and validates an event payload.
func UnmarshalDishRecommended(data []byte) (*DishRecommended, error) {
	var e DishRecommended
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
