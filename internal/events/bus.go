// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

// Package events is the fire-and-forget instrumentation bus. The engine
// publishes scoring and cache-hit events; an in-process subscriber feeds
// them into Prometheus. Publishing never blocks the request path and a
// circuit breaker drops events instead of backing up when the bus wedges.
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/skillbridge/skillbridge/internal/metrics"
	"github.com/skillbridge/skillbridge/internal/recommend"
)

// Event topics.
const (
	TopicScoringCompleted = "recommendations.scoring_completed"
	TopicCacheHit         = "recommendations.cache_hit"
)

// Bus publishes engine instrumentation events over an in-process Watermill
// Pub/Sub. It implements recommend.Emitter.
type Bus struct {
	pubsub  *gochannel.GoChannel
	breaker *gobreaker.CircuitBreaker[interface{}]
	logger  zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// Config tunes the bus.
type Config struct {
	// BufferSize is the per-topic output channel buffer; events beyond
	// it are dropped rather than blocking publishers
	BufferSize int64
}

// DefaultConfig returns a 256-event buffer.
func DefaultConfig() Config {
	return Config{BufferSize: 256}
}

// NewBus creates the bus with its circuit breaker.
func NewBus(cfg Config, logger zerolog.Logger) *Bus {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}

	busLogger := logger.With().Str("component", "events").Logger()

	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            cfg.BufferSize,
			BlockPublishUntilSubscriberAck: false,
		},
		newLoggerAdapter(busLogger),
	)

	breaker := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name: "event-publish",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Bus{
		pubsub:  pubsub,
		breaker: breaker,
		logger:  busLogger,
	}
}

// EmitScoring publishes a completed scoring pass. It returns immediately;
// delivery happens on a separate goroutine.
func (b *Bus) EmitScoring(ev recommend.ScoringEvent) {
	go b.publish(TopicScoringCompleted, ev)
}

// EmitCacheHit publishes a cache hit. It returns immediately.
func (b *Bus) EmitCacheHit(ev recommend.CacheHitEvent) {
	go b.publish(TopicCacheHit, ev)
}

// Subscribe returns a message channel for topic. Used by the Prometheus
// subscriber and by tests.
func (b *Bus) Subscribe(topic string) (<-chan *message.Message, error) {
	msgs, err := b.pubsub.Subscribe(context.Background(), topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return msgs, nil
}

// Close shuts the bus down; in-flight events are dropped.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	return b.pubsub.Close()
}

func (b *Bus) publish(topic string, payload any) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	b.mu.RUnlock()

	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Warn().Err(err).Str("topic", topic).Msg("dropping unencodable event")
		metrics.RecordEvent(topic, "dropped")
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)

	_, err = b.breaker.Execute(func() (interface{}, error) {
		return nil, b.pubsub.Publish(topic, msg)
	})
	if err != nil {
		b.logger.Warn().Err(err).Str("topic", topic).Msg("dropping event, publish failed")
		metrics.RecordEvent(topic, "dropped")
		return
	}
	metrics.RecordEvent(topic, "published")
}
