// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/skillbridge/skillbridge/internal/metrics"
	"github.com/skillbridge/skillbridge/internal/recommend"
)

// Subscriber consumes instrumentation events from the bus and records them
// into Prometheus. One Subscriber per process is enough.
type Subscriber struct {
	bus    *Bus
	logger zerolog.Logger
}

// NewSubscriber creates a Subscriber attached to bus.
func NewSubscriber(bus *Bus, logger zerolog.Logger) *Subscriber {
	return &Subscriber{
		bus:    bus,
		logger: logger.With().Str("component", "events-subscriber").Logger(),
	}
}

// Run subscribes to both topics and consumes until ctx is canceled or the
// bus closes. It blocks; run it on its own goroutine.
func (s *Subscriber) Run(ctx context.Context) error {
	scoring, err := s.bus.Subscribe(TopicScoringCompleted)
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}
	cacheHits, err := s.bus.Subscribe(TopicCacheHit)
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-scoring:
			if !ok {
				return nil
			}
			s.handleScoring(msg)
		case msg, ok := <-cacheHits:
			if !ok {
				return nil
			}
			s.handleCacheHit(msg)
		}
	}
}

func (s *Subscriber) handleScoring(msg *message.Message) {
	defer msg.Ack()

	var ev recommend.ScoringEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		s.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("discarding malformed scoring event")
		metrics.RecordEvent(TopicScoringCompleted, "dropped")
		return
	}

	metrics.RecordScoringPass(ev.Candidates, ev.Returned, ev.LatencyMS)
	metrics.RecordEvent(TopicScoringCompleted, "consumed")

	s.logger.Debug().
		Str("request_id", ev.RequestID).
		Int64("user_id", ev.UserID).
		Int("candidates", ev.Candidates).
		Int("returned", ev.Returned).
		Int64("latency_ms", ev.LatencyMS).
		Msg("scoring event consumed")
}

func (s *Subscriber) handleCacheHit(msg *message.Message) {
	defer msg.Ack()

	var ev recommend.CacheHitEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		s.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("discarding malformed cache-hit event")
		metrics.RecordEvent(TopicCacheHit, "dropped")
		return
	}

	metrics.RecordCacheHit()
	metrics.RecordEvent(TopicCacheHit, "consumed")
}
