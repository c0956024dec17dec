// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

package events

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/skillbridge/internal/recommend"
)

func TestBusDeliversScoringEvents(t *testing.T) {
	bus := NewBus(DefaultConfig(), zerolog.Nop())
	defer bus.Close()

	msgs, err := bus.Subscribe(TopicScoringCompleted)
	require.NoError(t, err)

	sent := recommend.ScoringEvent{
		RequestID:  "req-1",
		UserID:     42,
		Candidates: 7,
		Scored:     5,
		Returned:   3,
		LatencyMS:  12,
		Timestamp:  time.Now().UTC(),
	}
	bus.EmitScoring(sent)

	select {
	case msg := <-msgs:
		var got recommend.ScoringEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		msg.Ack()

		assert.Equal(t, sent.RequestID, got.RequestID)
		assert.Equal(t, sent.UserID, got.UserID)
		assert.Equal(t, sent.Candidates, got.Candidates)
		assert.Equal(t, sent.Returned, got.Returned)
	case <-time.After(2 * time.Second):
		t.Fatal("scoring event never arrived")
	}
}

func TestBusDeliversCacheHitEvents(t *testing.T) {
	bus := NewBus(Config{BufferSize: 8}, zerolog.Nop())
	defer bus.Close()

	msgs, err := bus.Subscribe(TopicCacheHit)
	require.NoError(t, err)

	bus.EmitCacheHit(recommend.CacheHitEvent{
		RequestID: "req-2",
		UserID:    7,
		Key:       "rec:user:7:10:0",
		Timestamp: time.Now().UTC(),
	})

	select {
	case msg := <-msgs:
		var got recommend.CacheHitEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		msg.Ack()
		assert.Equal(t, "rec:user:7:10:0", got.Key)
	case <-time.After(2 * time.Second):
		t.Fatal("cache-hit event never arrived")
	}
}

func TestBusEmitDoesNotBlockWithoutSubscribers(t *testing.T) {
	bus := NewBus(Config{BufferSize: 1}, zerolog.Nop())
	defer bus.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			bus.EmitScoring(recommend.ScoringEvent{UserID: int64(i)})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("emit blocked the caller")
	}
}

func TestBusEmitAfterCloseIsNoop(t *testing.T) {
	bus := NewBus(DefaultConfig(), zerolog.Nop())
	require.NoError(t, bus.Close())

	bus.EmitScoring(recommend.ScoringEvent{UserID: 1})
	bus.EmitCacheHit(recommend.CacheHitEvent{UserID: 1})
	// Give the publish goroutines a moment; nothing should panic.
	time.Sleep(50 * time.Millisecond)

	assert.NoError(t, bus.Close(), "double close is safe")
}

func TestSubscriberConsumes(t *testing.T) {
	bus := NewBus(DefaultConfig(), zerolog.Nop())
	defer bus.Close()

	sub := NewSubscriber(bus, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- sub.Run(ctx) }()

	// Subscribe must settle before publishing.
	time.Sleep(50 * time.Millisecond)

	bus.EmitScoring(recommend.ScoringEvent{RequestID: "r", UserID: 1, Candidates: 3, Returned: 1})
	bus.EmitCacheHit(recommend.CacheHitEvent{RequestID: "r", UserID: 1, Key: "k"})

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop on cancel")
	}
}
