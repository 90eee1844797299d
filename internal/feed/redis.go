// Package feed publishes relationship milestones to Redis so a town UI can
// show them live (pub/sub) or catch up on recent ones (capped list).
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/talgya/cozy-town/internal/agents"
	"github.com/talgya/cozy-town/internal/relations"
)

const publishTimeout = 2 * time.Second

// Message is the JSON payload for one milestone.
type Message struct {
	Session string         `json:"session"`
	Tick    uint64         `json:"tick"`
	A       agents.AgentID `json:"a"`
	B       agents.AgentID `json:"b"`
	Stage   string         `json:"stage"`
	Romance bool           `json:"romance"`
}

// Config names the Redis keys a sink writes.
type Config struct {
	Prefix  string // key prefix, default "cozytown"
	MaxList int    // recent list length, default 200
	Queue   int    // Enqueue buffer, default 256
}

// RedisSink writes milestones to a capped list and a pub/sub channel.
type RedisSink struct {
	client  redis.Cmdable
	session string
	listKey string
	channel string
	maxList int
	queue   chan relations.Milestone
}

// NewRedisSink creates a sink on client. session is stamped on every message.
func NewRedisSink(client redis.Cmdable, session string, cfg Config) *RedisSink {
	if cfg.Prefix == "" {
		cfg.Prefix = "cozytown"
	}
	if cfg.MaxList <= 0 {
		cfg.MaxList = 200
	}
	if cfg.Queue <= 0 {
		cfg.Queue = 256
	}
	return &RedisSink{
		client:  client,
		session: session,
		listKey: cfg.Prefix + ":milestones",
		channel: cfg.Prefix + ":milestones:live",
		maxList: cfg.MaxList,
		queue:   make(chan relations.Milestone, cfg.Queue),
	}
}

// Channel returns the pub/sub channel name.
func (s *RedisSink) Channel() string { return s.channel }

// Publish appends m to the recent list, trims it, and announces it on the
// channel in one transaction.
func (s *RedisSink) Publish(ctx context.Context, m relations.Milestone) error {
	payload, err := json.Marshal(Message{
		Session: s.session,
		Tick:    m.Tick,
		A:       m.A,
		B:       m.B,
		Stage:   m.Stage.String(),
		Romance: m.Stage.Romantic(),
	})
	if err != nil {
		return fmt.Errorf("encode milestone: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, s.listKey, payload)
		p.LTrim(ctx, s.listKey, int64(-s.maxList), -1)
		p.Publish(ctx, s.channel, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish milestone: %w", err)
	}
	return nil
}

// Recent returns up to n of the newest messages, oldest first.
func (s *RedisSink) Recent(ctx context.Context, n int) ([]Message, error) {
	if n <= 0 {
		return nil, nil
	}
	items, err := s.client.LRange(ctx, s.listKey, int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read recent milestones: %w", err)
	}
	out := make([]Message, 0, len(items))
	for _, it := range items {
		var m Message
		if err := json.Unmarshal([]byte(it), &m); err != nil {
			slog.Warn("skipping bad feed entry", "error", err)
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Enqueue hands m to the background publisher without blocking. When the
// queue is full the milestone is dropped and false is returned.
func (s *RedisSink) Enqueue(m relations.Milestone) bool {
	select {
	case s.queue <- m:
		return true
	default:
		slog.Warn("feed queue full, dropping milestone", "stage", m.Stage, "a", m.A, "b", m.B)
		return false
	}
}

// Run publishes queued milestones until ctx is done, then flushes what is
// left in the queue. Each publish runs on its own timeout, detached from ctx.
func (s *RedisSink) Run(ctx context.Context) {
	for {
		select {
		case m := <-s.queue:
			s.publishOne(ctx, m)
		case <-ctx.Done():
			for {
				select {
				case m := <-s.queue:
					s.publishOne(ctx, m)
				default:
					return
				}
			}
		}
	}
}

// Start runs Run in the background. The returned wait blocks until Run has
// flushed the queue and returned; call it before closing the client.
func (s *RedisSink) Start(ctx context.Context) (wait func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	return func() { <-done }
}

func (s *RedisSink) publishOne(ctx context.Context, m relations.Milestone) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.Publish(ctx, m); err != nil {
		slog.Error("feed publish failed", "stage", m.Stage, "error", err)
	}
}
