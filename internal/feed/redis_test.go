package feed

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/talgya/cozy-town/internal/relations"
)

func newSink(t *testing.T, cfg Config) (*RedisSink, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSink(client, "session-1", cfg), client, mr
}

func TestPublishCapsList(t *testing.T) {
	sink, _, mr := newSink(t, Config{Prefix: "test", MaxList: 3})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		m := relations.Milestone{A: 1000, B: 1001, Stage: relations.StageFriend, Tick: uint64(i)}
		if err := sink.Publish(ctx, m); err != nil {
			t.Fatal(err)
		}
	}

	items, err := mr.List("test:milestones")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("list length = %d, want 3", len(items))
	}

	recent, err := sink.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 3 || recent[0].Tick != 2 || recent[2].Tick != 4 {
		t.Errorf("recent = %+v", recent)
	}
	if recent[0].Session != "session-1" || recent[0].Stage != "Friend" || recent[0].Romance {
		t.Errorf("message = %+v", recent[0])
	}
}

func TestPublishAnnouncesOnChannel(t *testing.T) {
	sink, client, _ := newSink(t, Config{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, sink.Channel())
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatal(err)
	}

	m := relations.Milestone{A: 1000, B: 1002, Stage: relations.StageDating, Tick: 7}
	if err := sink.Publish(ctx, m); err != nil {
		t.Fatal(err)
	}

	msg, err := sub.ReceiveMessage(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var got Message
	if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
		t.Fatal(err)
	}
	if got.Stage != "Dating" || !got.Romance || got.A != 1000 || got.B != 1002 {
		t.Errorf("message = %+v", got)
	}
}

func TestRunDrainsQueue(t *testing.T) {
	sink, _, mr := newSink(t, Config{Queue: 4})
	for i := 0; i < 4; i++ {
		if !sink.Enqueue(relations.Milestone{A: 1, B: 2, Stage: relations.StageCrush, Tick: uint64(i)}) {
			t.Fatalf("enqueue %d refused", i)
		}
	}
	if sink.Enqueue(relations.Milestone{A: 1, B: 2, Stage: relations.StageCrush}) {
		t.Error("enqueue beyond capacity should drop")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink.Run(ctx)

	items, err := mr.List("cozytown:milestones")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 4 {
		t.Errorf("published %d of 4 queued milestones", len(items))
	}
}

func TestStartWaitFlushesBeforeClose(t *testing.T) {
	sink, client, mr := newSink(t, Config{Queue: 16})
	ctx, cancel := context.WithCancel(context.Background())
	wait := sink.Start(ctx)

	for i := 0; i < 10; i++ {
		sink.Enqueue(relations.Milestone{A: 1, B: 2, Stage: relations.StageDating, Tick: uint64(i)})
	}
	cancel()
	wait()
	client.Close()

	items, err := mr.List("cozytown:milestones")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 10 {
		t.Errorf("published %d of 10 milestones before close", len(items))
	}
}
