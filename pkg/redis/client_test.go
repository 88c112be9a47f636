package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/niyam-ai/compliance-os-backend/pkg/config"
)

type fakeCmdable struct {
	counts  map[string]int64
	expires map[string]time.Duration
}

func newFakeCmdable() *fakeCmdable {
	return &fakeCmdable{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCmdable) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.expires[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func TestIncrWithTTLSetsWindowOnce(t *testing.T) {
	fake := newFakeCmdable()
	client := &Client{store: fake}
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, err := client.IncrWithTTL(ctx, "rl:ip:login:10.0.0.1", time.Minute)
		if err != nil {
			t.Fatalf("incr %d: %v", want, err)
		}
		if count != want {
			t.Fatalf("count = %d, want %d", count, want)
		}
	}

	if ttl := fake.expires["rl:ip:login:10.0.0.1"]; ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", ttl)
	}
}

func TestIncrWithTTLUninitialized(t *testing.T) {
	var client Client
	if _, err := client.IncrWithTTL(context.Background(), "k", time.Minute); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
}

func TestNewRequiresURL(t *testing.T) {
	if _, err := New(context.Background(), config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url")
	}
}
