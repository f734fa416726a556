package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"LineSync/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestSplitsKey(t *testing.T) {
	if got := splitsKey("nfl", 501); got != "splits:nfl:501" {
		t.Fatalf("key=%s", got)
	}
}

func TestNopSplitsCache(t *testing.T) {
	var c SplitsCache = NopSplitsCache{}
	c.Set(context.Background(), "nfl", 1, &model.SplitsGame{GameID: 1})
	if _, ok := c.Get(context.Background(), "nfl", 1); ok {
		t.Fatalf("nop cache must always miss")
	}
}

// 后端不可达时读视为未命中、写静默失败
func TestRedisSplitsCache_BackendDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisSplitsCache(client, 0, testLogger())
	if c.ttl != DefaultSplitsTTL {
		t.Fatalf("ttl=%v want default", c.ttl)
	}
	ctx := context.Background()
	c.Set(ctx, "nfl", 501, &model.SplitsGame{ScoreID: 501})
	if got, ok := c.Get(ctx, "nfl", 501); ok || got != nil {
		t.Fatalf("unreachable backend should miss, got=%+v", got)
	}
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := NewRedisClient(ctx, "127.0.0.1:1", "", 0); err == nil {
		t.Fatalf("expected ping error")
	}
}
