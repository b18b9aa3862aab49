// Package progress publishes per-student batch progress events over redis
// pub/sub so a web tier can stream them to the teacher's browser while a
// batch run is in flight.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/haneulclass/saengibu-backend/internal/logger"
)

type Event struct {
	RunID     string `json:"runId"`
	Student   string `json:"student"`
	Status    string `json:"status"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
	Total     int    `json:"total"`
}

type Bus interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type redisBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewBus connects to redis via REDIS_ADDR. Callers that run without redis
// should simply not construct a bus; the orchestrator's progress callback is
// optional.
func NewBus(log *logger.Logger) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_CHANNEL"))
	if ch == "" {
		ch = "batch-progress"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisBus{
		log:     log.With("service", "ProgressBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *redisBus) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, b.channel, payload).Err(); err != nil {
		b.log.Warn("progress publish failed", "run_id", ev.RunID, "error", err)
		return err
	}
	return nil
}

func (b *redisBus) Close() error {
	return b.rdb.Close()
}
