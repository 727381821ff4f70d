package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueName 是保存投票结算记录的 Redis 列表名
const DefaultQueueName = "undercover_rounds"

// RoundRecord 是一轮投票结算后的记录，供外部服务回放或统计
type RoundRecord struct {
	RoomID       string            `json:"room_id"`
	Round        int               `json:"round"`
	Ballots      map[string]string `json:"ballots"`
	EliminatedID string            `json:"eliminated_id,omitempty"`
	Outcome      string            `json:"outcome"`
	Forced       bool              `json:"forced"`
	Timestamp    int64             `json:"timestamp"`
}

type Recorder interface {
	RecordRound(ctx context.Context, record RoundRecord) error
	Close() error
}

// NopRecorder 在未配置 Redis 时使用，丢弃所有记录
type NopRecorder struct{}

func (NopRecorder) RecordRound(context.Context, RoundRecord) error { return nil }

func (NopRecorder) Close() error { return nil }

type RedisRecorder struct {
	rdb   *redis.Client
	queue string
}

// NewRedisRecorder 连接 Redis 并检查连通性
func NewRedisRecorder(ctx context.Context, addr string, db int, queue string) (*RedisRecorder, error) {
	if queue == "" {
		queue = DefaultQueueName
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return &RedisRecorder{
		rdb:   rdb,
		queue: queue,
	}, nil
}

func (rr *RedisRecorder) RecordRound(ctx context.Context, record RoundRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal RoundRecord: %w", err)
	}

	if err := rr.rdb.RPush(ctx, rr.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", rr.queue, err)
	}

	return nil
}

func (rr *RedisRecorder) Close() error {
	return rr.rdb.Close()
}
