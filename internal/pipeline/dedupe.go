package pipeline

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"realtor-feedback/pkg/utils"
)

// defaultDedupeTTL bounds how long a processed recording sid stays marked.
// Twilio retries webhooks for well under a day.
const defaultDedupeTTL = 24 * time.Hour

// RedisDedupe claims each recording sid once via SETNX so redelivered
// webhooks are not reprocessed.
type RedisDedupe struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDedupe(rdb *redis.Client, ttl time.Duration) *RedisDedupe {
	if ttl <= 0 {
		ttl = defaultDedupeTTL
	}
	return &RedisDedupe{rdb: rdb, ttl: ttl}
}

func (d *RedisDedupe) Mark(ctx context.Context, recordingSID string) (bool, error) {
	return utils.MarkRecordingProcessed(ctx, d.rdb, recordingSID, d.ttl)
}

func (d *RedisDedupe) Clear(ctx context.Context, recordingSID string) error {
	return utils.ClearRecordingMark(ctx, d.rdb, recordingSID)
}
