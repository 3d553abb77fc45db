package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/lotes-erp/internal/application/inventory"
	"github.com/jhoicas/lotes-erp/internal/domain/entity"
	"github.com/jhoicas/lotes-erp/pkg/config"
)

var _ inventory.AuditSink = (*AuditStream)(nil)

// maxStreamLen tope aproximado del stream (XADD MAXLEN ~).
const maxStreamLen = 100_000

type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// AuditStream publica cada entrada de auditoría en un stream de Redis para consumidores externos.
type AuditStream struct {
	client streamAdder
	raw    *redis.Client
	stream string
}

// NewAuditStream conecta a Redis (REDIS_URL) y verifica la conexión.
func NewAuditStream(ctx context.Context, cfg config.RedisConfig) (*AuditStream, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	stream := cfg.AuditStream
	if stream == "" {
		stream = "lotes:audit"
	}
	return &AuditStream{client: raw, raw: raw, stream: stream}, nil
}

// Record agrega la entrada al stream.
func (s *AuditStream) Record(ctx context.Context, entry *entity.AuditLog) error {
	if s == nil || s.client == nil {
		return errors.New("redis client not initialized")
	}
	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]any{
			"id":        entry.ID,
			"user_id":   entry.UserID,
			"action":    entry.Action,
			"details":   string(entry.Details),
			"timestamp": entry.Timestamp.UTC().Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

// Close libera la conexión.
func (s *AuditStream) Close() error {
	if s == nil || s.raw == nil {
		return nil
	}
	return s.raw.Close()
}
