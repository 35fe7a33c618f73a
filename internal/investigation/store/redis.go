package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/edd1080/project-olympo-sub002/internal/investigation/models"
	id "github.com/edd1080/project-olympo-sub002/pkg/domain"
	"github.com/edd1080/project-olympo-sub002/pkg/platform/sentinel"
)

// DefaultKeyPrefix namespaces investigation keys in a shared Redis.
const DefaultKeyPrefix = "invc_"

// Redis persists records as JSON strings keyed by prefix + application id.
// Records carry no TTL: an investigation stays until its application is
// archived by an out-of-band job.
type Redis struct {
	client *redis.Client
	prefix string
}

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithKeyPrefix overrides the key namespace, mainly so parallel test runs
// and staging environments do not collide.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *Redis) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedis constructs a Redis-backed record store.
func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	s := &Redis{client: client, prefix: DefaultKeyPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Redis) key(applicationID id.ApplicationID) string {
	return s.prefix + string(applicationID)
}

// Save stores the record, replacing any prior version. Last write wins.
func (s *Redis) Save(ctx context.Context, record *models.Investigation) error {
	payload, err := encodeRecord(record)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(record.ApplicationID), payload, 0).Err(); err != nil {
		return fmt.Errorf("save investigation: %w", err)
	}
	return nil
}

// Find loads a record by application id.
func (s *Redis) Find(ctx context.Context, applicationID id.ApplicationID) (*models.Investigation, error) {
	payload, err := s.client.Get(ctx, s.key(applicationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find investigation: %w", err)
	}
	return decodeRecord(payload)
}
