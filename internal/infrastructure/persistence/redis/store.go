// Package redis implements the localstore.Store contract on a Redis server.
// Meant for kiosk fleets that share one local network: every totem in the
// gym reads the same slots without each keeping its own data directory.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/treebjj/academy-hub/internal/infrastructure/persistence/localstore"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	// Host is the Redis server hostname.
	Host string

	// Port is the Redis server port.
	Port int

	// Password is the Redis authentication password (empty if no auth).
	Password string

	// DB is the Redis database number (0-15).
	DB int

	// KeyPrefix namespaces the slots, so several academies can share
	// one server.
	KeyPrefix string

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		KeyPrefix:    "academy:",
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ErrConnection is returned when the Redis server cannot be reached.
var ErrConnection = errors.New("redis store: connection failed")

// ══════════════════════════════════════════════════════════════════════════════
// SLOT STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store is the Redis-backed slot store. Slots are plain string keys under
// the configured prefix; payloads are stored verbatim.
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore connects to Redis and verifies the connection with a ping.
func NewStore(cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	return &Store{client: client, prefix: cfg.KeyPrefix}, nil
}

func (s *Store) key(slot string) string {
	return s.prefix + slot
}

// Load returns the slot's payload, or localstore.ErrSlotEmpty.
func (s *Store) Load(slot string) ([]byte, error) {
	data, err := s.client.Get(context.Background(), s.key(slot)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, localstore.ErrSlotEmpty
		}
		return nil, fmt.Errorf("load slot %s: %w", slot, err)
	}
	return data, nil
}

// Save replaces the slot's payload. Slots never expire.
func (s *Store) Save(slot string, payload []byte) error {
	if err := s.client.Set(context.Background(), s.key(slot), payload, 0).Err(); err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}
	return nil
}

// Clear removes the slot key.
func (s *Store) Clear(slot string) error {
	if err := s.client.Del(context.Background(), s.key(slot)).Err(); err != nil {
		return fmt.Errorf("clear slot %s: %w", slot, err)
	}
	return nil
}

// ClearAll removes every key under the prefix via SCAN, so other tenants
// on the same server are untouched.
func (s *Store) ClearAll() error {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("clear all slots: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan slots: %w", err)
	}
	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("clear all slots: %w", err)
		}
	}
	return nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ localstore.Store = (*Store)(nil)
