// Package redis persists topologies in Redis. Documents live under a
// common key prefix; an index set makes listing cheap.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	backend "github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/calyptra/synapse/pkg/plasm"
	"github.com/calyptra/synapse/pkg/storage"
)

const defaultPrefix = "synapse:topology"

// Store implements storage.TopologyStore over a Redis backend.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option customizes a Store.
type Option func(*Store)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithTTL expires stored topologies after d. Zero keeps them forever.
func WithTTL(d time.Duration) Option {
	return func(s *Store) { s.ttl = d }
}

// NewFromClient wraps an existing Redis client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{client: client, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New connects to addr and wraps the resulting client.
func New(addr string, opts ...Option) *Store {
	return NewFromClient(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

func (s *Store) key(name string) string {
	return s.prefix + ":" + name
}

func (s *Store) indexKey() string {
	return s.prefix + ":index"
}

func (s *Store) Save(ctx context.Context, name string, doc plasm.Document) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal topology %q: %w", name, err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(name), raw, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save topology %q: %w", name, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, name string) (plasm.Document, error) {
	raw, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, backend.Nil) {
		return plasm.Document{}, storage.ErrNotFound
	}
	if err != nil {
		return plasm.Document{}, fmt.Errorf("load topology %q: %w", name, err)
	}
	var doc plasm.Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return plasm.Document{}, fmt.Errorf("decode topology %q: %w", name, err)
	}
	return doc, nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list topologies: %w", err)
	}
	// Index entries may outlive expired documents; drop the stale ones.
	live := names[:0]
	for _, name := range names {
		n, err := s.client.Exists(ctx, s.key(name)).Result()
		if err != nil {
			return nil, fmt.Errorf("list topologies: %w", err)
		}
		if n > 0 {
			live = append(live, name)
		} else {
			_ = s.client.SRem(ctx, s.indexKey(), name).Err()
		}
	}
	sort.Strings(live)
	return live, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(name))
	pipe.SRem(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete topology %q: %w", name, err)
	}
	return nil
}
