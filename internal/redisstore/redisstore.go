package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/store"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces collection keys.
const KeyPrefix = "werkzeugverwaltung:"

const maxRetries = 10

var errConflict = errors.New("too many concurrent writers")

// Store keeps a collection as one JSON array under a single Redis key, the same
// document the file backend writes. Writes use optimistic locking with WATCH.
type Store[T store.Record[T]] struct {
	client *redis.Client
	key    string
}

// Connect creates a client and verifies the connection with PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	log.Printf("Redis connected (%s)", addr)
	return client, nil
}

// Open returns the store for collection name, writing seed if the key is absent.
func Open[T store.Record[T]](ctx context.Context, client *redis.Client, name string, seed []T) (*Store[T], error) {
	s := &Store[T]{client: client, key: KeyPrefix + name}
	if seed == nil {
		seed = []T{}
	}
	data, err := json.Marshal(seed)
	if err != nil {
		return nil, err
	}
	created, err := client.SetNX(ctx, s.key, data, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", s.key, err)
	}
	if created {
		log.Printf("store %s: seeded %d records", name, len(seed))
	}
	return s, nil
}

func (s *Store[T]) decode(data []byte) ([]T, error) {
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *Store[T]) load(ctx context.Context, c getter) ([]T, error) {
	data, err := c.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.decode(data)
}

// update runs mutate inside a WATCH transaction, retrying when another writer won the race.
func (s *Store[T]) update(ctx context.Context, mutate func([]T) ([]T, error)) error {
	txf := func(tx *redis.Tx) error {
		records, err := s.load(ctx, tx)
		if err != nil {
			return err
		}
		records, err = mutate(records)
		if err != nil {
			return err
		}
		data, err := json.Marshal(records)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxRetries; i++ {
		err := s.client.Watch(ctx, txf, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return errConflict
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	return s.load(ctx, s.client)
}

func (s *Store[T]) Create(ctx context.Context, rec T) (T, error) {
	var created T
	err := s.update(ctx, func(records []T) ([]T, error) {
		var out []T
		out, created = store.Append(records, rec)
		return out, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

func (s *Store[T]) Replace(ctx context.Context, rec T) (T, error) {
	err := s.update(ctx, func(records []T) ([]T, error) {
		return store.ReplaceByID(records, rec)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

func (s *Store[T]) Delete(ctx context.Context, id int) error {
	return s.update(ctx, func(records []T) ([]T, error) {
		return store.RemoveByID(records, id)
	})
}
