// Package redis implements the result store on Redis so several machines can share results.
package redis

import (
	"context"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"
	"go.trai.ch/sdnode/internal/core/domain"
	"go.trai.ch/sdnode/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	fieldWidth    = "width"
	fieldHeight   = "height"
	fieldChannels = "channels"
	fieldPix      = "pix"

	scanBatch = 256
)

var _ ports.ResultStore = (*Store)(nil)

// Store implements ports.ResultStore with one hash per fingerprint.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the expiration of stored results. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Store connected to the server described by cfg.
func New(cfg domain.RedisConfig, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	base := []Option{WithTTL(cfg.TTL)}
	if cfg.Prefix != "" {
		base = append(base, WithPrefix(cfg.Prefix))
	}
	return NewFromClient(client, append(base, opts...)...)
}

// NewFromClient creates a Store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: domain.DefaultRedisPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(fp domain.Fingerprint) string {
	return s.prefix + "result:" + fp.String()
}

// Get returns the stored image for fp, or nil when there is none.
func (s *Store) Get(ctx context.Context, fp domain.Fingerprint) (*domain.Image, error) {
	fields, err := s.client.HGetAll(ctx, s.key(fp)).Result()
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "fingerprint", fp.String())
	}
	if len(fields) == 0 {
		return nil, nil
	}

	img := &domain.Image{Pix: []byte(fields[fieldPix])}
	for name, dst := range map[string]*int{
		fieldWidth:    &img.Width,
		fieldHeight:   &img.Height,
		fieldChannels: &img.Channels,
	} {
		v, err := strconv.Atoi(fields[name])
		if err != nil {
			err = zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error())
			err = zerr.With(err, "fingerprint", fp.String())
			return nil, zerr.With(err, "field", name)
		}
		*dst = v
	}

	if err := img.Validate(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "fingerprint", fp.String())
	}

	return img, nil
}

// Put stores img under fp.
func (s *Store) Put(ctx context.Context, fp domain.Fingerprint, img *domain.Image) error {
	if err := img.Validate(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	key := s.key(fp)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key,
		fieldWidth, img.Width,
		fieldHeight, img.Height,
		fieldChannels, img.Channels,
		fieldPix, img.Pix,
	)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "fingerprint", fp.String())
	}
	return nil
}

// Clean deletes every result under the prefix and returns how many were removed.
func (s *Store) Clean(ctx context.Context) (int, error) {
	var removed int
	iter := s.client.Scan(ctx, 0, s.prefix+"result:*", scanBatch).Iterator()

	var batch []string
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.client.Del(ctx, batch...).Result()
		if err != nil {
			return err
		}
		removed += int(n)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return removed, zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	if err := flush(); err != nil {
		return removed, zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	return removed, nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
