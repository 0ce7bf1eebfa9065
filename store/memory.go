package store

import (
	"context"
	"github.com/patrickmn/go-cache"
	"github.com/simple-als/wdals/handshake"
	log "github.com/sirupsen/logrus"
	"time"
)

// MemoryStore drops each ticket when it expires.
type MemoryStore struct {
	cache *cache.Cache
	now   func() time.Time
}

func (s *MemoryStore) Put(_ context.Context, host string, result *handshake.Result) error {
	ttl := result.ExpireTime().Sub(s.now())
	if ttl <= 0 {
		log.Debugf("not storing expired ticket of %s", host)
		return nil
	}
	r := *result
	s.cache.Set(host, &r, ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, host string) (*handshake.Result, error) {
	v, ok := s.cache.Get(host)
	if !ok {
		return nil, ErrNotFound
	}
	r := *v.(*handshake.Result)
	if r.Expired(s.now()) {
		s.cache.Delete(host)
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(cache.NoExpiration, time.Minute),
		now:   time.Now,
	}
}
