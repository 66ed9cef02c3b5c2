package cache

import (
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

var ErrNotFound = errors.New("cache: key not found")

// Set is a typed in-process cache keyed by string. All keys share one prefix so
// log lines tell the sets apart.
type Set[T any] struct {
	// m serializes the slow path of MutexGetSet
	m sync.Mutex

	prefix string
	c      *cache.Cache
}

func NewSet[T any](prefix string) *Set[T] {
	return &Set[T]{
		prefix: prefix + ":",
		c:      cache.New(cache.NoExpiration, time.Minute*10),
	}
}

func (s *Set[T]) key(key string) string {
	return s.prefix + key
}

func (s *Set[T]) Get(key string) (T, error) {
	var zero T
	v, ok := s.c.Get(s.key(key))
	if !ok {
		return zero, ErrNotFound
	}
	value, ok := v.(T)
	if !ok {
		return zero, ErrNotFound
	}
	return value, nil
}

func (s *Set[T]) Set(key string, value T, expire time.Duration) {
	if l := log.Trace(); l.Enabled() {
		l.Str("key", s.key(key)).Msg("setting value to cache")
	}
	s.c.Set(s.key(key), value, expire)
}

// MutexGetSet returns the cached value for key, or computes it with valueFunc
// while holding the set's lock, so concurrent misses on one key compute once.
// The boolean reports whether valueFunc ran.
func (s *Set[T]) MutexGetSet(key string, valueFunc func() (T, error), expire time.Duration) (T, bool, error) {
	if v, err := s.Get(key); err == nil {
		return v, false, nil
	}

	s.m.Lock()
	defer s.m.Unlock()

	if v, err := s.Get(key); err == nil {
		return v, false, nil
	}

	value, err := valueFunc()
	if err != nil {
		log.Error().Err(err).Str("key", s.key(key)).Msg("failed to get value from valueFunc() in MutexGetSet")
		var zero T
		return zero, true, err
	}

	s.Set(key, value, expire)
	return value, true, nil
}

func (s *Set[T]) Delete(key string) {
	s.c.Delete(s.key(key))
}

func (s *Set[T]) Flush() {
	s.c.Flush()
}

func (s *Set[T]) Len() int {
	return s.c.ItemCount()
}
