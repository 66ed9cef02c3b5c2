package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGetMiss(t *testing.T) {
	s := NewSet[string]("names")

	_, err := s.Get("1")
	assert.ErrorIs(t, err, ErrNotFound)

	s.Set("1", "Ada", time.Minute)
	v, err := s.Get("1")
	assert.NoError(t, err)
	assert.Equal(t, "Ada", v)

	s.Flush()
	assert.Equal(t, 0, s.Len())
}

func TestMutexGetSetComputesOnce(t *testing.T) {
	s := NewSet[int]("counts")
	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	v, computed, err := s.MutexGetSet("k", compute, time.Minute)
	assert.NoError(t, err)
	assert.True(t, computed)
	assert.Equal(t, 42, v)

	v, computed, err = s.MutexGetSet("k", compute, time.Minute)
	assert.NoError(t, err)
	assert.False(t, computed)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestMutexGetSetDoesNotCacheErrors(t *testing.T) {
	s := NewSet[int]("failing")
	boom := errors.New("boom")

	_, _, err := s.MutexGetSet("k", func() (int, error) { return 0, boom }, time.Minute)
	assert.ErrorIs(t, err, boom)

	_, err = s.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}
