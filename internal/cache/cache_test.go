// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cache

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetOrCompute_SecondCallIsAHit(t *testing.T) {
	c := New[string](NewMemStore())

	calls := 0
	compute := func() (string, error) {
		calls++
		return "value", nil
	}

	v, err := c.GetOrCompute(Key("a", "b"), compute)
	assert.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = c.GetOrCompute(Key("a", "b"), compute)
	assert.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, calls)
}

func TestGetOrCompute_ExpiryForcesRecompute(t *testing.T) {
	c := New(NewMemStore(), WithExpire[string](time.Hour))

	now := time.Now()
	c.now = func() time.Time { return now }

	calls := 0
	compute := func() (string, error) {
		calls++
		return fmt.Sprintf("v%d", calls), nil
	}

	v, _ := c.GetOrCompute(Key("k"), compute)
	assert.Equal(t, "v1", v)

	// Within the TTL: still a hit.
	now = now.Add(59 * time.Minute)
	v, _ = c.GetOrCompute(Key("k"), compute)
	assert.Equal(t, "v1", v)
	assert.Equal(t, 1, calls)

	// Past the TTL: the entry is evicted and compute runs again.
	now = now.Add(2 * time.Minute)
	v, _ = c.GetOrCompute(Key("k"), compute)
	assert.Equal(t, "v2", v)
	assert.Equal(t, 2, calls)
}

func TestGetOrCompute_EvictsOldestPastLimit(t *testing.T) {
	c := New(NewMemStore(), WithLimit[int](3))

	for i := 0; i < 5; i++ {
		i := i
		_, err := c.GetOrCompute(Key(i), func() (int, error) { return i, nil })
		assert.NoError(t, err)
	}

	entries := c.Entries()
	assert.Len(t, entries, 3)
	// Oldest-first eviction: 0 and 1 are gone, 2..4 remain in order.
	assert.Equal(t, Key(2), entries[0].Key)
	assert.Equal(t, Key(3), entries[1].Key)
	assert.Equal(t, Key(4), entries[2].Key)
}

func TestGetOrCompute_InsertEvictsExpiredOldest(t *testing.T) {
	c := New(NewMemStore(), WithExpire[string](time.Hour))

	now := time.Now()
	c.now = func() time.Time { return now }

	_, _ = c.GetOrCompute(Key("old"), func() (string, error) { return "stale", nil })

	// Well under the size limit, but inserting an unrelated key after the
	// TTL has passed still sweeps the expired entry off the front.
	now = now.Add(2 * time.Hour)
	_, _ = c.GetOrCompute(Key("new"), func() (string, error) { return "fresh", nil })

	entries := c.Entries()
	assert.Len(t, entries, 1)
	assert.Equal(t, Key("new"), entries[0].Key)
}

func TestGetOrCompute_ComputeErrorPropagatesUncached(t *testing.T) {
	c := New[string](NewMemStore())

	boom := errors.New("boom")
	_, err := c.GetOrCompute(Key("k"), func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, c.Entries())

	// The failed call must not have poisoned the key.
	v, err := c.GetOrCompute(Key("k"), func() (string, error) { return "ok", nil })
	assert.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestGetOrCompute_EmptyValueIsStillAHit(t *testing.T) {
	c := New[string](NewMemStore())

	calls := 0
	compute := func() (string, error) {
		calls++
		return "", nil
	}

	v, _ := c.GetOrCompute(Key("k"), compute)
	assert.Equal(t, "", v)
	_, _ = c.GetOrCompute(Key("k"), compute)
	assert.Equal(t, 1, calls)
}

func TestFlush_ThenMiss(t *testing.T) {
	c := New[string](NewMemStore())

	calls := 0
	compute := func() (string, error) {
		calls++
		return "v", nil
	}

	_, _ = c.GetOrCompute(Key("k"), compute)
	assert.NoError(t, c.Flush())
	assert.Empty(t, c.Entries())

	_, _ = c.GetOrCompute(Key("k"), compute)
	assert.Equal(t, 2, calls)
}

func TestGetOrCompute_SharedStoreSurvivesInstances(t *testing.T) {
	store := NewMemStore()

	first := New[string](store)
	_, _ = first.GetOrCompute(Key("k"), func() (string, error) { return "v", nil })

	// A fresh Cache over the same store sees the persisted entry.
	second := New[string](store)
	v, err := second.GetOrCompute(Key("k"), func() (string, error) {
		t.Fatal("compute must not run on a persisted hit")
		return "", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestGetOrCompute_CorruptBlobIsEmptyCache(t *testing.T) {
	store := NewMemStore()
	assert.NoError(t, store.Save([]byte("not json")))

	c := New[string](store)
	v, err := c.GetOrCompute(Key("k"), func() (string, error) { return "v", nil })
	assert.NoError(t, err)
	assert.Equal(t, "v", v)
	assert.Len(t, c.Entries(), 1)
}

func TestKey_OrderAndTypeSensitive(t *testing.T) {
	assert.Equal(t, Key("a", "b"), Key("a", "b"))
	assert.NotEqual(t, Key("a", "b"), Key("b", "a"))
	assert.NotEqual(t, Key("1"), Key(1))
	assert.NotEqual(t, Key("a", ""), Key("a"))
}

func TestSetLimit(t *testing.T) {
	c := New[string](NewMemStore())
	assert.NoError(t, c.SetLimit(10))
	assert.Error(t, c.SetLimit(0))
	assert.Error(t, c.SetLimit(-1))
}

func TestSetExpire(t *testing.T) {
	c := New[string](NewMemStore())
	assert.NoError(t, c.SetExpire(time.Minute))
	assert.Error(t, c.SetExpire(0))
	assert.Error(t, c.SetExpire(-time.Minute))
}
