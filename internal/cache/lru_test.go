// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLRU_BasicOperations(t *testing.T) {
	c := NewLRU[string, []float32](3, 0)

	c.Add("a", []float32{1})
	c.Add("b", []float32{2})
	c.Add("c", []float32{3})

	for _, key := range []string{"a", "b", "c"} {
		if _, found := c.Get(key); !found {
			t.Errorf("Expected to find key %q", key)
		}
	}
	if v, _ := c.Get("b"); v[0] != 2 {
		t.Errorf("Get(b) = %v, want [2]", v)
	}
	if c.Len() != 3 {
		t.Errorf("Expected len 3, got %d", c.Len())
	}

	c.Add("b", []float32{20})
	if v, _ := c.Get("b"); v[0] != 20 {
		t.Errorf("update did not replace value, got %v", v)
	}
	if c.Len() != 3 {
		t.Errorf("update changed len to %d", c.Len())
	}
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[string, int](3, 0)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	// Access 'a' so 'b' becomes least recently used
	c.Get("a")
	c.Add("d", 4)

	if _, found := c.Get("b"); found {
		t.Error("Expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, found := c.Get(key); !found {
			t.Errorf("Expected %q to be present", key)
		}
	}
	if s := c.Stats(); s.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", s.Evictions)
	}
}

func TestLRU_TTLExpiration(t *testing.T) {
	c := NewLRU[string, int](10, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Add("a", 1)
	if !c.Contains("a") {
		t.Fatal("Expected to find key 'a' immediately")
	}

	now = now.Add(2 * time.Minute)
	if c.Contains("a") {
		t.Error("Expected 'a' to be expired")
	}
	if _, found := c.Get("a"); found {
		t.Error("Get should not return expired entries")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed on Get, len = %d", c.Len())
	}
}

func TestLRU_CleanupExpired(t *testing.T) {
	c := NewLRU[int, int](10, time.Second)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	c.Add(1, 1)
	c.Add(2, 2)
	now = now.Add(2 * time.Second)
	c.Add(3, 3)

	if removed := c.CleanupExpired(); removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if !c.Contains(3) {
		t.Error("fresh entry should survive cleanup")
	}
}

func TestLRU_RemoveAndClear(t *testing.T) {
	c := NewLRU[string, int](5, 0)
	c.Add("a", 1)
	c.Add("b", 2)

	if !c.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if c.Remove("a") {
		t.Error("second Remove(a) = true, want false")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
	c.Add("c", 3)
	if _, ok := c.Get("c"); !ok {
		t.Error("cache unusable after Clear")
	}
}

func TestLRU_Stats(t *testing.T) {
	c := NewLRU[string, int](5, 0)
	c.Add("a", 1)
	c.Get("a")
	c.Get("missing")

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Size != 1 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[string, int](100, 0)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%150)
				c.Add(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}
