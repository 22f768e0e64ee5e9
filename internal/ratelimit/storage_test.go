package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newRateLimiter() *rate.Limiter {
	return rate.NewLimiter(1, 1)
}

func TestStorage_GetOrCreate(t *testing.T) {
	storage := NewStorage(time.Hour)
	defer storage.Stop()

	if storage.Get("missing") != nil {
		t.Error("Get should return nil for a missing key")
	}

	now := time.Now()
	first := storage.GetOrCreate("k", now, newRateLimiter)
	second := storage.GetOrCreate("k", now.Add(time.Second), newRateLimiter)
	if first != second {
		t.Error("GetOrCreate should return the existing entry")
	}
	if !second.LastSeen().Equal(now.Add(time.Second)) {
		t.Errorf("LastSeen = %v, want %v", second.LastSeen(), now.Add(time.Second))
	}
}

func TestStorage_ConcurrentAccess(t *testing.T) {
	storage := NewStorage(time.Hour)
	defer storage.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			storage.GetOrCreate(fmt.Sprintf("key-%d", i%10), time.Now(), newRateLimiter)
		}(i)
	}
	wg.Wait()

	if storage.Count() != 10 {
		t.Errorf("Count = %d, want 10", storage.Count())
	}
}

func TestStorage_Cleanup(t *testing.T) {
	storage := NewStorage(time.Hour)
	defer storage.Stop()

	now := time.Now()
	storage.GetOrCreate("fresh", now, newRateLimiter)
	storage.GetOrCreate("old", now.Add(-2*time.Hour), newRateLimiter)

	if storage.Count() != 2 {
		t.Errorf("Count = %d, want 2", storage.Count())
	}

	storage.cleanup(now)

	if storage.Get("fresh") == nil {
		t.Error("Fresh entry should not be cleaned up")
	}
	if storage.Get("old") != nil {
		t.Error("Old entry should be cleaned up")
	}
}

func TestStorage_Delete(t *testing.T) {
	storage := NewStorage(time.Hour)
	defer storage.Stop()

	storage.GetOrCreate("k", time.Now(), newRateLimiter)
	storage.Delete("k")

	if storage.Count() != 0 {
		t.Errorf("Count = %d, want 0", storage.Count())
	}
}

func TestStorage_Stop(t *testing.T) {
	storage := NewStorage(time.Hour)
	storage.GetOrCreate("k", time.Now(), newRateLimiter)

	storage.Stop()
	storage.Stop()

	if storage.Get("k") == nil {
		t.Error("Entries should still exist after Stop()")
	}
}
