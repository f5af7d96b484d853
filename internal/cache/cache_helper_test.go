package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheHelper(client, "user:"), mr
}

type cachedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func TestCacheSetGet(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	want := cachedUser{ID: "u1", Username: "alice"}
	if err := helper.Set(ctx, "id:u1", want, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got cachedUser
	if err := helper.Get(ctx, "id:u1", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCacheGetMissing(t *testing.T) {
	helper, _ := newTestHelper(t)

	var got cachedUser
	if err := helper.Get(context.Background(), "id:none", &got); err != ErrCacheNotFound {
		t.Errorf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheDelete(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	if err := helper.Set(ctx, "id:u1", cachedUser{ID: "u1"}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := helper.Delete(ctx, "id:u1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var got cachedUser
	if err := helper.Get(ctx, "id:u1", &got); err != ErrCacheNotFound {
		t.Errorf("expected ErrCacheNotFound after delete, got %v", err)
	}
}

func TestCacheExists(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	if err := helper.Set(ctx, "id:u1", cachedUser{ID: "u1"}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if ok, err := helper.Exists(ctx, "id:u1"); err != nil || !ok {
		t.Errorf("Exists(id:u1) = %v, %v, want true", ok, err)
	}
	if ok, err := helper.Exists(ctx, "id:none"); err != nil || ok {
		t.Errorf("Exists(id:none) = %v, %v, want false", ok, err)
	}
}

func TestCacheInvalidatePattern(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	for _, key := range []string{"list:1", "list:2", "id:u1"} {
		if err := helper.Set(ctx, key, cachedUser{ID: key}, time.Minute); err != nil {
			t.Fatalf("Set %s failed: %v", key, err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "list:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	var got cachedUser
	if err := helper.Get(ctx, "list:1", &got); err != ErrCacheNotFound {
		t.Errorf("expected list:1 invalidated, got %v", err)
	}
	if err := helper.Get(ctx, "id:u1", &got); err != nil {
		t.Errorf("expected id:u1 to survive, got %v", err)
	}
}

func TestCacheOrExecute(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return cachedUser{ID: "u1", Username: "alice"}, nil
	}

	var got cachedUser
	if err := helper.CacheOrExecute(ctx, "id:u1", &got, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("got %+v, want alice", got)
	}

	// Second call must hit the cache, not the fetch function
	var again cachedUser
	if err := helper.CacheOrExecute(ctx, "id:u1", &again, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute (cached) failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
}

func TestNilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "user:")
	ctx := context.Background()

	if err := helper.Set(ctx, "id:u1", cachedUser{}, time.Minute); err != nil {
		t.Errorf("Set with nil client should be a no-op, got %v", err)
	}

	var got cachedUser
	if err := helper.Get(ctx, "id:u1", &got); err != ErrCacheNotAvailable {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}

	calls := 0
	err := helper.CacheOrExecute(ctx, "id:u1", &got, time.Minute, func() (interface{}, error) {
		calls++
		return cachedUser{ID: "u1"}, nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute with nil client failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
}
