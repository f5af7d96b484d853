package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestManager(t *testing.T) *CacheManager {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheManager(client)
}

func TestSafeSetStoresValue(t *testing.T) {
	cm := newTestManager(t)
	ctx := context.Background()

	SafeSet(ctx, cm.Exists, "student:u1", true, time.Minute)

	var got bool
	if err := cm.Exists.Get(ctx, "student:u1", &got); err != nil || !got {
		t.Errorf("got %v (err %v), want cached true", got, err)
	}
}

func TestInvalidateUserCacheDropsAllViews(t *testing.T) {
	cm := newTestManager(t)
	ctx := context.Background()

	seed := map[*CacheHelper][]string{
		cm.User:    {"id:u1", "list:page1"},
		cm.Profile: {"student:u1", "teacher:u1", "parent:u1"},
		cm.Exists:  {"student:u1"},
	}
	for helper, keys := range seed {
		for _, key := range keys {
			if err := helper.Set(ctx, key, cachedUser{ID: "u1"}, time.Minute); err != nil {
				t.Fatalf("Set %s failed: %v", key, err)
			}
		}
	}

	InvalidateUserCache(ctx, cm, "u1")

	var got cachedUser
	for helper, keys := range seed {
		for _, key := range keys {
			if err := helper.Get(ctx, key, &got); err != ErrCacheNotFound {
				t.Errorf("key %s%s survived invalidation (err %v)", helper.prefix, key, err)
			}
		}
	}
}

func TestInvalidateUserCacheLeavesOtherUsers(t *testing.T) {
	cm := newTestManager(t)
	ctx := context.Background()

	if err := cm.Profile.Set(ctx, "student:u2", cachedUser{ID: "u2"}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	InvalidateUserCache(ctx, cm, "u1")

	var got cachedUser
	if err := cm.Profile.Get(ctx, "student:u2", &got); err != nil {
		t.Errorf("unrelated user's profile view dropped: %v", err)
	}
}
