package cache

import (
	"context"
	"testing"
	"time"

	"github.com/logiroute/internal/config"
	"github.com/logiroute/internal/models"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	if Enabled() || Client() != nil {
		t.Fatalf("cache should be disabled")
	}
	ctx := context.Background()
	if err := SetTracking(ctx, "TN1", map[string]string{"a": "b"}, time.Minute); err != nil {
		t.Fatalf("disabled set should be noop, got %v", err)
	}
	var out map[string]string
	hit, err := GetTracking(ctx, "TN1", &out)
	if err != nil || hit {
		t.Fatalf("disabled get should miss, hit=%v err=%v", hit, err)
	}
	if err := DelTracking(ctx, "TN1"); err != nil {
		t.Fatalf("disabled del should be noop, got %v", err)
	}
	state, hit, err := GetUserAuthState(ctx, 1)
	if state != nil || hit || err != nil {
		t.Fatalf("disabled auth state should miss")
	}
	if err := Close(); err != nil {
		t.Fatalf("close disabled cache: %v", err)
	}
}

func TestUnreachableRedisStaysDisabled(t *testing.T) {
	err := InitRedis(&config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1})
	if err == nil {
		t.Fatalf("expected ping error")
	}
	if Enabled() {
		t.Fatalf("cache must stay disabled after failed ping")
	}
}

func TestStoreKeys(t *testing.T) {
	s := &store{prefix: "lr"}
	if got := s.key(trackingKey(" TN42 ")...); got != "lr:track:TN42" {
		t.Fatalf("unexpected tracking key: %s", got)
	}
	if got := s.key(authStateKey(7)...); got != "lr:auth:user:7" {
		t.Fatalf("unexpected auth key: %s", got)
	}
}

func TestBuildUserAuthState(t *testing.T) {
	if BuildUserAuthState(nil) != nil {
		t.Fatalf("nil user should yield nil state")
	}
	user := &models.User{Role: "client", TokenVersion: 3}
	user.ID = 9
	state := BuildUserAuthState(user)
	if state.UserID != 9 || state.Role != "client" || state.TokenVersion != 3 || state.CachedAt == 0 {
		t.Fatalf("unexpected state: %+v", state)
	}
}
