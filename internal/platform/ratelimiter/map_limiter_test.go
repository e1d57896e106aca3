package ratelimiter

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRejectsInvalidArgs(t *testing.T) {
	if New(0, 1, 0) != nil || New(1, 0, 0) != nil {
		t.Fatal("expected nil limiter for invalid args")
	}
}

func TestNilLimiterAllowsEverything(t *testing.T) {
	var l *MapLimiter
	if !l.Allow("get_account", time.Now()) {
		t.Fatal("nil limiter must allow")
	}
	if err := l.Wait(context.Background(), "get_account"); err != nil {
		t.Fatalf("nil limiter wait must not fail: %v", err)
	}
}

func TestAllowEnforcesBurstPerKey(t *testing.T) {
	l := New(1, 2, time.Minute)
	now := time.Unix(1700000000, 0)
	if !l.Allow("get_account", now) || !l.Allow("get_account", now) {
		t.Fatal("burst of two must be allowed")
	}
	if l.Allow("get_account", now) {
		t.Fatal("third call in the same instant must be limited")
	}
	if !l.Allow("get_program_accounts", now) {
		t.Fatal("keys must have independent buckets")
	}
	if !l.Allow("get_account", now.Add(time.Second)) {
		t.Fatal("token must refill after one second")
	}
	if l.Len() != 2 {
		t.Fatalf("expected two tracked keys, got %d", l.Len())
	}
}

func TestWaitHonoursContext(t *testing.T) {
	l := New(0.001, 1, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "k"); err != nil {
		t.Fatalf("first wait must use the burst token: %v", err)
	}
	if err := l.Wait(ctx, "k"); err == nil {
		t.Fatal("second wait must fail before the deadline")
	}
	cancelled, stop := context.WithCancel(context.Background())
	stop()
	if err := l.Wait(cancelled, ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("blank key must still report ctx error, got %v", err)
	}
}
