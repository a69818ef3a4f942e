package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	c, err := NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	// Miss before any Set
	var got []byte
	hit, err := c.Get("https://example.com/a.png", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Fatal("expected miss before Set")
	}

	want := []byte{0x89, 0x50, 0x4e, 0x47}
	if err := c.Set("https://example.com/a.png", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	hit, err = c.Get("https://example.com/a.png", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(got) != string(want) {
		t.Errorf("Get = %v, want %v", got, want)
	}
}

func TestCacheExpiry(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Nanosecond)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	if err := c.Set("key", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	var v string
	hit, err := c.Get("key", &v)
	if hit {
		t.Error("expected expired entry to miss")
	}
	if !errors.Is(err, ErrExpired) {
		t.Errorf("err = %v, want ErrExpired", err)
	}
}

func TestCacheNamespace(t *testing.T) {
	c, err := NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	a := c.Namespace("a:")
	b := c.Namespace("b:")

	if err := a.Set("key", 1); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var v int
	if hit, _ := b.Get("key", &v); hit {
		t.Error("namespaces should not share keys")
	}
	if hit, _ := a.Get("key", &v); !hit || v != 1 {
		t.Errorf("hit = %v, v = %d, want hit with 1", hit, v)
	}
}

func TestCacheDelete(t *testing.T) {
	c, err := NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	if err := c.Set("key", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Delete("key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var v string
	if hit, _ := c.Get("key", &v); hit {
		t.Error("expected miss after Delete")
	}

	// Deleting again is not an error
	if err := c.Delete("key"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("transient")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("err = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Minute, func() error {
		return &RetryableError{Err: errors.New("transient")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
