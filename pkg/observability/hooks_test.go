package observability

import (
	"context"
	"testing"
	"time"
)

type testSessionHooks struct {
	creates int
	deletes int
}

func (h *testSessionHooks) OnCreate(context.Context, string, int, int) { h.creates++ }
func (h *testSessionHooks) OnDelete(context.Context, string, int)      { h.deletes++ }

type testRenderHooks struct {
	starts int
}

func (h *testRenderHooks) OnElementStart(context.Context, string, string) { h.starts++ }
func (h *testRenderHooks) OnElementComplete(context.Context, string, string, time.Duration, error) {
}
func (h *testRenderHooks) OnExport(context.Context, string, string, int, time.Duration, error) {}

type testFetchHooks struct {
	hits int
}

func (h *testFetchHooks) OnCacheHit(context.Context, string)                                 { h.hits++ }
func (h *testFetchHooks) OnCacheMiss(context.Context, string)                                {}
func (h *testFetchHooks) OnFetchComplete(context.Context, string, int, time.Duration, error) {}

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSessionHooks{}
	s.OnCreate(ctx, "abc", 800, 600)
	s.OnDelete(ctx, "abc", 3)

	r := NoopRenderHooks{}
	r.OnElementStart(ctx, "abc", "rectangle")
	r.OnElementComplete(ctx, "abc", "rectangle", time.Second, nil)
	r.OnExport(ctx, "abc", "pdf", 1024, time.Second, nil)

	f := NoopFetchHooks{}
	f.OnCacheHit(ctx, "https://example.com/a.png")
	f.OnCacheMiss(ctx, "https://example.com/a.png")
	f.OnFetchComplete(ctx, "https://example.com/a.png", 1024, time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()
	t.Cleanup(Reset)

	// Verify defaults are noop
	if _, ok := Session().(NoopSessionHooks); !ok {
		t.Error("Session() should return NoopSessionHooks by default")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Fetch().(NoopFetchHooks); !ok {
		t.Error("Fetch() should return NoopFetchHooks by default")
	}

	// Set custom hooks
	customSession := &testSessionHooks{}
	SetSessionHooks(customSession)
	if Session() != customSession {
		t.Error("SetSessionHooks should set custom hooks")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	customFetch := &testFetchHooks{}
	SetFetchHooks(customFetch)
	if Fetch() != customFetch {
		t.Error("SetFetchHooks should set custom hooks")
	}

	// Hooks actually receive events
	Session().OnCreate(context.Background(), "abc", 100, 100)
	if customSession.creates != 1 {
		t.Errorf("creates = %d, want 1", customSession.creates)
	}

	// Nil registrations are ignored
	SetSessionHooks(nil)
	if Session() != customSession {
		t.Error("SetSessionHooks(nil) should be a no-op")
	}

	// Reset restores noop defaults
	Reset()
	if _, ok := Session().(NoopSessionHooks); !ok {
		t.Error("Reset() should restore NoopSessionHooks")
	}
}
