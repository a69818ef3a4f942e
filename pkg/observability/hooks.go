// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about session lifecycle, element rendering, and image fetches.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSessionHooks(&mySessionHooks{})
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnElementStart(ctx, sessionID, kind)
//	// ... draw the element ...
//	observability.Render().OnElementComplete(ctx, sessionID, kind, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from the session registry.
type SessionHooks interface {
	// OnCreate records a new session with its canvas dimensions.
	OnCreate(ctx context.Context, sessionID string, width, height int)

	// OnDelete records session removal. elementCount is the size of the
	// element log at the time of deletion.
	OnDelete(ctx context.Context, sessionID string, elementCount int)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the rasterizer and exporters.
type RenderHooks interface {
	// Element events
	OnElementStart(ctx context.Context, sessionID, kind string)
	OnElementComplete(ctx context.Context, sessionID, kind string, duration time.Duration, err error)

	// Export events
	OnExport(ctx context.Context, sessionID, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Fetch Hooks
// =============================================================================

// FetchHooks receives events from image fetch operations.
type FetchHooks interface {
	// OnCacheHit records a fetch served from the local cache.
	OnCacheHit(ctx context.Context, url string)

	// OnCacheMiss records a fetch that had to go to the network.
	OnCacheMiss(ctx context.Context, url string)

	// OnFetchComplete records a completed network fetch.
	OnFetchComplete(ctx context.Context, url string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnCreate(context.Context, string, int, int) {}
func (NoopSessionHooks) OnDelete(context.Context, string, int)      {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnElementStart(context.Context, string, string) {}
func (NoopRenderHooks) OnElementComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopRenderHooks) OnExport(context.Context, string, string, int, time.Duration, error) {}

// NoopFetchHooks is a no-op implementation of FetchHooks.
type NoopFetchHooks struct{}

func (NoopFetchHooks) OnCacheHit(context.Context, string)                                 {}
func (NoopFetchHooks) OnCacheMiss(context.Context, string)                                {}
func (NoopFetchHooks) OnFetchComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	sessionHooks SessionHooks = NoopSessionHooks{}
	renderHooks  RenderHooks  = NoopRenderHooks{}
	fetchHooks   FetchHooks   = NoopFetchHooks{}
	hooksMu      sync.RWMutex
)

// SetSessionHooks registers custom session hooks.
// This should be called once at application startup before any sessions exist.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any draw operations.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetFetchHooks registers custom fetch hooks.
// This should be called once at application startup before any image fetches.
func SetFetchHooks(h FetchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		fetchHooks = h
	}
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Fetch returns the registered fetch hooks.
func Fetch() FetchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return fetchHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	sessionHooks = NoopSessionHooks{}
	renderHooks = NoopRenderHooks{}
	fetchHooks = NoopFetchHooks{}
}
