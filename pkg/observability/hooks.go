// Package observability lets the loader, viewer, cache and HTTP layers report
// events without importing a logging or metrics backend.
//
// Each event family has one process-wide slot holding a no-op until a binary
// installs something else. The nightsky CLI installs debug-level loggers:
//
//	observability.SetInteractionHooks(logHooks{logger: l})
//
// and emitters read the slot at the call site:
//
//	observability.Interaction().OnClick(ctx, x, y, id)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// LoadHooks receives events about sky documents being loaded and laid out.
type LoadHooks interface {
	OnLoadStart(ctx context.Context, name string)
	OnLoadComplete(ctx context.Context, name string, nodeCount, linkCount int, duration time.Duration, err error)

	// OnLayoutSettled fires when the layout engine cools below its
	// threshold and stops.
	OnLayoutSettled(ctx context.Context, ticks int)
}

// InteractionHooks receives user interaction events.
type InteractionHooks interface {
	// OnClick records a hit-test. nodeID is empty on a miss.
	OnClick(ctx context.Context, x, y float64, nodeID string)

	// OnFilter records a filter refresh and whether the bounds were reset.
	OnFilter(ctx context.Context, lo, hi int, reset bool)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records a transport failure (connection refused, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// Noop hooks are the slot defaults.
type (
	NoopLoadHooks        struct{}
	NoopInteractionHooks struct{}
	NoopCacheHooks       struct{}
	NoopHTTPHooks        struct{}
)

func (NoopLoadHooks) OnLoadStart(context.Context, string)                                    {}
func (NoopLoadHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {}
func (NoopLoadHooks) OnLayoutSettled(context.Context, int)                                   {}

func (NoopInteractionHooks) OnClick(context.Context, float64, float64, string) {}
func (NoopInteractionHooks) OnFilter(context.Context, int, int, bool)          {}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// slot holds one registered hook implementation. Reads are lock-free.
type slot[T any] struct {
	v   atomic.Pointer[T]
	def T
}

func (s *slot[T]) get() T {
	if p := s.v.Load(); p != nil {
		return *p
	}
	return s.def
}

// set installs h; a nil interface value is ignored.
func (s *slot[T]) set(h T) {
	if any(h) != nil {
		s.v.Store(&h)
	}
}

func (s *slot[T]) reset() { s.v.Store(nil) }

var (
	loadSlot        = slot[LoadHooks]{def: NoopLoadHooks{}}
	interactionSlot = slot[InteractionHooks]{def: NoopInteractionHooks{}}
	cacheSlot       = slot[CacheHooks]{def: NoopCacheHooks{}}
	httpSlot        = slot[HTTPHooks]{def: NoopHTTPHooks{}}
)

// Setters ignore nil.
func SetLoadHooks(h LoadHooks)               { loadSlot.set(h) }
func SetInteractionHooks(h InteractionHooks) { interactionSlot.set(h) }
func SetCacheHooks(h CacheHooks)             { cacheSlot.set(h) }
func SetHTTPHooks(h HTTPHooks)               { httpSlot.set(h) }

func Load() LoadHooks               { return loadSlot.get() }
func Interaction() InteractionHooks { return interactionSlot.get() }
func Cache() CacheHooks             { return cacheSlot.get() }
func HTTP() HTTPHooks               { return httpSlot.get() }

// Reset restores every slot to its no-op default.
func Reset() {
	loadSlot.reset()
	interactionSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
