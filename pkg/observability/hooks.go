// Package observability provides hooks for metrics, tracing, and logging.
//
// The pipeline reports stage and per-span events through a small hook
// interface instead of depending on a metrics or tracing backend. Embedders
// register an implementation at startup; the default does nothing.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    // ... run application
//	}
//
// The pipeline calls hooks to emit events:
//
//	observability.Pipeline().OnConvertStart(ctx, input)
//	// ... extract, clean, normalize ...
//	observability.Pipeline().OnConvertComplete(ctx, input, written, skipped, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the convert and sort stages.
type PipelineHooks interface {
	// Convert events
	OnConvertStart(ctx context.Context, input string)
	OnSpanSkipped(ctx context.Context, index int, code string)
	OnConvertComplete(ctx context.Context, input string, written, skipped int, duration time.Duration, err error)

	// Sort events
	OnSortStart(ctx context.Context, input string)
	OnSortComplete(ctx context.Context, input string, records int, duration time.Duration, err error)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnConvertStart(context.Context, string)     {}
func (NoopPipelineHooks) OnSpanSkipped(context.Context, int, string) {}
func (NoopPipelineHooks) OnConvertComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnSortStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnSortComplete(context.Context, string, int, time.Duration, error) {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline
// operations. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Reset restores the no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
}
