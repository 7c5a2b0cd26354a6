// Package dispatch turns a (toolName, arguments) pair into a cached or
// freshly fetched analytics payload wrapped in a uniform envelope.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/robertredbox/mcp-on-vercel/internal/cache"
	"github.com/robertredbox/mcp-on-vercel/internal/catalog"
	"github.com/robertredbox/mcp-on-vercel/internal/metrics"
	"github.com/robertredbox/mcp-on-vercel/internal/upstream"
)

// Fetcher is the upstream boundary: resolve happens first, then one GET.
type Fetcher interface {
	Fetch(ctx context.Context, path string, params map[string]any) (json.RawMessage, error)
}

// Call is one logical tool invocation.
type Call struct {
	Name      string
	Arguments json.RawMessage
}

// Envelope is the per-call result. Exactly one of Payload/Err semantics
// applies: on failure Err is set and Payload carries the error body. An
// envelope never outlives its call.
type Envelope struct {
	Payload json.RawMessage
	Routing *catalog.RoutingInfo
	Err     *Error
}

// Dispatcher orchestrates validation, cache lookup, upstream fetch, and
// cache population. It holds no per-call state; concurrent calls share
// only the cache store and the upstream client.
type Dispatcher struct {
	catalog *catalog.Catalog
	store   cache.Store
	fetcher Fetcher
	ttl     time.Duration
	log     *slog.Logger
}

// New creates a dispatcher. store may be cache.Noop{} to disable caching;
// it must not be nil.
func New(cat *catalog.Catalog, store cache.Store, fetcher Fetcher, ttl time.Duration, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{catalog: cat, store: store, fetcher: fetcher, ttl: ttl, log: log}
}

// Dispatch executes one tool call and always returns an envelope; upstream
// and cache failures never escape as errors.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) Envelope {
	reqID := uuid.NewString()
	log := d.log.With("tool", call.Name, "request_id", reqID)

	entry, ok := d.catalog.Get(call.Name)
	if !ok {
		metrics.DispatchTotal.WithLabelValues(call.Name, "unknown_tool").Inc()
		return fail(&Error{Kind: KindUnknownTool, Message: "unknown tool: " + call.Name})
	}

	args := map[string]any{}
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			metrics.DispatchTotal.WithLabelValues(call.Name, "validation_failure").Inc()
			return fail(&Error{Kind: KindValidationFailure, Message: "arguments must be a JSON object: " + err.Error()})
		}
	}
	if err := entry.Validate(args); err != nil {
		metrics.DispatchTotal.WithLabelValues(call.Name, "validation_failure").Inc()
		return fail(&Error{Kind: KindValidationFailure, Message: err.Error()})
	}

	params := withDefaults(args, entry.Defaults)
	key := cacheKey(call.Name, params)

	if value, hit, err := d.store.Get(ctx, key); err != nil {
		metrics.CacheReadFailures.Inc()
		log.Warn("cache read failed", "error", err)
	} else if hit {
		metrics.CacheHits.Inc()
		metrics.DispatchTotal.WithLabelValues(call.Name, "cache_hit").Inc()
		log.Debug("cache hit", "key", key)
		return Envelope{Payload: json.RawMessage(value), Routing: entry.Routing}
	}
	metrics.CacheMisses.Inc()

	platform, _ := params["platform"].(string)
	path, err := d.catalog.Resolve(call.Name, platform)
	if err != nil {
		metrics.DispatchTotal.WithLabelValues(call.Name, "validation_failure").Inc()
		return fail(&Error{Kind: KindValidationFailure, Message: err.Error()})
	}

	payload, err := d.fetcher.Fetch(ctx, path, queryParams(params))
	if err != nil {
		metrics.UpstreamFailures.Inc()
		metrics.DispatchTotal.WithLabelValues(call.Name, "upstream_failure").Inc()
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			log.Warn("upstream error status", "status", statusErr.StatusCode)
		} else {
			log.Warn("upstream request failed", "error", err)
		}
		return fail(&Error{Kind: KindUpstreamFailure, Message: err.Error()})
	}

	// Populate the cache only after a fully successful fetch. Write
	// failures degrade performance, not correctness.
	if err := d.store.Set(ctx, key, string(payload), d.ttl); err != nil {
		metrics.CacheWriteFailures.Inc()
		log.Warn("cache write failed", "error", err)
	}

	metrics.DispatchTotal.WithLabelValues(call.Name, "ok").Inc()
	return Envelope{Payload: payload, Routing: entry.Routing}
}

func fail(e *Error) Envelope {
	return Envelope{Payload: e.Payload(), Err: e}
}

// withDefaults merges declared defaults under the caller's arguments.
// The result is the canonical parameter set used for key derivation and
// the upstream query.
func withDefaults(args, defaults map[string]any) map[string]any {
	params := make(map[string]any, len(args)+len(defaults))
	for k, v := range defaults {
		params[k] = v
	}
	for k, v := range args {
		if v == nil {
			continue
		}
		params[k] = v
	}
	return params
}

// queryParams strips the platform parameter, which is encoded in the
// resolved path rather than the query string.
func queryParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		if k == "platform" {
			continue
		}
		out[k] = v
	}
	return out
}
