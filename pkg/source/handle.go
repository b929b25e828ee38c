// Package source manages the objects of a single backing file.
//
// A Handle collects requests for object paths and resolves all of them the
// first time one is needed, opening the file once per batch:
//
//	h := source.NewHandle("/data/jets.sqlite", storage.SQLite{})
//	h.Request("jets/pt", source.WithRebin(2))
//	h.Request("jets/eta")
//	pt, err := h.Get(ctx, "jets/pt")   // opens the file, reads both objects
//	eta, err := h.Get(ctx, "jets/eta") // served from the cache
//
// A Handle is not safe for concurrent use, except for MarkStale, which may
// be called from any goroutine.
package source

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/inconshreveable/log15"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/logging"
	"github.com/tfesenbecker/palisade/pkg/storage"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// Handle stages and caches objects of one file.
type Handle struct {
	path    string
	backend storage.Backend
	log     log15.Logger

	pending  map[string]RequestOptions
	cache    map[string]binned.Object
	resolved map[string]RequestOptions // options each cached object was read with
	opens    int
	stale    atomic.Bool
}

// HandleOption configures a Handle.
type HandleOption func(*Handle)

// WithLogger sets the logger for flush records.
func WithLogger(log log15.Logger) HandleOption {
	return func(h *Handle) {
		if log != nil {
			h.log = log
		}
	}
}

// NewHandle returns a handle for the file at path, read through backend.
func NewHandle(path string, backend storage.Backend, opts ...HandleOption) *Handle {
	h := &Handle{
		path:     path,
		backend:  backend,
		log:      logging.Discard(),
		pending:  make(map[string]RequestOptions),
		cache:    make(map[string]binned.Object),
		resolved: make(map[string]RequestOptions),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.New("file", path)
	return h
}

// Path returns the file the handle reads.
func (h *Handle) Path() string { return h.path }

// Request stages objectPath for the next flush. A forcing request, the
// default, replaces an earlier request for the same path and evicts a
// cached object. A non-forcing request is ignored when the path is already
// pending or cached.
func (h *Handle) Request(objectPath string, opts ...RequestOption) {
	ro := NewRequestOptions(opts...)
	_, isPending := h.pending[objectPath]
	_, isCached := h.cache[objectPath]
	if (isPending || isCached) && !ro.Force {
		return
	}
	h.pending[objectPath] = ro
	delete(h.cache, objectPath)
	delete(h.resolved, objectPath)
}

// Get returns a copy of the object at objectPath, reading the file if the
// object is not cached yet. Every pending request is resolved in the same
// pass. A missing object fails with NotFoundError; the other pending
// objects are still cached.
func (h *Handle) Get(ctx context.Context, objectPath string) (binned.Object, error) {
	if h.stale.CompareAndSwap(true, false) {
		h.log.Debug("file changed, invalidating", "cached", len(h.cache))
		h.Invalidate()
	}
	_, isPending := h.pending[objectPath]
	if !isPending {
		if obj, ok := h.cache[objectPath]; ok {
			return obj.Clone(), nil
		}
		h.Request(objectPath)
	}
	failures, err := h.flush(ctx)
	if err != nil {
		return nil, err
	}
	if err, failed := failures[objectPath]; failed {
		return nil, err
	}
	return h.cache[objectPath].Clone(), nil
}

// flush resolves every pending request in one session. Per-object
// failures are returned by path; a failure to open the file leaves the
// requests pending.
func (h *Handle) flush(ctx context.Context) (map[string]error, error) {
	if len(h.pending) == 0 {
		return nil, nil
	}
	start := time.Now()
	s, err := h.backend.Open(ctx, h.path)
	h.opens++
	if err != nil {
		return nil, err
	}
	defer s.Close()

	failures := make(map[string]error)
	for objectPath, ro := range h.pending {
		obj, err := s.Get(ctx, objectPath)
		if err == nil {
			err = ro.apply(obj)
		}
		if err != nil {
			h.log.Debug("request failed", "object", objectPath, "err", err)
			failures[objectPath] = err
			continue
		}
		h.cache[objectPath] = obj
		h.resolved[objectPath] = ro
	}
	h.log.Debug("flushed requests", "requests", len(h.pending), "failed", len(failures), "took", time.Since(start))
	h.pending = make(map[string]RequestOptions)
	return failures, nil
}

// Clear drops every cached object and pending request.
func (h *Handle) Clear() {
	h.pending = make(map[string]RequestOptions)
	h.cache = make(map[string]binned.Object)
	h.resolved = make(map[string]RequestOptions)
}

// Invalidate moves every cached object back to pending with the options
// it was requested with, so the next Get reads the file again.
func (h *Handle) Invalidate() {
	for objectPath, ro := range h.resolved {
		h.pending[objectPath] = ro
	}
	h.cache = make(map[string]binned.Object)
	h.resolved = make(map[string]RequestOptions)
}

// MarkStale flags the file as changed. The cache is invalidated by the
// next Get. Safe to call from any goroutine.
func (h *Handle) MarkStale() {
	h.stale.Store(true)
}

// Stale reports whether MarkStale was called since the last Get.
func (h *Handle) Stale() bool {
	return h.stale.Load()
}

// Opens returns how many times the file was opened.
func (h *Handle) Opens() int { return h.opens }

// Pending returns the staged object paths in sorted order.
func (h *Handle) Pending() []string { return sortedKeys(h.pending) }

// Cached returns the cached object paths in sorted order.
func (h *Handle) Cached() []string { return sortedKeys(h.cache) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// apply runs the post-processing of a request on a freshly read object.
func (ro RequestOptions) apply(obj binned.Object) error {
	if ro.RebinFactor > 0 {
		r, ok := obj.(binned.Rebinner)
		if !ok {
			return types.UnsupportedTypeError.New("%s %q cannot be rebinned", obj.Kind(), obj.Name())
		}
		if err := r.Rebin(ro.RebinFactor); err != nil {
			return err
		}
	}
	if ro.ProfileErrorOption != nil {
		p, ok := obj.(*binned.Profile1D)
		if !ok {
			return types.UnsupportedTypeError.New("%s %q has no profile error option", obj.Kind(), obj.Name())
		}
		if err := p.SetErrorOption(*ro.ProfileErrorOption); err != nil {
			return err
		}
	}
	return nil
}
