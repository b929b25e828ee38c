package evaluator

import (
	"github.com/inconshreveable/log15"

	"github.com/tfesenbecker/palisade/pkg/cache"
	"github.com/tfesenbecker/palisade/pkg/functions"
	"github.com/tfesenbecker/palisade/pkg/logging"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Registry resolves function calls. Defaults to a fresh registry with
	// the builtin functions.
	Registry *functions.Registry
	// Functions are registered into Registry when the evaluator is created,
	// replacing functions of the same name.
	Functions []functions.Def
	// Caching enables caching of compiled expressions by query string.
	Caching bool
	// CacheSize sets the maximum number of cached expressions when Caching
	// is set and no Cache is given. Defaults to cache.DefaultCapacity.
	CacheSize int
	// Cache is a custom expression cache. If non-nil, Caching is implied.
	Cache *cache.Cache[*types.Expression]
	// ListElementFallback, when UseListElementFallback is set, replaces the
	// result of a list-local element that fails to evaluate.
	ListElementFallback    interface{}
	UseListElementFallback bool
	// MaxDepth limits the nesting of evaluated nodes.
	MaxDepth int
	// Debug logs every evaluated expression.
	Debug bool
	// Logger receives evaluation records.
	Logger log15.Logger
}

func defaultOptions() EvalOptions {
	return EvalOptions{
		MaxDepth: 1000,
		Logger:   logging.Discard(),
	}
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithRegistry evaluates function calls through reg. The registry is shared,
// so later registrations are visible to the evaluator.
func WithRegistry(reg *functions.Registry) EvalOption {
	return func(opts *EvalOptions) {
		opts.Registry = reg
	}
}

// WithFunctions registers defs, replacing existing functions of the same
// name.
func WithFunctions(defs ...functions.Def) EvalOption {
	return func(opts *EvalOptions) {
		opts.Functions = append(opts.Functions, defs...)
	}
}

// WithCaching enables or disables expression compilation caching.
// When enabled, a default LRU cache of cache.DefaultCapacity entries is created.
// To control the cache size use WithCacheSize; to supply your own cache use WithCache.
func WithCaching(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached expressions.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) EvalOption {
	return func(opts *EvalOptions) {
		opts.CacheSize = size
	}
}

// WithCache attaches an external expression cache.
// The evaluator will use this cache regardless of the Caching flag.
func WithCache(c *cache.Cache[*types.Expression]) EvalOption {
	return func(opts *EvalOptions) {
		opts.Cache = c
	}
}

// WithListElementFallback substitutes v for list-local elements that fail
// to evaluate, logging a warning, instead of failing the expression.
func WithListElementFallback(v interface{}) EvalOption {
	return func(opts *EvalOptions) {
		opts.ListElementFallback = v
		opts.UseListElementFallback = true
	}
}

// WithMaxDepth sets the maximum evaluation depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

// WithDebug enables or disables debug logging of evaluations.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger log15.Logger) EvalOption {
	return func(opts *EvalOptions) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}
