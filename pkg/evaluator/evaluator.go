package evaluator

// Package evaluator evaluates parsed expressions over binned objects.
//
// Object references are fetched from a [Source] (normally a
// *catalog.Catalog), function calls are dispatched through a
// functions.Registry and bare names resolve to registered locals.
//
// Before evaluating, every object an expression names is requested from the
// source without forcing, so all objects of one file are read in a single
// pass no matter where they appear in the expression.
//
// # Example
//
//	cat := catalog.New()
//	_ = cat.AddSource("jets.sqlite", "f")
//	ev := evaluator.New(cat)
//	result, err := ev.Eval(ctx, `histdivide(f:pt/pass, f:pt/all, "B") * 100`)
//	if err != nil {
//	    log.Fatal(err)
//	}

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/inconshreveable/log15"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/cache"
	"github.com/tfesenbecker/palisade/pkg/catalog"
	"github.com/tfesenbecker/palisade/pkg/functions"
	"github.com/tfesenbecker/palisade/pkg/parser"
	"github.com/tfesenbecker/palisade/pkg/source"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// Source supplies the objects named in expressions.
type Source interface {
	Get(ctx context.Context, spec string) (binned.Object, error)
	Request(specs ...catalog.RequestSpec) error
}

// Evaluator evaluates expressions against a Source.
//
// Evaluations do not share state apart from the locals, the registry and
// the expression cache, so an Evaluator may be used from several
// goroutines as long as its Source tolerates that. A *catalog.Catalog does
// not.
type Evaluator struct {
	opts     EvalOptions
	log      log15.Logger
	source   Source
	registry *functions.Registry
	cache    *cache.Cache[*types.Expression] // non-nil when caching is enabled

	mu     sync.RWMutex
	locals map[string]interface{}
}

// New creates an Evaluator reading objects from src.
func New(src Source, opts ...EvalOption) *Evaluator {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	reg := options.Registry
	if reg == nil {
		reg = functions.NewRegistry()
	}
	for _, d := range options.Functions {
		// Later definitions win, so extension packs may replace builtins.
		_ = reg.RegisterDef(d, true)
	}

	var c *cache.Cache[*types.Expression]
	if options.Cache != nil {
		c = options.Cache
	} else if options.Caching {
		size := options.CacheSize
		if size <= 0 {
			size = cache.DefaultCapacity
		}
		c = cache.New[*types.Expression](size)
	}

	return &Evaluator{
		opts:     options,
		log:      options.Logger,
		source:   src,
		registry: reg,
		cache:    c,
		locals:   make(map[string]interface{}),
	}
}

// Registry returns the function registry used for calls.
func (e *Evaluator) Registry() *functions.Registry {
	return e.registry
}

// Cache returns the expression cache, or nil if caching is disabled.
func (e *Evaluator) Cache() *cache.Cache[*types.Expression] {
	return e.cache
}

// Compile parses query, consulting the expression cache when enabled.
func (e *Evaluator) Compile(query string) (*types.Expression, error) {
	if e.cache == nil {
		return parser.Parse(query)
	}
	return e.cache.GetOrCompute(query, func() (*types.Expression, error) {
		return parser.Parse(query)
	})
}

// Eval parses and evaluates query with locals enabled.
func (e *Evaluator) Eval(ctx context.Context, query string) (interface{}, error) {
	return e.EvalWithLocals(ctx, query, true)
}

// EvalWithLocals parses and evaluates query. With allowLocals false every
// local evaluates to the zero value of its type.
func (e *Evaluator) EvalWithLocals(ctx context.Context, query string, allowLocals bool) (interface{}, error) {
	expr, err := e.Compile(query)
	if err != nil {
		return nil, err
	}
	return e.eval(ctx, expr, NewContext(allowLocals))
}

// EvalExpression evaluates a compiled expression with locals enabled.
func (e *Evaluator) EvalExpression(ctx context.Context, expr *types.Expression) (interface{}, error) {
	if expr == nil || expr.AST() == nil {
		return nil, types.EvalError.New("invalid expression")
	}
	return e.eval(ctx, expr, NewContext(true))
}

func (e *Evaluator) eval(ctx context.Context, expr *types.Expression, evalCtx *EvalContext) (interface{}, error) {
	start := time.Now()
	if err := e.prefetch(expr, evalCtx); err != nil {
		return nil, err
	}
	result, err := e.evalNode(ctx, expr.AST(), evalCtx)
	if err != nil {
		return nil, err
	}
	if e.opts.Debug {
		e.log.Debug("evaluated expression", "expr", expr.Source(), "result", functions.TypeName(result), "took", time.Since(start))
	}
	return result, nil
}

// prefetch requests every object the expression names, and the objects
// named by string locals it uses, without forcing.
func (e *Evaluator) prefetch(expr *types.Expression, evalCtx *EvalContext) error {
	refs := expr.ObjectRefs()
	if evalCtx.AllowLocals() {
		refs = append(refs, e.localRefs(expr)...)
	}
	if len(refs) == 0 {
		return nil
	}
	if e.source == nil {
		return types.EvalError.New("expression %q names objects but the evaluator has no source", expr.Source())
	}
	specs := make([]catalog.RequestSpec, len(refs))
	for i, ref := range refs {
		specs[i] = catalog.Spec(ref, source.WithForce(false))
	}
	return e.source.Request(specs...)
}

// localRefs collects the object refs of the expressions stored in the
// string locals that expr mentions. Locals that do not parse are skipped;
// evaluating them reports the error.
func (e *Evaluator) localRefs(expr *types.Expression) []string {
	var refs []string
	expr.AST().Walk(func(n *types.ASTNode) bool {
		if n.Type != types.NodeLocal {
			return true
		}
		v, ok := e.Local(n.StrValue)
		if !ok {
			return true
		}
		for _, s := range localExpressions(v) {
			if sub, err := e.Compile(s); err == nil {
				refs = append(refs, sub.ObjectRefs()...)
			}
		}
		return true
	})
	return refs
}

// Functions returns the names of all callable functions.
func (e *Evaluator) Functions() []string {
	return e.registry.Names()
}

func sortedNames(m map[string]interface{}) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
