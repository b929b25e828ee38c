// Package palisade evaluates arithmetic and function-call expressions over
// binned objects (histograms, profiles, efficiencies and graphs) stored in
// analysis files.
//
// Objects are named as nickname:path/in/file. Every object an expression
// mentions is fetched in one pass per file, so expressions touching many
// objects of the same file open it once.
//
// # Quick Start
//
//	in := palisade.New()
//	if err := in.AddFile("jets.sqlite", "jets"); err != nil {
//	    log.Fatal(err)
//	}
//	eff, err := in.Eval(ctx, `efficiency(jets:pt/pass, jets:pt/all)`)
//
//	// Locals name expressions for reuse
//	_ = in.RegisterLocal("signal", "jets:pt/pass - jets:pt/fake")
//	ratio, err := in.Eval(ctx, `histdivide(signal, jets:pt/all)`)
//
// # More Information
//
// For detailed documentation, see:
//   - Objects: github.com/tfesenbecker/palisade/pkg/binned
//   - Files: github.com/tfesenbecker/palisade/pkg/catalog and pkg/storage
//   - Evaluator: github.com/tfesenbecker/palisade/pkg/evaluator
//   - Functions: github.com/tfesenbecker/palisade/pkg/functions
//   - Configuration: github.com/tfesenbecker/palisade/pkg/config
package palisade

import (
	"context"
	"fmt"

	"github.com/inconshreveable/log15"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/catalog"
	"github.com/tfesenbecker/palisade/pkg/evaluator"
	"github.com/tfesenbecker/palisade/pkg/ext"
	"github.com/tfesenbecker/palisade/pkg/functions"
	"github.com/tfesenbecker/palisade/pkg/logging"
	"github.com/tfesenbecker/palisade/pkg/parser"
	"github.com/tfesenbecker/palisade/pkg/storage"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// Version returns the current version of palisade.
func Version() string {
	return "v0.3.0-dev"
}

// Input combines a catalog of files with an evaluator reading from it.
type Input struct {
	catalog   *catalog.Catalog
	evaluator *evaluator.Evaluator
	log       log15.Logger
}

type options struct {
	logger     log15.Logger
	backend    storage.Backend
	extensions bool
	evalOpts   []evaluator.EvalOption
}

// Option configures an Input.
type Option func(*options)

// WithLogger sets the logger shared by the catalog, its handles and the
// evaluator.
func WithLogger(log log15.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithBackend reads every file through b instead of choosing a backend by
// file extension.
func WithBackend(b storage.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithExtensions makes the ext function packs callable.
func WithExtensions() Option {
	return func(o *options) { o.extensions = true }
}

// WithEvalOptions passes options to the evaluator.
func WithEvalOptions(opts ...evaluator.EvalOption) Option {
	return func(o *options) { o.evalOpts = append(o.evalOpts, opts...) }
}

// New creates an empty Input.
func New(opts ...Option) *Input {
	o := options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	catOpts := []catalog.Option{catalog.WithLogger(o.logger)}
	if o.backend != nil {
		catOpts = append(catOpts, catalog.WithBackend(o.backend))
	}
	cat := catalog.New(catOpts...)

	evalOpts := []evaluator.EvalOption{evaluator.WithLogger(o.logger)}
	if o.extensions {
		evalOpts = append(evalOpts, ext.WithAll())
	}
	evalOpts = append(evalOpts, o.evalOpts...)

	return &Input{
		catalog:   cat,
		evaluator: evaluator.New(cat, evalOpts...),
		log:       o.logger,
	}
}

// Catalog returns the file catalog.
func (in *Input) Catalog() *catalog.Catalog { return in.catalog }

// Evaluator returns the expression evaluator.
func (in *Input) Evaluator() *evaluator.Evaluator { return in.evaluator }

// AddFile registers a file under nickname (which may be empty) and under
// the path as given.
func (in *Input) AddFile(path, nickname string) error {
	return in.catalog.AddSource(path, nickname)
}

// Request stages objects for the next read of their files.
func (in *Input) Request(specs ...catalog.RequestSpec) error {
	return in.catalog.Request(specs...)
}

// Get returns a copy of the object named by spec.
func (in *Input) Get(ctx context.Context, spec string) (binned.Object, error) {
	return in.catalog.Get(ctx, spec)
}

// Eval evaluates an expression.
func (in *Input) Eval(ctx context.Context, query string) (interface{}, error) {
	return in.evaluator.Eval(ctx, query)
}

// EvalWithLocals evaluates an expression, optionally with locals disabled.
func (in *Input) EvalWithLocals(ctx context.Context, query string, allowLocals bool) (interface{}, error) {
	return in.evaluator.EvalWithLocals(ctx, query, allowLocals)
}

// EvalObject evaluates an expression that must produce a single object.
func (in *Input) EvalObject(ctx context.Context, query string) (binned.Object, error) {
	v, err := in.Eval(ctx, query)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(binned.Object)
	if !ok {
		return nil, types.UnsupportedTypeError.New("%q evaluated to %s, not an object", query, functions.TypeName(v))
	}
	return obj, nil
}

// RegisterLocal binds a local name, see evaluator.Evaluator.Register.
func (in *Input) RegisterLocal(name string, value interface{}) error {
	return in.evaluator.Register(name, value)
}

// ClearLocals removes every local.
func (in *Input) ClearLocals() {
	in.evaluator.Clear()
}

// RegisterFunction makes fn callable as name.
func (in *Input) RegisterFunction(name string, fn functions.Func, allowOverride bool) error {
	return in.evaluator.Registry().Register(name, fn, allowOverride)
}

// RegisterFunctions adds function definitions.
func (in *Input) RegisterFunctions(defs []functions.Def, allowOverride bool) error {
	return in.evaluator.Registry().RegisterAll(defs, allowOverride)
}

// Watch reloads changed files on their next use until ctx is done.
func (in *Input) Watch(ctx context.Context) error {
	return in.catalog.Watch(ctx)
}

// Clear drops every cached object.
func (in *Input) Clear() {
	in.catalog.Clear()
}

// Compile parses an expression without evaluating it.
func Compile(query string, opts ...parser.CompileOption) (*types.Expression, error) {
	return parser.Compile(query, opts...)
}

// MustCompile is like Compile but panics if the expression cannot be compiled.
// It simplifies safe initialization of global variables.
func MustCompile(query string) *types.Expression {
	expr, err := Compile(query)
	if err != nil {
		panic(fmt.Sprintf("palisade: Compile(%q): %v", query, err))
	}
	return expr
}

// Eval is a convenience function that registers files (nickname to path)
// and evaluates one expression.
//
// Example:
//
//	h, err := palisade.Eval(ctx, `f:jets/pt * 2`, map[string]string{"f": "jets.yaml"})
func Eval(ctx context.Context, query string, files map[string]string, opts ...Option) (interface{}, error) {
	in := New(opts...)
	for nickname, path := range files {
		if err := in.AddFile(path, nickname); err != nil {
			return nil, err
		}
	}
	return in.Eval(ctx, query)
}
