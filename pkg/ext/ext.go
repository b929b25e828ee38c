// Package ext provides optional extension functions for palisade beyond the
// builtin analysis functions.
//
// The extension functions live in sub-packages grouped by category:
//   - extshape – scale, rebin, abs, sqrt
//   - extstat  – integral, nbins, mean, sum
//
// # Integration – all extensions at once
//
//	import "github.com/tfesenbecker/palisade/pkg/ext"
//
//	ev := evaluator.New(catalog, ext.WithAll())
//
// # Integration – into an existing registry
//
//	reg := functions.NewRegistry()
//	err := ext.RegisterAll(reg, false)
//
// # Integration – single function from a sub-package
//
//	import "github.com/tfesenbecker/palisade/pkg/ext/extstat"
//
//	ev := evaluator.New(catalog, evaluator.WithFunctions(extstat.Mean()))
package ext

import (
	"github.com/tfesenbecker/palisade/pkg/evaluator"
	"github.com/tfesenbecker/palisade/pkg/ext/extshape"
	"github.com/tfesenbecker/palisade/pkg/ext/extstat"
	"github.com/tfesenbecker/palisade/pkg/functions"
)

// All returns every extension function definition.
func All() []functions.Def {
	var all []functions.Def
	all = append(all, extshape.All()...)
	all = append(all, extstat.All()...)
	return all
}

// RegisterAll adds every extension function to reg.
func RegisterAll(reg *functions.Registry, allowOverride bool) error {
	return reg.RegisterAll(All(), allowOverride)
}

// WithAll returns an EvalOption that registers all extension functions.
func WithAll() evaluator.EvalOption {
	return evaluator.WithFunctions(All()...)
}

// WithShape returns an EvalOption for the shape functions.
func WithShape() evaluator.EvalOption {
	return evaluator.WithFunctions(extshape.All()...)
}

// WithStat returns an EvalOption for the statistics functions.
func WithStat() evaluator.EvalOption {
	return evaluator.WithFunctions(extstat.All()...)
}
