package functions

import "sync"

var (
	builtins     []Def
	builtinsOnce sync.Once
)

// initBuiltins builds the builtin table once.
func initBuiltins() {
	builtinsOnce.Do(func() {
		builtins = []Def{
			// Arithmetic on whole objects
			{Name: "histdivide", MinArgs: 2, MaxArgs: 3, Fn: fnHistDivide, Doc: "histdivide(a, b, option=\"\"): binwise a/b, option \"B\" for binomial errors"},
			{Name: "normalize_to_ref", MinArgs: 2, MaxArgs: 2, Fn: fnNormalizeToRef, Doc: "normalize_to_ref(obj, ref): scale obj to the integral of ref"},
			{Name: "normalize_x", MinArgs: 1, MaxArgs: 1, Fn: fnNormalizeX, Doc: "normalize_x(h2): divide every x slice of h2 by its integral"},
			{Name: "cumulate", MinArgs: 1, MaxArgs: 1, Fn: fnCumulate, Doc: "cumulate(obj): running sum from the first bin"},
			{Name: "cumulate_reverse", MinArgs: 1, MaxArgs: 1, Fn: fnCumulateReverse, Doc: "cumulate_reverse(obj): running sum from the last bin"},
			{Name: "bin_differences", MinArgs: 1, MaxArgs: 1, Fn: fnBinDifferences, Doc: "bin_differences(obj): each bin minus its predecessor"},
			{Name: "bin_ratios", MinArgs: 1, MaxArgs: 1, Fn: fnBinRatios, Doc: "bin_ratios(obj): each bin divided by its predecessor"},

			// Per-bin selection
			{Name: "max_yield_index", MinArgs: 3, MaxArgs: 3, Fn: fnMaxYieldIndex, Doc: "max_yield_index(yields, efficiencies, threshold): index of the largest yield passing the efficiency threshold"},
			{Name: "max_value_index", MinArgs: 1, MaxArgs: 1, Fn: fnMaxValueIndex, Doc: "max_value_index(objs): index of the object with the largest value"},
			{Name: "select", MinArgs: 2, MaxArgs: 2, Fn: fnSelect, Doc: "select(objs, indices): take each bin from objs[indices[bin]]"},
			{Name: "mask_lookup_value", MinArgs: 3, MaxArgs: 3, Fn: fnMaskLookupValue, Doc: "mask_lookup_value(obj, lookup, value): zero bins where lookup differs from value"},
			{Name: "max", MinArgs: 1, MaxArgs: -1, Fn: fnMax, Doc: "max(objs...): binwise maximum"},
			{Name: "max_val_min_err", MinArgs: 1, MaxArgs: -1, Fn: fnMaxValMinErr, Doc: "max_val_min_err(objs...): binwise maximum, smallest error among ties"},
			{Name: "mask_if_less", MinArgs: 2, MaxArgs: 2, Fn: fnMaskIfLess, Doc: "mask_if_less(obj, ref): zero bins below ref"},
			{Name: "atleast", MinArgs: 2, MaxArgs: 2, Fn: fnAtLeast, Doc: "atleast(obj, min): zero bins below min"},
			{Name: "threshold", MinArgs: 2, MaxArgs: 2, Fn: fnThreshold, Doc: "threshold(obj, min): 1 where the bin reaches min, else 0"},
			{Name: "threshold_by_ref", MinArgs: 2, MaxArgs: 2, Fn: fnThresholdByRef, Doc: "threshold_by_ref(obj, ref): 1 where the bin reaches ref, else 0"},

			// Bin content rewrites
			{Name: "yerr", MinArgs: 1, MaxArgs: 1, Fn: fnYErr, Doc: "yerr(obj): replace values with errors"},
			{Name: "discard_errors", MinArgs: 1, MaxArgs: 1, Fn: fnDiscardErrors, Doc: "discard_errors(obj): set all errors to 0"},
			{Name: "bin_width", MinArgs: 1, MaxArgs: 1, Fn: fnBinWidth, Doc: "bin_width(obj): replace values with bin widths"},

			// Efficiencies
			{Name: "efficiency", MinArgs: 2, MaxArgs: 2, Fn: fnEfficiency, Doc: "efficiency(passed, total): Clopper-Pearson efficiency"},
			{Name: "efficiency_graph", MinArgs: 2, MaxArgs: 2, Fn: fnEfficiencyGraph, Doc: "efficiency_graph(passed, total): efficiency as a graph with asymmetric errors"},
			{Name: "apply_efficiency_correction", MinArgs: 2, MaxArgs: 3, Fn: fnApplyEfficiencyCorrection, Doc: "apply_efficiency_correction(obj, eff, threshold=None): divide obj by eff"},

			// Projections and graphs
			{Name: "project_x", MinArgs: 1, MaxArgs: 1, Fn: fnProjectX, Doc: "project_x(obj): projection onto the x axis"},
			{Name: "h", MinArgs: 1, MaxArgs: 1, Fn: fnProjectX, Doc: "h(obj): alias of project_x"},
			{Name: "hist", MinArgs: 1, MaxArgs: 1, Fn: fnProjectX, Doc: "hist(obj): alias of project_x"},
			{Name: "project_y", MinArgs: 1, MaxArgs: 1, Fn: fnProjectY, Doc: "project_y(h2): projection onto the y axis"},
			{Name: "diagonal", MinArgs: 1, MaxArgs: 1, Fn: fnDiagonal, Doc: "diagonal(h2): the x == y bins of h2"},
			{Name: "double_profile", MinArgs: 2, MaxArgs: 2, Fn: fnDoubleProfile, Doc: "double_profile(px, py): graph of py against px"},

			{Name: "unfold", MinArgs: 4, MaxArgs: 4, Fn: fnUnfold, Doc: "unfold(input, response, gen, reco): unregularised least-squares unfolding"},
		}
	})
}

// Builtins returns the builtin function definitions.
func Builtins() []Def {
	initBuiltins()
	out := make([]Def, len(builtins))
	copy(out, builtins)
	return out
}
