package parser_test

import (
	"testing"

	"github.com/tfesenbecker/palisade/pkg/parser"
	"github.com/tfesenbecker/palisade/pkg/types"
)

func FuzzParser(f *testing.F) {
	seeds := []string{
		`f:h1`,
		`"f:dir/h 1" * 2`,
		`histdivide(f:num, f:den, "B")`,
		`max_value_index([f:a, f:b])`,
		`yields[1:3:2]`,
		`-2 ** -2 ^ 3`,
		`f:h[3].value`,
		``,
		`(`,
		`f(`,
		`'é'`,
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		expr, err := parser.Compile(input)
		if err != nil {
			if !types.IsSyntaxError(err) {
				t.Fatalf("non-syntax error for %q: %v", input, err)
			}
			return
		}
		_ = expr.ObjectRefs()
	})
}
