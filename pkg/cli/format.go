package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tfesenbecker/palisade/pkg/binned"
)

// format renders an evaluation result for the terminal. Objects print one
// bin per line.
func format(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "nothing"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return strconv.Quote(x)
	case binned.Bin:
		return formatBin(x)
	case binned.Object:
		return formatObject(x)
	case []interface{}:
		items := make([]string, len(x))
		for i, item := range x {
			items[i] = format(item)
		}
		return "[" + strings.Join(items, ",\n ") + "]"
	}
	return fmt.Sprint(v)
}

func formatBin(b binned.Bin) string {
	return fmt.Sprintf("bin %d [%g, %g): %g ± %g", b.Index, b.Low, b.High(), b.Value, b.Error)
}

func formatObject(o binned.Object) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %q (%d bins)", o.Kind(), o.Name(), o.Len())
	for i := 0; i < o.Len(); i++ {
		b, err := binned.BinOf(o, i)
		if err != nil {
			break
		}
		sb.WriteString("\n  ")
		sb.WriteString(formatBin(b))
	}
	return sb.String()
}
