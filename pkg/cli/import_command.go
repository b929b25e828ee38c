package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/codegangsta/cli"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/storage"
)

func ImportCommandPattern(journal, output io.Writer) cli.Command {
	return cli.Command{
		Name:      "import",
		Usage:     "Copy every object of one file into another, converting between formats",
		ArgsUsage: "SRC DST",
		Action: func(ctx *cli.Context) error {
			if len(ctx.Args()) != 2 {
				return Error.NewWith("import takes SRC and DST arguments", SetExitCode(EXIT_BADARGS))
			}
			src, dst := ctx.Args().Get(0), ctx.Args().Get(1)
			n, err := Import(context.Background(), src, dst)
			if err != nil {
				return err
			}
			fmt.Fprintf(output, "imported %d objects from %s into %s\n", n, src, dst)
			return nil
		},
	}
}

// Import copies every object of src into dst and returns how many were
// copied. The backends are chosen by file extension; dst must be writable.
func Import(ctx context.Context, src, dst string) (int, error) {
	from, err := storage.ForPath(src)
	if err != nil {
		return 0, err
	}
	to, err := storage.ForPath(dst)
	if err != nil {
		return 0, err
	}
	w, ok := to.(storage.Writer)
	if !ok {
		return 0, Error.NewWith(fmt.Sprintf("%s cannot be written", dst), SetExitCode(EXIT_BADARGS))
	}

	keys, err := storage.Keys(ctx, from, src)
	if err != nil {
		return 0, err
	}
	s, err := from.Open(ctx, src)
	if err != nil {
		return 0, err
	}
	defer s.Close()

	objects := make(map[string]binned.Object, len(keys))
	for _, k := range keys {
		if objects[k], err = s.Get(ctx, k); err != nil {
			return 0, err
		}
	}
	if err := w.Write(ctx, dst, objects); err != nil {
		return 0, err
	}
	return len(objects), nil
}
