package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/codegangsta/cli"

	"github.com/tfesenbecker/palisade/pkg/storage"
)

func LsCommandPattern(journal, output io.Writer) cli.Command {
	return cli.Command{
		Name:      "ls",
		Usage:     "List the objects stored in a file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			cli.BoolFlag{
				Name:  "long, l",
				Usage: "Also print the kind and bin count of every object.",
			},
		},
		Action: func(ctx *cli.Context) error {
			if len(ctx.Args()) != 1 {
				return Error.NewWith("ls takes exactly one FILE argument", SetExitCode(EXIT_BADARGS))
			}
			path := ctx.Args().First()
			backend, err := storage.ForPath(path)
			if err != nil {
				return err
			}
			bg := context.Background()
			keys, err := storage.Keys(bg, backend, path)
			if err != nil {
				return err
			}
			if !ctx.Bool("long") {
				for _, k := range keys {
					fmt.Fprintln(output, k)
				}
				return nil
			}

			s, err := backend.Open(bg, path)
			if err != nil {
				return err
			}
			defer s.Close()
			for _, k := range keys {
				obj, err := s.Get(bg, k)
				if err != nil {
					return err
				}
				fmt.Fprintf(output, "%s\t%s\t%d\n", k, obj.Kind(), obj.Len())
			}
			return nil
		},
	}
}
