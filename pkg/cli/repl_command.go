package cli

import (
	"context"
	"io"

	"github.com/codegangsta/cli"
)

func ReplCommandPattern(journal, output io.Writer) cli.Command {
	return cli.Command{
		Name:  "repl",
		Usage: "Evaluate expressions interactively",
		Flags: append([]cli.Flag{
			cli.BoolFlag{
				Name:  "watch, w",
				Usage: "Reload files when they change on disk.",
			},
		}, inputFlags()...),
		Action: func(ctx *cli.Context) error {
			in, _, err := loadInput(ctx, journal)
			if err != nil {
				return err
			}
			bg, cancel := context.WithCancel(context.Background())
			defer cancel()
			if ctx.Bool("watch") {
				if err := in.Watch(bg); err != nil {
					return err
				}
			}
			runRepl(bg, &session{in: in, out: output})
			return nil
		},
	}
}
