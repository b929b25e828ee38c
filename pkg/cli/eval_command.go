package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/codegangsta/cli"
)

func EvalCommandPattern(journal, output io.Writer) cli.Command {
	return cli.Command{
		Name:      "eval",
		Usage:     "Evaluate expressions, or the named expressions of the config when none are given",
		ArgsUsage: "[expression...]",
		Flags:     inputFlags(),
		Action: func(ctx *cli.Context) error {
			in, cfg, err := loadInput(ctx, journal)
			if err != nil {
				return err
			}

			type job struct{ label, query string }
			var jobs []job
			for _, arg := range ctx.Args() {
				jobs = append(jobs, job{query: arg})
			}
			if len(jobs) == 0 {
				if cfg == nil || len(cfg.Expressions) == 0 {
					return Error.NewWith("nothing to evaluate: pass expressions or a config with expressions", SetExitCode(EXIT_BADARGS))
				}
				for _, name := range cfg.ExpressionNames() {
					jobs = append(jobs, job{label: name, query: cfg.Expressions[name]})
				}
			}

			bg := context.Background()
			for _, j := range jobs {
				result, err := in.Eval(bg, j.query)
				if err != nil {
					return err
				}
				if j.label != "" {
					fmt.Fprintf(output, "%s: ", j.label)
				}
				fmt.Fprintln(output, format(result))
			}
			return nil
		},
	}
}
