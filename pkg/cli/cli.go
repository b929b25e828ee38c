package cli

import (
	"fmt"
	"io"

	"github.com/codegangsta/cli"
	"github.com/spacemonkeygo/errors"

	"github.com/tfesenbecker/palisade"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// Main runs the palisade command line with args (including the program
// name). Diagnostics go to journal, results to output.
func Main(args []string, journal, output io.Writer) ExitCode {
	App := cli.NewApp()

	App.Name = "palisade"
	App.Usage = "Evaluate expressions over histograms in analysis files."
	App.Version = palisade.Version()

	App.Writer = journal

	App.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Log debug records, such as file reads.",
		},
		cli.BoolFlag{
			Name:  "quiet",
			Usage: "Log only errors.",
		},
	}

	App.Commands = []cli.Command{
		EvalCommandPattern(journal, output),
		ReplCommandPattern(journal, output),
		LsCommandPattern(journal, output),
		ImportCommandPattern(journal, output),
	}

	code := EXIT_SUCCESS
	// An unknown subcommand is an error, not a help topic.
	App.CommandNotFound = func(ctx *cli.Context, command string) {
		fmt.Fprintf(ctx.App.Writer, "'%s %v' is not a palisade subcommand\n", ctx.App.Name, command)
		code = EXIT_BADARGS
	}

	if err := App.Run(args); err != nil {
		fmt.Fprintf(journal, "palisade: %v\n", err)
		return exitCodeFor(err)
	}
	return code
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) ExitCode {
	if code, ok := errors.GetData(err, ExitCodeKey).(ExitCode); ok {
		return code
	}
	if types.Is(err, types.Error) || types.IsSyntaxError(err) {
		return EXIT_USER
	}
	return EXIT_UNKNOWN
}

// logLevel picks the log level from the global flags, falling back to the
// configured level.
func logLevel(ctx *cli.Context, configured string) string {
	switch {
	case ctx.GlobalBool("verbose"):
		return "debug"
	case ctx.GlobalBool("quiet"):
		return "error"
	case configured != "":
		return configured
	}
	return "info"
}
