package cli

import (
	"io"
	"strings"

	"github.com/codegangsta/cli"

	"github.com/tfesenbecker/palisade"
	"github.com/tfesenbecker/palisade/pkg/config"
	"github.com/tfesenbecker/palisade/pkg/logging"
)

// inputFlags returns the flags shared by commands that build an Input.
// The slice flag needs a fresh value per run.
func inputFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "Analysis configuration (YAML) with files, locals, requests and expressions.",
		},
		cli.StringSliceFlag{
			Name:  "file, f",
			Value: &cli.StringSlice{},
			Usage: "Register a file as nickname=path.  May be repeated.",
		},
		cli.BoolFlag{
			Name:  "ext",
			Usage: "Enable the extension functions (scale, rebin, integral, ...).",
		},
	}
}

// loadInput builds an Input from the config and file flags of ctx. The
// config is nil when none was given.
func loadInput(ctx *cli.Context, journal io.Writer) (*palisade.Input, *config.Config, error) {
	var cfg *config.Config
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path, nil); err != nil {
			return nil, nil, err
		}
	}

	configured := ""
	if cfg != nil {
		configured = cfg.Log.Level
	}
	log := logging.New(journal, logLevel(ctx, configured), "cmd", ctx.Command.Name)

	opts := []palisade.Option{palisade.WithLogger(log)}
	if ctx.Bool("ext") {
		opts = append(opts, palisade.WithExtensions())
	}
	in := palisade.New(opts...)

	if cfg != nil {
		if err := cfg.Apply(in); err != nil {
			return nil, nil, err
		}
	}
	for _, arg := range ctx.StringSlice("file") {
		nickname, path, ok := strings.Cut(arg, "=")
		if !ok || nickname == "" || path == "" {
			return nil, nil, Error.NewWith("--file expects nickname=path, got "+arg, SetExitCode(EXIT_BADARGS))
		}
		if err := in.AddFile(path, nickname); err != nil {
			return nil, nil, err
		}
	}
	return in, cfg, nil
}
