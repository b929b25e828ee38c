package cli

import (
	"github.com/spacemonkeygo/errors"
)

type ExitCode byte

const (
	EXIT_SUCCESS = ExitCode(0)
	EXIT_BADARGS = ExitCode(1)
	EXIT_UNKNOWN = ExitCode(2)
	EXIT_USER    = ExitCode(3) // failed evaluations, missing files and objects, bad configuration
)

var ExitCodeKey = errors.GenSym()

/*
	CLI errors are the last line: they are printed to the user as they are,
	so their messages should say what to fix.
*/
var Error *errors.ErrorClass = errors.NewClass("CLIError")

/*
	Use this to set a specific error code the process should exit with
	when producing a `cli.Error`.

	Example: `cli.Error.NewWith("missing file argument", SetExitCode(EXIT_BADARGS))`
*/
func SetExitCode(code ExitCode) errors.ErrorOption {
	return errors.SetData(ExitCodeKey, code)
}
