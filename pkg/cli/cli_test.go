package cli

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tfesenbecker/palisade"
	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/storage"
)

var (
	// os flag parsing mandates the executable name
	baseArgs = []string{"palisade"}
)

func writeFixture(c C, dir string) string {
	pass := binned.NewHist1D("pass", binned.UniformAxis(2, 0, 2))
	all := binned.NewHist1D("all", binned.UniformAxis(2, 0, 2))
	pass.SetValue(1, 1)
	pass.SetValue(2, 3)
	all.SetValue(1, 2)
	all.SetValue(2, 4)
	path := filepath.Join(dir, "objects.yaml")
	c.So(storage.YAML{}.Write(context.Background(), path,
		map[string]binned.Object{"pt/pass": pass, "pt/all": all}), ShouldBeNil)
	return path
}

func run(args ...string) (ExitCode, string, string) {
	var journal, output bytes.Buffer
	code := Main(append(baseArgs, args...), &journal, &output)
	return code, output.String(), journal.String()
}

func TestMain(t *testing.T) {
	Convey("It should not crash without args", t, func() {
		So(Main(baseArgs, ioutil.Discard, ioutil.Discard), ShouldEqual, EXIT_SUCCESS)
	})

	Convey("Unknown subcommands are bad args", t, func() {
		code, _, journal := run("frobnicate")
		So(code, ShouldEqual, EXIT_BADARGS)
		So(journal, ShouldContainSubstring, "not a palisade subcommand")
	})

	Convey("Given a data file", t, func(c C) {
		dir := t.TempDir()
		data := writeFixture(c, dir)

		Convey("eval prints the result of each expression", func() {
			code, out, _ := run("eval", "-f", "f="+data, "f:pt/pass[1].value + f:pt/all[2].value", "2 ** 3")
			So(code, ShouldEqual, EXIT_SUCCESS)
			So(out, ShouldEqual, "5\n8\n")
		})

		Convey("eval prints objects bin by bin", func() {
			code, out, _ := run("eval", "--file", "f="+data, "f:pt/pass * 2")
			So(code, ShouldEqual, EXIT_SUCCESS)
			So(out, ShouldContainSubstring, `hist1d "pass" (4 bins)`)
			So(out, ShouldContainSubstring, "bin 2 [1, 2): 6 ±")
		})

		Convey("eval without expressions runs the named expressions of the config", func() {
			cfg := filepath.Join(dir, "analysis.yaml")
			So(os.WriteFile(cfg, []byte("files:\n  f: objects.yaml\n"+
				"expressions:\n  b_total: integral(f:pt/all)\n  a_first: f:pt/pass[1].value\n"+
				"functions:\n  extensions: true\n"), 0o644), ShouldBeNil)
			code, out, _ := run("eval", "-c", cfg)
			So(code, ShouldEqual, EXIT_SUCCESS)
			So(out, ShouldEqual, "a_first: 1\nb_total: 6\n")
		})

		Convey("evaluation failures are user errors", func() {
			code, _, journal := run("eval", "-f", "f="+data, "f:pt/missing")
			So(code, ShouldEqual, EXIT_USER)
			So(journal, ShouldContainSubstring, "not found")

			code, _, _ = run("eval", "-f", "f="+data, "f:pt/pass +")
			So(code, ShouldEqual, EXIT_USER)
		})

		Convey("malformed file flags are bad args", func() {
			code, _, _ := run("eval", "-f", data, "1")
			So(code, ShouldEqual, EXIT_BADARGS)
			code, _, _ = run("eval")
			So(code, ShouldEqual, EXIT_BADARGS)
		})

		Convey("ls lists the stored objects", func() {
			code, out, _ := run("ls", data)
			So(code, ShouldEqual, EXIT_SUCCESS)
			So(out, ShouldEqual, "pt/all\npt/pass\n")

			code, out, _ = run("ls", "-l", data)
			So(code, ShouldEqual, EXIT_SUCCESS)
			So(out, ShouldEqual, "pt/all\thist1d\t4\npt/pass\thist1d\t4\n")
		})

		Convey("import converts between formats", func() {
			db := filepath.Join(dir, "objects.sqlite")
			code, out, _ := run("import", data, db)
			So(code, ShouldEqual, EXIT_SUCCESS)
			So(out, ShouldContainSubstring, "imported 2 objects")

			code, out, _ = run("eval", "-f", "f="+db, "f:pt/all[2].value")
			So(code, ShouldEqual, EXIT_SUCCESS)
			So(out, ShouldEqual, "4\n")
		})

		Convey("import refuses unknown formats", func() {
			code, _, _ := run("import", data, filepath.Join(dir, "objects.txt"))
			So(code, ShouldEqual, EXIT_USER)
		})
	})
}

func TestSession(t *testing.T) {
	Convey("Given a REPL session", t, func(c C) {
		data := writeFixture(c, t.TempDir())
		in := palisade.New()
		So(in.AddFile(data, "f"), ShouldBeNil)
		var out bytes.Buffer
		s := &session{in: in, out: &out}
		bg := context.Background()

		Convey("Expressions are evaluated and printed", func() {
			So(s.handle(bg, "f:pt/all[1].value * 10"), ShouldBeFalse)
			So(out.String(), ShouldEqual, "20\n")
		})

		Convey("Errors are printed and the session goes on", func() {
			So(s.handle(bg, "nope(1)"), ShouldBeFalse)
			So(out.String(), ShouldContainSubstring, "error:")
		})

		Convey("exit stops the session", func() {
			So(s.handle(bg, "  exit "), ShouldBeTrue)
			So(s.handle(bg, "quit"), ShouldBeTrue)
		})

		Convey(":let registers a local", func() {
			s.handle(bg, ":let ratio histdivide(f:pt/pass, f:pt/all)")
			s.handle(bg, ":locals")
			So(out.String(), ShouldEqual, "ratio\n")
			out.Reset()
			s.handle(bg, "ratio[2].value")
			So(out.String(), ShouldEqual, "0.75\n")
		})

		Convey(":files lists nicknames", func() {
			s.handle(bg, ":files")
			So(out.String(), ShouldContainSubstring, "f\n")
		})

		Convey("Completion covers functions, locals and nicknames", func() {
			So(s.complete("histd"), ShouldResemble, []string{"histdivide"})
			So(s.complete("max(f"), ShouldResemble, []string{"max(f:"})
			So(s.complete(""), ShouldBeEmpty)
		})
	})
}
