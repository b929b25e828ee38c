package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/catalog"
	"github.com/tfesenbecker/palisade/pkg/source"
	"github.com/tfesenbecker/palisade/pkg/storage"
	"github.com/tfesenbecker/palisade/pkg/types"
)

func ptHist(scale float64) *binned.Hist1D {
	h := binned.NewHist1D("pt", binned.UniformAxis(4, 0, 4))
	for i := 1; i <= 4; i++ {
		h.SetValue(i, scale*float64(i))
	}
	return h
}

func memoryFixture() (*storage.Memory, string, string) {
	m := storage.NewMemory()
	a, _ := filepath.Abs("/data/a.yaml")
	b, _ := filepath.Abs("/data/b.yaml")
	m.Put(a, "jets/pt", ptHist(1))
	m.Put(a, "jets/eta", binned.NewHist1D("eta", binned.UniformAxis(2, -1, 1)))
	m.Put(b, "jets/pt", ptHist(10))
	return m, a, b
}

func TestSplitSpec(t *testing.T) {
	Convey("Object specs split at the first colon", t, func() {
		nick, path, err := catalog.SplitSpec("data:jets/pt:v2")
		So(err, ShouldBeNil)
		So(nick, ShouldEqual, "data")
		So(path, ShouldEqual, "jets/pt:v2")

		_, _, err = catalog.SplitSpec("jets/pt")
		So(types.Is(err, types.InvalidRequestError), ShouldBeTrue)
	})
}

func TestAddSource(t *testing.T) {
	ctx := context.Background()
	Convey("Given a catalog with two files", t, func() {
		m, a, b := memoryFixture()
		c := catalog.New(catalog.WithBackend(m))
		So(c.AddSource("/data/a.yaml", "a"), ShouldBeNil)
		So(c.AddSource("/data/b.yaml", "b"), ShouldBeNil)

		Convey("Objects resolve through the nickname and the registered path", func() {
			obj, err := c.Get(ctx, "a:jets/pt")
			So(err, ShouldBeNil)
			So(obj.Value(2), ShouldEqual, 2)

			obj, err = c.Get(ctx, "/data/b.yaml:jets/pt")
			So(err, ShouldBeNil)
			So(obj.Value(2), ShouldEqual, 20)

			So(c.Nicknames(), ShouldResemble, []string{"/data/a.yaml", "/data/b.yaml", "a", "b"})
			So(c.Sources(), ShouldResemble, []string{a, b})
		})

		Convey("Registering the same file again shares its handle", func() {
			So(c.AddSource("/data/a.yaml", "alias"), ShouldBeNil)
			h1, err := c.Handle("a")
			So(err, ShouldBeNil)
			h2, err := c.Handle("alias")
			So(err, ShouldBeNil)
			So(h1, ShouldEqual, h2)
			So(len(c.Sources()), ShouldEqual, 2)
		})

		Convey("Rebinding a nickname to another file fails", func() {
			err := c.AddSource("/data/b.yaml", "a")
			So(types.Is(err, types.DuplicateNicknameError), ShouldBeTrue)
			obj, err := c.Get(ctx, "a:jets/pt")
			So(err, ShouldBeNil)
			So(obj.Value(1), ShouldEqual, 1)
		})

		Convey("Unknown nicknames fail", func() {
			_, err := c.Get(ctx, "zz:jets/pt")
			So(types.Is(err, types.UnknownNicknameError), ShouldBeTrue)
		})

		Convey("Missing objects fail with NotFoundError", func() {
			_, err := c.Get(ctx, "a:jets/none")
			So(types.Is(err, types.NotFoundError), ShouldBeTrue)
		})
	})

	Convey("Without an explicit backend the extension picks one", t, func() {
		c := catalog.New()
		So(c.AddSource("objects.yaml", "y"), ShouldBeNil)
		So(c.AddSource("objects.sqlite", "s"), ShouldBeNil)
		err := c.AddSource("objects.txt", "t")
		So(types.Is(err, types.StorageError), ShouldBeTrue)
		_, err = c.Handle("t")
		So(types.Is(err, types.UnknownNicknameError), ShouldBeTrue)
	})
}

func TestRequest(t *testing.T) {
	ctx := context.Background()
	Convey("Given a catalog over a memory store", t, func() {
		m, a, b := memoryFixture()
		c := catalog.New(catalog.WithBackend(m))
		So(c.AddSource("/data/a.yaml", "a"), ShouldBeNil)
		So(c.AddSource("/data/b.yaml", "b"), ShouldBeNil)

		Convey("Requests batch per file", func() {
			err := c.Request(
				catalog.Spec("a:jets/pt"),
				catalog.Object("a", "jets/eta"),
				catalog.Spec("b:jets/pt", source.WithRebin(2)),
			)
			So(err, ShouldBeNil)

			_, err = c.Get(ctx, "a:jets/pt")
			So(err, ShouldBeNil)
			_, err = c.Get(ctx, "a:jets/eta")
			So(err, ShouldBeNil)
			So(m.Opens(a), ShouldEqual, 1)

			obj, err := c.Get(ctx, "b:jets/pt")
			So(err, ShouldBeNil)
			So(obj.Len(), ShouldEqual, 4)
			So(m.Opens(b), ShouldEqual, 1)
		})

		Convey("A malformed request stages nothing", func() {
			err := c.Request(
				catalog.Spec("a:jets/pt"),
				catalog.RequestSpec{ObjectSpec: "a:jets/eta", Nickname: "a"},
			)
			So(types.Is(err, types.InvalidRequestError), ShouldBeTrue)

			err = c.Request(catalog.RequestSpec{Nickname: "a"})
			So(types.Is(err, types.InvalidRequestError), ShouldBeTrue)

			err = c.Request(catalog.Spec("a:jets/pt"), catalog.Spec("nope:x"))
			So(types.Is(err, types.UnknownNicknameError), ShouldBeTrue)

			h, err := c.Handle("a")
			So(err, ShouldBeNil)
			So(h.Pending(), ShouldBeEmpty)
		})

		Convey("Clear drops cached objects of every file", func() {
			_, err := c.Get(ctx, "a:jets/pt")
			So(err, ShouldBeNil)
			c.Clear()
			h, _ := c.Handle("a")
			So(h.Cached(), ShouldBeEmpty)
			So(c.Nicknames(), ShouldHaveLength, 4)
		})
	})
}

func TestWatch(t *testing.T) {
	Convey("Given a watched YAML file", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		dir := t.TempDir()
		path := filepath.Join(dir, "objects.yaml")
		So(storage.YAML{}.Write(ctx, path, map[string]binned.Object{"pt": ptHist(1)}), ShouldBeNil)

		c := catalog.New()
		So(c.AddSource(path, "f"), ShouldBeNil)
		obj, err := c.Get(ctx, "f:pt")
		So(err, ShouldBeNil)
		So(obj.Value(1), ShouldEqual, 1)
		So(c.Watch(ctx), ShouldBeNil)

		Convey("Rewriting the file is picked up by the next Get", func() {
			So(storage.YAML{}.Write(ctx, path, map[string]binned.Object{"pt": ptHist(5)}), ShouldBeNil)

			h, _ := c.Handle("f")
			deadline := time.Now().Add(5 * time.Second)
			for !h.Stale() && time.Now().Before(deadline) {
				time.Sleep(10 * time.Millisecond)
			}
			So(h.Stale(), ShouldBeTrue)

			obj, err := c.Get(ctx, "f:pt")
			So(err, ShouldBeNil)
			So(obj.Value(1), ShouldEqual, 5)
		})

		Convey("Unrelated files in the directory are ignored", func() {
			So(os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644), ShouldBeNil)
			time.Sleep(100 * time.Millisecond)
			h, _ := c.Handle("f")
			So(h.Stale(), ShouldBeFalse)
		})
	})
}
