// Package catalog routes object specs of the form "nickname:path/in/file"
// to the handle of the file registered under that nickname.
//
//	c := catalog.New()
//	err := c.AddSource("/data/jets.sqlite", "jets")
//	obj, err := c.Get(ctx, "jets:pt/inclusive")
//
// Every file is also reachable under the path it was registered with, so
// "/data/jets.sqlite:pt/inclusive" resolves to the same object.
package catalog

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/inconshreveable/log15"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/logging"
	"github.com/tfesenbecker/palisade/pkg/source"
	"github.com/tfesenbecker/palisade/pkg/storage"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// Catalog maps nicknames to files and files to their handles.
//
// Registration and lookups are guarded by a mutex so that a running
// watcher can find handles; the handles themselves are single-threaded.
type Catalog struct {
	mu        sync.RWMutex
	backend   storage.Backend
	log       log15.Logger
	nicknames map[string]string         // nickname -> canonical path
	handles   map[string]*source.Handle // canonical path -> handle
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithBackend reads every file through b instead of choosing a backend
// from the file extension.
func WithBackend(b storage.Backend) Option {
	return func(c *Catalog) { c.backend = b }
}

// WithLogger sets the logger passed on to handles.
func WithLogger(log log15.Logger) Option {
	return func(c *Catalog) {
		if log != nil {
			c.log = log
		}
	}
}

// New returns an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		log:       logging.Discard(),
		nicknames: make(map[string]string),
		handles:   make(map[string]*source.Handle),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddSource registers the file at path. The path as given always becomes
// a nickname; nickname, if not empty, is added as well. Registering the
// same file twice reuses its handle. A nickname already bound to another
// file fails with DuplicateNicknameError.
func (c *Catalog) AddSource(path, nickname string) error {
	canonical := canonicalPath(path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if nickname != "" {
		if bound, ok := c.nicknames[nickname]; ok && bound != canonical {
			return types.DuplicateNicknameError.New("nickname %q is already registered for %q", nickname, bound)
		}
	}
	if _, ok := c.handles[canonical]; !ok {
		backend := c.backend
		if backend == nil {
			var err error
			if backend, err = storage.ForPath(canonical); err != nil {
				return err
			}
		}
		c.handles[canonical] = source.NewHandle(canonical, backend, source.WithLogger(c.log))
		c.log.Info("registered source", "path", canonical, "nickname", nickname)
	}
	c.nicknames[path] = canonical
	if nickname != "" {
		c.nicknames[nickname] = canonical
	}
	return nil
}

// canonicalPath resolves path to an absolute path without symlinks. Files
// that do not exist yet keep their absolute path.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

// SplitSpec splits an object spec at its first colon.
func SplitSpec(spec string) (nickname, objectPath string, err error) {
	nickname, objectPath, ok := strings.Cut(spec, ":")
	if !ok {
		return "", "", types.InvalidRequestError.New("object spec %q has no nickname (expected nickname:path)", spec)
	}
	return nickname, objectPath, nil
}

// Handle returns the handle registered under nickname, which may also be
// a registered path.
func (c *Catalog) Handle(nickname string) (*source.Handle, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.handleLocked(nickname)
}

func (c *Catalog) handleLocked(nickname string) (*source.Handle, error) {
	canonical, ok := c.nicknames[nickname]
	if !ok {
		return nil, types.UnknownNicknameError.New("no file registered for %q", nickname)
	}
	return c.handles[canonical], nil
}

// Get returns a copy of the object named by spec.
func (c *Catalog) Get(ctx context.Context, spec string) (binned.Object, error) {
	nickname, objectPath, err := SplitSpec(spec)
	if err != nil {
		return nil, err
	}
	h, err := c.Handle(nickname)
	if err != nil {
		return nil, err
	}
	return h.Get(ctx, objectPath)
}

// Request stages objects for retrieval. All specs are validated and
// resolved before any of them is staged, so a bad spec stages nothing.
func (c *Catalog) Request(specs ...RequestSpec) error {
	type staged struct {
		h    *source.Handle
		path string
		opts []source.RequestOption
	}
	c.mu.RLock()
	batch := make([]staged, 0, len(specs))
	for _, spec := range specs {
		nickname, objectPath, err := spec.target()
		if err != nil {
			c.mu.RUnlock()
			return err
		}
		h, err := c.handleLocked(nickname)
		if err != nil {
			c.mu.RUnlock()
			return err
		}
		batch = append(batch, staged{h, objectPath, spec.Options})
	}
	c.mu.RUnlock()

	for _, s := range batch {
		s.h.Request(s.path, s.opts...)
	}
	return nil
}

// Nicknames returns every registered nickname, including registered
// paths, in sorted order.
func (c *Catalog) Nicknames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.nicknames))
	for n := range c.nicknames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Sources returns the canonical paths of all registered files.
func (c *Catalog) Sources() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.handles))
	for p := range c.handles {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Clear drops the cached objects and pending requests of every file.
// Registrations are kept.
func (c *Catalog) Clear() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, h := range c.handles {
		h.Clear()
	}
}
