// Package storage reads and writes the files that hold binned objects.
//
// A [Backend] opens one file as a [Session]; a session resolves object
// paths to objects until it is closed. The catalog opens one session per
// flush of pending requests, so a batch of objects from the same file is
// read with a single open.
//
// Supported formats, chosen by file extension in [ForPath]:
//
//	.db .sqlite .sqlite3   SQLite table objects(path, kind, payload), msgpack payloads
//	.zst                   zstd-compressed msgpack map of object path to record
//	.yaml .yml             YAML document with an "objects" mapping
package storage

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// Backend opens files of one format.
type Backend interface {
	Open(ctx context.Context, path string) (Session, error)
}

// Session reads objects from one open file.
type Session interface {
	// Get returns the object stored under objectPath, or a NotFoundError.
	Get(ctx context.Context, objectPath string) (binned.Object, error)
	Close() error
}

// Lister is implemented by sessions that can enumerate their objects.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// Writer is implemented by backends that can store objects. Existing
// objects with the same path are replaced.
type Writer interface {
	Write(ctx context.Context, path string, objects map[string]binned.Object) error
}

// ForPath picks a backend from the file extension of path.
func ForPath(path string) (Backend, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return SQLite{}, nil
	case ".zst":
		return Archive{}, nil
	case ".yaml", ".yml":
		return YAML{}, nil
	}
	return nil, types.StorageError.New("no storage backend for %q", path)
}

// Keys lists the objects of the file at path.
func Keys(ctx context.Context, b Backend, path string) ([]string, error) {
	s, err := b.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	l, ok := s.(Lister)
	if !ok {
		return nil, types.StorageError.New("%q cannot be listed", path)
	}
	return l.Keys(ctx)
}

func notFound(path, objectPath string) error {
	return types.NotFoundError.New("object %q not found in %q", objectPath, path)
}

func decodeRecord(path, objectPath string, r *binned.Record) (binned.Object, error) {
	if r == nil {
		return nil, notFound(path, objectPath)
	}
	obj, err := binned.FromRecord(r, objectPath)
	if err != nil {
		return nil, types.StorageError.New("%q in %q: %v", objectPath, path, err)
	}
	return obj, nil
}
