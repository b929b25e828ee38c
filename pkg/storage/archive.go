package storage

import (
	"context"
	"os"
	"sort"

	"github.com/klauspost/compress/zstd"

	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// Archive stores all objects of a file as one zstd-compressed msgpack map.
// The whole map is decoded when the file is opened.
type Archive struct{}

// Open reads and decodes the archive at path.
func (Archive) Open(ctx context.Context, path string) (Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.StorageError.Wrap(err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, types.StorageError.Wrap(err)
	}
	defer dec.Close()

	records := make(map[string]*binned.Record)
	if err := newMsgpackDecoder(dec).Decode(&records); err != nil {
		return nil, types.StorageError.New("decoding %q: %v", path, err)
	}
	return &recordSession{path: path, records: records}, nil
}

// Write replaces the archive at path with objects.
func (Archive) Write(ctx context.Context, path string, objects map[string]binned.Object) error {
	records, err := toRecords(objects)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return types.StorageError.Wrap(err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return types.StorageError.Wrap(err)
	}
	if err := newMsgpackEncoder(enc).Encode(records); err != nil {
		enc.Close()
		f.Close()
		return types.StorageError.Wrap(err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return types.StorageError.Wrap(err)
	}
	if err := f.Close(); err != nil {
		return types.StorageError.Wrap(err)
	}
	return nil
}

// recordSession serves objects from records decoded up front.
type recordSession struct {
	path    string
	records map[string]*binned.Record
}

func (s *recordSession) Get(ctx context.Context, objectPath string) (binned.Object, error) {
	return decodeRecord(s.path, objectPath, s.records[objectPath])
}

func (s *recordSession) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *recordSession) Close() error {
	s.records = nil
	return nil
}
