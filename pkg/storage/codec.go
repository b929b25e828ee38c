package storage

import (
	"io"

	"github.com/ugorji/go/codec"

	"github.com/tfesenbecker/palisade/pkg/binned"
)

var msgpack = &codec.MsgpackHandle{}

func init() {
	msgpack.WriteExt = true
	msgpack.RawToString = true
}

func encodeMsgpack(v interface{}) ([]byte, error) {
	var out []byte
	err := codec.NewEncoderBytes(&out, msgpack).Encode(v)
	return out, err
}

func decodeMsgpack(b []byte, v interface{}) error {
	return codec.NewDecoderBytes(b, msgpack).Decode(v)
}

func newMsgpackEncoder(w io.Writer) *codec.Encoder {
	return codec.NewEncoder(w, msgpack)
}

func newMsgpackDecoder(r io.Reader) *codec.Decoder {
	return codec.NewDecoder(r, msgpack)
}

func toRecords(objects map[string]binned.Object) (map[string]*binned.Record, error) {
	records := make(map[string]*binned.Record, len(objects))
	for path, obj := range objects {
		r, err := binned.ToRecord(obj)
		if err != nil {
			return nil, err
		}
		records[path] = r
	}
	return records, nil
}
