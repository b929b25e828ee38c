package catalog

import (
	"github.com/tfesenbecker/palisade/pkg/source"
	"github.com/tfesenbecker/palisade/pkg/types"
)

// RequestSpec names one object to stage, either as ObjectSpec
// ("nickname:path") or as Nickname and ObjectPath, never both.
type RequestSpec struct {
	ObjectSpec string
	Nickname   string
	ObjectPath string
	Options    []source.RequestOption
}

// Spec returns a request for an object spec.
func Spec(objectSpec string, opts ...source.RequestOption) RequestSpec {
	return RequestSpec{ObjectSpec: objectSpec, Options: opts}
}

// Object returns a request for objectPath in the file registered as nickname.
func Object(nickname, objectPath string, opts ...source.RequestOption) RequestSpec {
	return RequestSpec{Nickname: nickname, ObjectPath: objectPath, Options: opts}
}

func (r RequestSpec) target() (nickname, objectPath string, err error) {
	split := r.Nickname != "" || r.ObjectPath != ""
	switch {
	case r.ObjectSpec != "" && !split:
		return SplitSpec(r.ObjectSpec)
	case r.ObjectSpec == "" && r.Nickname != "" && r.ObjectPath != "":
		return r.Nickname, r.ObjectPath, nil
	}
	return "", "", types.InvalidRequestError.New(
		"request must have either an object spec or both a nickname and an object path, got %+v", r)
}
