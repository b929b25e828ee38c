package functions

import (
	"github.com/tfesenbecker/palisade/pkg/binned"
	"github.com/tfesenbecker/palisade/pkg/types"
)

func argAt(fn string, args []interface{}, i int) (interface{}, error) {
	if i >= len(args) {
		return nil, types.ArgumentError.New("%s(): missing argument %d", fn, i+1)
	}
	return args[i], nil
}

// ObjectArg returns argument i as a binned object.
func ObjectArg(fn string, args []interface{}, i int) (binned.Object, error) {
	v, err := argAt(fn, args, i)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(binned.Object)
	if !ok {
		return nil, types.UnsupportedTypeError.New("%s(): argument %d must be an object, got %s", fn, i+1, TypeName(v))
	}
	return obj, nil
}

// HistogramArg returns a writable copy of argument i; profiles are projected.
func HistogramArg(fn string, args []interface{}, i int) (binned.Histogram, error) {
	obj, err := ObjectArg(fn, args, i)
	if err != nil {
		return nil, err
	}
	return binned.ProjectOrClone(obj)
}

// FloatArg returns argument i as a number.
func FloatArg(fn string, args []interface{}, i int) (float64, error) {
	v, err := argAt(fn, args, i)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, types.UnsupportedTypeError.New("%s(): argument %d must be a number, got %s", fn, i+1, TypeName(v))
}

// OptionalFloatArg is like FloatArg but reports false when the argument
// was not passed.
func OptionalFloatArg(fn string, args []interface{}, i int) (float64, bool, error) {
	if i >= len(args) || args[i] == nil {
		return 0, false, nil
	}
	f, err := FloatArg(fn, args, i)
	return f, err == nil, err
}

// IntArg returns argument i as an integral number.
func IntArg(fn string, args []interface{}, i int) (int, error) {
	f, err := FloatArg(fn, args, i)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, types.ArgumentError.New("%s(): argument %d must be an integer, got %g", fn, i+1, f)
	}
	return int(f), nil
}

// StringArg returns argument i as a string, or def when it was not passed.
func StringArg(fn string, args []interface{}, i int, def string) (string, error) {
	if i >= len(args) {
		return def, nil
	}
	s, ok := args[i].(string)
	if !ok {
		return "", types.UnsupportedTypeError.New("%s(): argument %d must be a string, got %s", fn, i+1, TypeName(args[i]))
	}
	return s, nil
}

// ObjectListArg returns argument i as a list of objects.
func ObjectListArg(fn string, args []interface{}, i int) ([]binned.Object, error) {
	v, err := argAt(fn, args, i)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, types.UnsupportedTypeError.New("%s(): argument %d must be a list of objects, got %s", fn, i+1, TypeName(v))
	}
	return toObjects(fn, list)
}

// ObjectsArg accepts either a single list of objects or the objects as
// separate arguments.
func ObjectsArg(fn string, args []interface{}) ([]binned.Object, error) {
	if len(args) == 1 {
		if list, ok := args[0].([]interface{}); ok {
			return toObjects(fn, list)
		}
	}
	return toObjects(fn, args)
}

func toObjects(fn string, list []interface{}) ([]binned.Object, error) {
	objs := make([]binned.Object, len(list))
	for i, v := range list {
		obj, ok := v.(binned.Object)
		if !ok {
			return nil, types.UnsupportedTypeError.New("%s(): list element %d must be an object, got %s", fn, i, TypeName(v))
		}
		objs[i] = obj
	}
	return objs, nil
}

// TypeName describes a runtime value for error messages.
func TypeName(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "nothing"
	case float64, int:
		return "number"
	case string:
		return "string"
	case []interface{}:
		return "list"
	case binned.Bin:
		return "bin"
	case binned.Object:
		return x.Kind().String()
	}
	return "unknown"
}
