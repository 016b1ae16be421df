package path

import (
	"fmt"
	"reflect"
)

// callValue invokes fn with args. Plain variadic any-functions are called
// directly; everything else goes through reflection with argument coercion.
//
// Result mapping: no returns → nil; one return → that value; a trailing error
// return is split off and returned as the error; other multi-returns collapse
// into a []any.
func callValue(fn any, args []any) (any, error) {
	if f, ok := fn.(func(...any) any); ok {
		return f(args...), nil
	}

	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func {
		return nil, fmt.Errorf("cannot call non-function %T", fn)
	}

	in, err := convertArgs(rv.Type(), args)
	if err != nil {
		return nil, err
	}

	out := rv.Call(in)
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return returned(out[0]), nil
	default:
		last := out[len(out)-1]
		if last.Type() == errorType {
			var callErr error
			if !last.IsNil() {
				callErr = last.Interface().(error)
			}
			if len(out) == 2 {
				return returned(out[0]), callErr
			}
			vals := make([]any, len(out)-1)
			for i := range vals {
				vals[i] = returned(out[i])
			}
			return vals, callErr
		}
		vals := make([]any, len(out))
		for i := range vals {
			vals[i] = returned(out[i])
		}
		return vals, nil
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func returned(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

// convertArgs shapes args to the function signature, handling variadic tails
// and nil arguments.
func convertArgs(ft reflect.Type, args []any) ([]reflect.Value, error) {
	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("function wants at least %d args, got %d", fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("function wants %d args, got %d", fixed, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if i < fixed {
			pt = ft.In(i)
		} else {
			pt = ft.In(ft.NumIn() - 1).Elem()
		}
		v, err := coerce(arg, pt)
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		in[i] = v
	}
	return in, nil
}
