// Package path navigates deep member chains on dynamic values.
//
// A Path is a small AST of segments: Field segments descend via member access
// (map keys, slice indexes, exported struct fields, bound methods) and Call
// segments descend via invocation of the value bound by the preceding Field.
// The final segment is the member actually read, written, invoked, or deleted.
package path

import (
	"fmt"
	"reflect"
)

// Kind discriminates path segments.
type Kind uint8

const (
	// Field descends via member access.
	Field Kind = iota
	// Call descends via invocation with the segment's argument list.
	Call
)

// Segment is one step of a Path.
type Segment struct {
	Kind Kind
	Key  any   // Field: map key, slice index, struct field or method name
	Args []any // Call: argument list
}

// F builds a Field segment.
func F(key any) Segment { return Segment{Kind: Field, Key: key} }

// C builds a Call segment.
func C(args ...any) Segment { return Segment{Kind: Call, Args: args} }

// Path is an ordered list of segments.
type Path []Segment

// FromSpec converts a dynamic path description into a Path. A description is
// either a single key, or a list whose elements are keys (Field) and argument
// lists (Call).
func FromSpec(spec any) Path {
	switch s := spec.(type) {
	case Path:
		return s
	case Segment:
		return Path{s}
	case []Segment:
		return Path(s)
	case []any:
		p := make(Path, 0, len(s))
		for _, seg := range s {
			if args, ok := seg.([]any); ok {
				p = append(p, C(args...))
			} else {
				p = append(p, F(seg))
			}
		}
		return p
	default:
		return Path{F(spec)}
	}
}

// Get resolves the full path against root and returns the target member.
func Get(root any, p Path) (any, error) {
	cur := root
	for i, seg := range p {
		next, err := resolve(cur, seg)
		if err != nil {
			return nil, fmt.Errorf("path segment %d: %w", i, err)
		}
		cur = next
	}
	return cur, nil
}

// Set resolves all but the final segment, then assigns val to the final member.
func Set(root any, p Path, val any) error {
	parent, last, err := parentOf(root, p)
	if err != nil {
		return err
	}
	return setMember(parent, last.Key, val)
}

// Delete resolves all but the final segment, then removes the final member.
// Map entries are deleted; slice elements and struct fields are zeroed.
func Delete(root any, p Path) error {
	parent, last, err := parentOf(root, p)
	if err != nil {
		return err
	}
	return deleteMember(parent, last.Key)
}

// Invoke resolves the full path, expecting a callable member, and calls it.
// A method resolved by the final Field segment is invoked with its receiver
// already bound.
func Invoke(root any, p Path, args []any) (any, error) {
	fn, err := Get(root, p)
	if err != nil {
		return nil, err
	}
	return callValue(fn, args)
}

func parentOf(root any, p Path) (any, Segment, error) {
	if len(p) == 0 {
		return nil, Segment{}, fmt.Errorf("empty path")
	}
	last := p[len(p)-1]
	if last.Kind != Field {
		return nil, Segment{}, fmt.Errorf("final path segment must be a field, not a call")
	}
	parent := root
	if len(p) > 1 {
		var err error
		parent, err = Get(root, p[:len(p)-1])
		if err != nil {
			return nil, Segment{}, err
		}
	}
	return parent, last, nil
}

func resolve(cur any, seg Segment) (any, error) {
	if seg.Kind == Call {
		return callValue(cur, seg.Args)
	}
	return member(cur, seg.Key)
}

// member reads one member off container. Methods resolve to func values with
// the receiver bound, so a following Call segment invokes them directly.
func member(container, key any) (any, error) {
	if container == nil {
		return nil, fmt.Errorf("cannot read %v from nil", key)
	}

	// Fast path for the scope shapes the engine builds by default.
	if m, ok := container.(map[string]any); ok {
		if name, ok := key.(string); ok {
			// Absent keys read as nil, matching dynamic member access.
			return m[name], nil
		}
	}

	rv := reflect.ValueOf(container)

	if idx, ok := asIndex(key); ok {
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if idx < 0 || idx >= rv.Len() {
				return nil, fmt.Errorf("index %d out of range (len %d)", idx, rv.Len())
			}
			return rv.Index(idx).Interface(), nil
		}
	}

	name, ok := key.(string)
	if !ok {
		return nil, fmt.Errorf("unsupported path key %v (%T) on %T", key, key, container)
	}

	elem := rv
	for elem.Kind() == reflect.Ptr {
		if elem.IsNil() {
			return nil, fmt.Errorf("cannot read %q from nil %T", name, container)
		}
		elem = elem.Elem()
	}

	switch elem.Kind() {
	case reflect.Map:
		kv := reflect.ValueOf(key)
		if kv.Type().AssignableTo(elem.Type().Key()) {
			if v := elem.MapIndex(kv); v.IsValid() {
				return v.Interface(), nil
			}
			return nil, nil
		}
	case reflect.Struct:
		if f := elem.FieldByName(name); f.IsValid() && f.CanInterface() {
			return f.Interface(), nil
		}
	}

	// Methods bind the container as receiver.
	if m := rv.MethodByName(name); m.IsValid() {
		return m.Interface(), nil
	}

	return nil, fmt.Errorf("no member %q on %T", name, container)
}

func setMember(container, key, val any) error {
	if container == nil {
		return fmt.Errorf("cannot write %v on nil", key)
	}

	if m, ok := container.(map[string]any); ok {
		if name, ok := key.(string); ok {
			m[name] = val
			return nil
		}
	}

	rv := reflect.ValueOf(container)

	if idx, ok := asIndex(key); ok && rv.Kind() == reflect.Slice {
		if idx < 0 || idx >= rv.Len() {
			return fmt.Errorf("index %d out of range (len %d)", idx, rv.Len())
		}
		return assign(rv.Index(idx), val)
	}

	elem := rv
	for elem.Kind() == reflect.Ptr {
		if elem.IsNil() {
			return fmt.Errorf("cannot write %v on nil %T", key, container)
		}
		elem = elem.Elem()
	}

	switch elem.Kind() {
	case reflect.Map:
		kv := reflect.ValueOf(key)
		if kv.Type().AssignableTo(elem.Type().Key()) {
			vv, err := coerce(val, elem.Type().Elem())
			if err != nil {
				return err
			}
			elem.SetMapIndex(kv, vv)
			return nil
		}
	case reflect.Struct:
		if name, ok := key.(string); ok {
			if f := elem.FieldByName(name); f.IsValid() && f.CanSet() {
				return assign(f, val)
			}
		}
	}

	return fmt.Errorf("cannot write member %v on %T", key, container)
}

func deleteMember(container, key any) error {
	if container == nil {
		return fmt.Errorf("cannot delete %v from nil", key)
	}

	if m, ok := container.(map[string]any); ok {
		if name, ok := key.(string); ok {
			delete(m, name)
			return nil
		}
	}

	rv := reflect.ValueOf(container)

	if idx, ok := asIndex(key); ok && rv.Kind() == reflect.Slice {
		if idx < 0 || idx >= rv.Len() {
			return fmt.Errorf("index %d out of range (len %d)", idx, rv.Len())
		}
		el := rv.Index(idx)
		el.Set(reflect.Zero(el.Type()))
		return nil
	}

	elem := rv
	for elem.Kind() == reflect.Ptr {
		if elem.IsNil() {
			return fmt.Errorf("cannot delete %v from nil %T", key, container)
		}
		elem = elem.Elem()
	}

	switch elem.Kind() {
	case reflect.Map:
		kv := reflect.ValueOf(key)
		if kv.Type().AssignableTo(elem.Type().Key()) {
			elem.SetMapIndex(kv, reflect.Value{})
			return nil
		}
	case reflect.Struct:
		if name, ok := key.(string); ok {
			if f := elem.FieldByName(name); f.IsValid() && f.CanSet() {
				f.Set(reflect.Zero(f.Type()))
				return nil
			}
		}
	}

	return fmt.Errorf("cannot delete member %v from %T", key, container)
}

// assign writes val into dst, converting when the types permit it.
func assign(dst reflect.Value, val any) error {
	vv, err := coerce(val, dst.Type())
	if err != nil {
		return err
	}
	dst.Set(vv)
	return nil
}

func coerce(val any, t reflect.Type) (reflect.Value, error) {
	if val == nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot assign nil to %s", t)
	}
	vv := reflect.ValueOf(val)
	if vv.Type().AssignableTo(t) {
		return vv, nil
	}
	if vv.Type().ConvertibleTo(t) {
		return vv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot assign %T to %s", val, t)
}

// asIndex normalizes the numeric key types that reach the engine from Go
// callers and YAML-loaded programs.
func asIndex(key any) (int, bool) {
	switch k := key.(type) {
	case int:
		return k, true
	case int64:
		return int(k), true
	case uint64:
		return int(k), true
	case float64:
		if k == float64(int(k)) {
			return int(k), true
		}
	}
	return 0, false
}
