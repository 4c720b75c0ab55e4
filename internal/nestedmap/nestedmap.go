// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package nestedmap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Map is the shape produced by decoding a JSON object or a YAML mapping.
type Map = map[string]any

// ErrKeyNotFound matches every KeyNotFoundError via errors.Is.
var ErrKeyNotFound = errors.New("key not found")

// KeyNotFoundError reports the first key of a path that could not be
// resolved, either because it is absent or because the value it was looked up
// in is not a mapping. Only the offending key is carried, never the path.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return strconv.Quote(e.Key)
}

func (e *KeyNotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound
}

// TypeError is returned by AccessAs when the resolved value is not of the
// requested type.
type TypeError struct {
	Path Path
	Want string
	Got  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("value at %q is %s, not %s", e.Path.String(), e.Got, e.Want)
}

// Access walks m along path and returns the value it ends on. An empty path
// returns m itself. The walk stops at the first key that is missing or whose
// parent is not a mapping and reports that key in a *KeyNotFoundError.
func Access(m any, path ...string) (any, error) {
	cursor := m
	for _, key := range path {
		next, ok := lookup(cursor, key)
		if !ok {
			return nil, &KeyNotFoundError{Key: key}
		}
		cursor = next
	}
	return cursor, nil
}

// AccessAs is Access followed by a type assertion to T.
func AccessAs[T any](m any, path ...string) (T, error) {
	var zero T

	v, err := Access(m, path...)
	if err != nil {
		return zero, err
	}

	t, ok := v.(T)
	if !ok {
		return zero, &TypeError{
			Path: path,
			Want: fmt.Sprintf("%T", zero),
			Got:  fmt.Sprintf("%T", v),
		}
	}
	return t, nil
}

// IsMap reports whether v is one of the mapping shapes Access can descend
// into.
func IsMap(v any) bool {
	switch v.(type) {
	case map[string]any, map[any]any:
		return true
	}
	return false
}

// StringKeys returns a copy of v in which every map[any]any node, which JSON
// encoders reject, is a map[string]any keyed on the string form of its keys.
// Other values are returned as is.
func StringKeys(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = StringKeys(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = StringKeys(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = StringKeys(val)
		}
		return out
	default:
		return v
	}
}

// lookup resolves a single key. yaml.v2 style map[any]any mappings are
// matched on the string form of their keys.
func lookup(cursor any, key string) (any, bool) {
	switch m := cursor.(type) {
	case map[string]any:
		v, ok := m[key]
		return v, ok
	case map[any]any:
		if v, ok := m[key]; ok {
			return v, true
		}
		for k, v := range m {
			if s, ok := k.(string); ok && s == key {
				return v, true
			}
			if fmt.Sprint(k) == key {
				return v, true
			}
		}
	}
	return nil, false
}

// Path is an ordered list of keys, evaluated left to right.
type Path []string

// ParsePath splits a dotted spec such as "license.key" into a Path. A
// backslash escapes a literal dot. "" and "." both parse to the empty path.
func ParsePath(spec string) Path {
	if spec == "" || spec == "." {
		return Path{}
	}

	var (
		path Path
		cur  strings.Builder
	)
	for i := 0; i < len(spec); i++ {
		c := spec[i]
		switch {
		case c == '\\' && i+1 < len(spec) && spec[i+1] == '.':
			cur.WriteByte('.')
			i++
		case c == '.':
			path = append(path, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(path, cur.String())
}

// String renders p in the dotted form accepted by ParsePath.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, k := range p {
		parts[i] = strings.ReplaceAll(k, ".", `\.`)
	}
	return strings.Join(parts, ".")
}
