// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/staranto/nmctl/internal/nestedmap"
)

// Tag describes one path in a decoded document.
type Tag struct {
	Path string
	Kind string
}

// DumpSchema prints every path reachable in doc along with the kind of value
// found there. Arrays are described by their first element.
func DumpSchema(doc any, w io.Writer) {
	for _, tag := range DumpSchemaWalker(nil, doc, 0) {
		fmt.Fprintf(w, "%-8s %s\n", tag.Kind, tag.Path)
	}
}

// DumpSchemaWalker walks v and returns a Tag per path, sorted by path. Depth
// is capped to keep recursive payloads in check.
func DumpSchemaWalker(prefix nestedmap.Path, v any, depth int) []Tag {
	if depth > 32 {
		return nil
	}

	var tags []Tag
	switch v := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p := append(append(nestedmap.Path{}, prefix...), k)
			tags = append(tags, Tag{Path: p.String(), Kind: kindOf(v[k])})
			tags = append(tags, DumpSchemaWalker(p, v[k], depth+1)...)
		}
	case map[any]any:
		converted := make(map[string]any, len(v))
		for k, val := range v {
			converted[fmt.Sprint(k)] = val
		}
		return DumpSchemaWalker(prefix, converted, depth)
	case []any:
		if len(v) > 0 {
			p := append(nestedmap.Path{}, prefix...)
			if len(p) > 0 {
				p[len(p)-1] += "[0]"
			}
			tags = append(tags, DumpSchemaWalker(p, v[0], depth+1)...)
		}
	}
	return tags
}

func kindOf(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64, int, int64, uint64:
		return "number"
	case []any:
		if len(v) > 0 {
			return "[]" + kindOf(v[0])
		}
		return "[]"
	default:
		if nestedmap.IsMap(v) {
			return "object"
		}
		return strings.ToLower(fmt.Sprintf("%T", v))
	}
}
