// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var indexRe = regexp.MustCompile(`^(.*)\[(\d+)\]$`)

// Driller resolves path inside the JSON document json. Segments are separated
// by dots and may carry an explicit index (tags[1]). An array holding exactly
// one element is treated as that element, so "items.id" reaches into
// [{"id": ...}]. Anything unresolvable yields an empty Result.
func Driller(json string, path string) gjson.Result {
	result := gjson.Parse(json)
	if path == "" {
		return result
	}

	for _, segment := range strings.Split(path, ".") {
		key, idx := segment, -1
		if m := indexRe.FindStringSubmatch(segment); m != nil {
			key = m[1]
			idx, _ = strconv.Atoi(m[2])
		}

		if key != "" {
			result = collapse(result).Get(escape(key))
			if !result.Exists() {
				return gjson.Result{}
			}
		}

		if idx >= 0 {
			if !result.IsArray() {
				return gjson.Result{}
			}
			elements := result.Array()
			if idx >= len(elements) {
				return gjson.Result{}
			}
			result = elements[idx]
		}
	}

	return collapse(result)
}

func collapse(r gjson.Result) gjson.Result {
	if r.IsArray() {
		if elements := r.Array(); len(elements) == 1 {
			return elements[0]
		}
	}
	return r
}

// escape protects gjson path syntax characters in a single key.
func escape(key string) string {
	var b strings.Builder
	for _, c := range key {
		if strings.ContainsRune(`\*?|#@!=<>%`, c) {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
