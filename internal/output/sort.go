// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotRecords is returned when a query target is not an array of records.
var ErrNotRecords = errors.New("value is not a list of records")

type sortKey struct {
	field         string
	descending    bool
	caseSensitive bool
}

func parseSortSpec(spec string) []sortKey {
	var keys []sortKey
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		var key sortKey
		for len(field) > 0 && (field[0] == '-' || field[0] == '!') {
			if field[0] == '-' {
				key.descending = true
			} else {
				key.caseSensitive = true
			}
			field = field[1:]
		}
		if field == "" {
			continue
		}
		key.field = field
		keys = append(keys, key)
	}
	return keys
}

// SortDataset sorts data in place by spec, a comma separated list of output
// keys. A leading - sorts descending and a leading ! compares strings case
// sensitively. Records equal on every key keep their relative order.
func SortDataset(data []map[string]interface{}, spec string) {
	keys := parseSortSpec(spec)
	if len(keys) == 0 {
		return
	}

	sort.SliceStable(data, func(i, j int) bool {
		for _, key := range keys {
			c := compareValues(data[i][key.field], data[j][key.field], key.caseSensitive)
			if c == 0 {
				continue
			}
			if key.descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareValues orders nil first, then numbers numerically and everything
// else by its string form.
func compareValues(a, b interface{}, caseSensitive bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}

	as, bs := InterfaceToString(a), InterfaceToString(b)
	if !caseSensitive {
		as, bs = strings.ToLower(as), strings.ToLower(bs)
	}
	return strings.Compare(as, bs)
}
