// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestChopPrefix(t *testing.T) {
	tests := []struct {
		name string
		data []map[string]interface{}
		want []interface{}
	}{
		{
			name: "empty dataset",
			data: []map[string]interface{}{},
			want: []interface{}{},
		},
		{
			name: "no common segments",
			data: []map[string]interface{}{
				{"pkg": "a.x.y"},
				{"pkg": "b.x.y"},
				{"pkg": "c.x.y"},
			},
			want: []interface{}{"a.x.y", "b.x.y", "c.x.y"},
		},
		{
			name: "one common segment only",
			data: []map[string]interface{}{
				{"pkg": "com.a"},
				{"pkg": "com.b"},
				{"pkg": "org.c"},
			},
			want: []interface{}{"com.a", "com.b", "org.c"},
		},
		{
			name: "majority share the prefix",
			data: []map[string]interface{}{
				{"pkg": "com.google.cloud.storage"},
				{"pkg": "com.google.cloud.pubsub"},
				{"pkg": "com.google.cloud.spanner"},
				{"pkg": "com.google.api.gax"},
			},
			want: []interface{}{"..storage", "..pubsub", "..spanner", "com.google.api.gax"},
		},
		{
			name: "different lengths",
			data: []map[string]interface{}{
				{"pkg": "a.b.c"},
				{"pkg": "a.b"},
				{"pkg": "a.b.c.d"},
				{"pkg": "x.y.z"},
			},
			want: []interface{}{"a.b.c", "a.b", "..d", "x.y.z"},
		},
		{
			name: "exact prefix unchanged",
			data: []map[string]interface{}{
				{"pkg": "a.b"},
				{"pkg": "a.b.c"},
				{"pkg": "a.b.d"},
			},
			want: []interface{}{"a.b", "..c", "..d"},
		},
		{
			name: "single entry",
			data: []map[string]interface{}{
				{"pkg": "only.one"},
			},
			want: []interface{}{"only.one"},
		},
		{
			name: "non-string values ignored",
			data: []map[string]interface{}{
				{"pkg": 123},
				{"pkg": "a.b.c"},
				{"pkg": "a.b.d"},
			},
			want: []interface{}{123, "a.b.c", "a.b.d"},
		},
		{
			name: "missing attribute ignored",
			data: []map[string]interface{}{
				{"pkg": "a.b.c"},
				{"name": "no-pkg"},
				{"pkg": "a.b.d"},
			},
			want: []interface{}{"a.b.c", nil, "a.b.d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chopPrefix(tt.data, "pkg")
			got := make([]interface{}, 0, len(tt.data))
			for _, row := range tt.data {
				got = append(got, row["pkg"])
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultAttrs(t *testing.T) {
	tests := []struct {
		name string
		json string
		want []string
	}{
		{
			name: "scalars of first record",
			json: `[{"name": "terraform", "id": 1, "license": {"key": "mit"}, "topics": []}, {"other": true}]`,
			want: []string{"id", "name"},
		},
		{
			name: "single object",
			json: `{"login": "octocat", "id": 1}`,
			want: []string{"id", "login"},
		},
		{
			name: "awkward keys skipped",
			json: `[{"a.b": 1, "c:d": 2, "ok": 3}]`,
			want: []string{"ok"},
		},
		{
			name: "not records",
			json: `["a", "b"]`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, defaultAttrs(gjson.Parse(tt.json)))
		})
	}
}
