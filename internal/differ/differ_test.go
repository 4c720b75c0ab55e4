// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		a, b     any
		modified bool
		contains []string
	}{
		{
			name:     "identical",
			a:        map[string]any{"login": "google", "public_repos": 2500.0},
			b:        map[string]any{"login": "google", "public_repos": 2500.0},
			modified: false,
		},
		{
			name:     "changed field",
			a:        map[string]any{"login": "google", "public_repos": 2500.0},
			b:        map[string]any{"login": "google", "public_repos": 2501.0},
			modified: true,
			contains: []string{"2500", "2501"},
		},
		{
			name:     "yaml ints equal json floats",
			a:        map[any]any{"stars": 3},
			b:        map[string]any{"stars": 3.0},
			modified: false,
		},
		{
			name:     "scalars",
			a:        "apache-2.0",
			b:        "mit",
			modified: true,
			contains: []string{"apache-2.0", "mit"},
		},
		{
			name:     "arrays",
			a:        []any{"a", "b"},
			b:        []any{"a", "b", "c"},
			modified: true,
			contains: []string{"\"c\""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Diff(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.modified, r.Modified())

			out, err := r.Format(true, false)
			require.NoError(t, err)
			for _, c := range tt.contains {
				assert.Contains(t, out, c)
			}
		})
	}
}

func TestResult_FormatDelta(t *testing.T) {
	r, err := Diff(map[string]any{"a": 1.0}, map[string]any{"a": 2.0})
	require.NoError(t, err)

	out, err := r.Format(false, false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":[1,2]}`, out)
}

func TestDiff_Unencodable(t *testing.T) {
	_, err := Diff(map[string]any{"f": func() {}}, nil)
	assert.Error(t, err)
}
