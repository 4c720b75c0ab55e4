// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/staranto/nmctl/internal/nestedmap"
)

// wrapKey holds values that are not objects so they can be compared as one.
const wrapKey = "value"

// Result is the outcome of comparing two documents.
type Result struct {
	left map[string]interface{}
	diff gojsondiff.Diff
}

// Diff compares a and b. Both are first normalized to JSON shapes so values
// decoded from YAML compare equal to the same values decoded from JSON.
// Anything that is not an object on both sides is compared under a single
// "value" key.
func Diff(a, b any) (Result, error) {
	left, err := normalize(a)
	if err != nil {
		return Result{}, err
	}
	right, err := normalize(b)
	if err != nil {
		return Result{}, err
	}

	lm, lok := left.(map[string]interface{})
	rm, rok := right.(map[string]interface{})
	if !lok || !rok {
		lm = map[string]interface{}{wrapKey: left}
		rm = map[string]interface{}{wrapKey: right}
	}

	return Result{
		left: lm,
		diff: gojsondiff.New().CompareObjects(lm, rm),
	}, nil
}

// Modified reports whether the documents differ.
func (r Result) Modified() bool {
	return r.diff != nil && r.diff.Modified()
}

// Format renders the difference. With ascii the output is the side by side
// +/- listing; otherwise it is the jsondiffpatch delta.
func (r Result) Format(ascii bool, color bool) (string, error) {
	if ascii {
		f := formatter.NewAsciiFormatter(r.left, formatter.AsciiFormatterConfig{
			ShowArrayIndex: true,
			Coloring:       color,
		})
		return f.Format(r.diff)
	}
	return formatter.NewDeltaFormatter().Format(r.diff)
}

func normalize(v any) (any, error) {
	b, err := sonic.ConfigStd.Marshal(nestedmap.StringKeys(v))
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var out any
	if err := sonic.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return out, nil
}
