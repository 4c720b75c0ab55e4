// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"

	"github.com/staranto/nmctl/internal/attrs"
	"github.com/staranto/nmctl/internal/config"
	"github.com/staranto/nmctl/internal/filters"
	"github.com/staranto/nmctl/internal/nestedmap"
)

// Formats accepted by --output.
var Formats = []string{"text", "json", "yaml", "raw"}

// Options carries the presentation flags shared by every command.
type Options struct {
	Format string
	Filter string
	Sort   string
	Titles bool
	Color  bool
	// PostProcess, when set, may rewrite the dataset after sorting.
	PostProcess func(dataset []map[string]interface{})
}

// SliceDiceSpit filters, transforms, sorts and renders the records in dataset
// (a JSON array) according to attrs and opts.
func SliceDiceSpit(dataset gjson.Result, attrs attrs.AttrList, opts Options, w io.Writer) error {
	if opts.Format == "raw" {
		_, err := io.WriteString(w, dataset.Raw+"\n")
		return err
	}

	// A lone object is a dataset of one.
	if dataset.IsObject() {
		dataset = gjson.Parse("[" + dataset.Raw + "]")
	}
	if !dataset.IsArray() {
		return fmt.Errorf("%w: got %s", ErrNotRecords, dataset.Type)
	}

	// Filter first so the following passes work on a smaller dataset.
	filtered := filters.FilterDataset(dataset, attrs, opts.Filter)
	log.Debugf("%d of %d records after filtering", len(filtered), len(dataset.Array()))

	for _, row := range filtered {
		for _, attr := range attrs {
			if attr.TransformSpec != "" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}

	SortDataset(filtered, opts.Sort)

	if opts.PostProcess != nil {
		opts.PostProcess(filtered)
	}

	visible := attrs.Visible()
	switch opts.Format {
	case "json", "yaml":
		rows := make([]map[string]interface{}, 0, len(filtered))
		for _, row := range filtered {
			out := make(map[string]interface{}, len(visible))
			for _, attr := range visible {
				out[attr.OutputKey] = row[attr.OutputKey]
			}
			rows = append(rows, out)
		}
		return EmitValue(rows, opts.Format, w)
	default:
		TableWriter(filtered, visible, opts, w)
		return nil
	}
}

// EmitValue writes a single decoded value in format.
func EmitValue(v any, format string, w io.Writer) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(nestedmap.StringKeys(v), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "raw":
		b, err := json.Marshal(nestedmap.StringKeys(v))
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		if isScalar(v) {
			_, err := fmt.Fprintln(w, InterfaceToString(v, "null"))
			return err
		}
		return EmitValue(v, "yaml", w)
	}
}

// TableWriter renders the result set in a tabular form honoring color and
// titles options.
func TableWriter(resultSet []map[string]interface{}, attrs attrs.AttrList, opts Options, w io.Writer) {
	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	pad, _ := config.GetInt("padding", 1)

	rows := make([][]string, 0, len(resultSet))
	for _, result := range resultSet {
		row := make([]string, 0, len(attrs))
		for _, attr := range attrs {
			row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
		}
		rows = append(rows, row)
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Rows(rows...)

	if opts.Titles {
		headers := make([]string, 0, len(attrs))
		for _, attr := range attrs {
			headers = append(headers, attr.OutputKey)
		}
		t = t.Headers(headers...).BorderHeader(false)
	}

	fmt.Fprintln(w, t)
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, int, int64, float64:
		return true
	}
	return false
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		// Decoded JSON numbers are all float64; whole ones print as integers.
		if value == math.Trunc(value) && math.Abs(value) < 1e15 {
			return strconv.FormatFloat(value, 'f', 0, 64)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}
