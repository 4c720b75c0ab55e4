// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/nmctl/internal/config"
	"github.com/staranto/nmctl/internal/document"
	"github.com/staranto/nmctl/internal/meta"
	"github.com/staranto/nmctl/internal/output"
)

// queryCommandAction is the action handler for the "query" subcommand. The
// value at PATH must be a list of records, which are filtered, projected,
// sorted and emitted per the common flags.
func queryCommandAction(ctx context.Context, cmd *cli.Command) error {
	source := cmd.Args().Get(0)
	if source == "" {
		return ErrMissingSource
	}

	config.Config.Namespace = "query"

	f, release := BuildFetcher(ctx, cmd)
	defer release()

	doc := document.New(source, f)
	v, err := valueAt(ctx, doc, cmd.Args().Get(1))
	if err != nil {
		return err
	}

	if DumpSchemaIfRequested(cmd, v) {
		return nil
	}

	raw, err := document.Encode(v)
	if err != nil {
		return err
	}
	records := gjson.ParseBytes(raw)

	defaults, _ := config.GetStringSlice("attrs")
	if len(defaults) == 0 && cmd.String("attrs") == "" {
		defaults = defaultAttrs(records)
	}
	attrs := BuildAttrs(cmd, defaults...)
	log.Debugf("attrs: %v", attrs)

	w := Stdout(cmd)
	opts := OutputOptions(cmd, w)
	if chop := cmd.String("chop"); chop != "" {
		opts.PostProcess = func(dataset []map[string]interface{}) {
			chopPrefix(dataset, chop)
		}
	}

	return output.SliceDiceSpit(records, attrs, opts, w)
}

// defaultAttrs names the scalar fields of the first record, sorted, so an
// unconfigured query still shows something sensible.
func defaultAttrs(records gjson.Result) []string {
	first := records
	if records.IsArray() {
		first = records.Get("0")
	}
	if !first.IsObject() {
		return nil
	}

	var keys []string
	first.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() && !value.IsArray() && !strings.ContainsAny(key.String(), ".:,") {
			keys = append(keys, key.String())
		}
		return true
	})
	sort.Strings(keys)
	return keys
}

// queryCommandBuilder constructs the cli.Command for "query", wiring metadata,
// flags, and action/validator handlers.
func queryCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "query",
		Usage:     "query a list of records in a document",
		UsageText: `nmctl query SOURCE [PATH] [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "chop",
				Usage: "chop the common dotted prefix from this attribute",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("query.chop", altsrc.StringSourcer(meta.Config.Source)),
				),
			},
		},
		Action: queryCommandAction,
		Meta:   meta,
	}).Build()
}

// chopPrefix finds common leading dot-delimited segments in the
// given attribute of dataset values. If at least 50% of entries share
// at least 2 common leading segments, those segments (and the trailing dot)
// are removed and replaced with "..".
func chopPrefix(dataset []map[string]interface{}, attribute string) {
	if len(dataset) == 0 {
		return
	}

	type segmentedValue struct {
		idx      int
		value    string
		segments []string
	}
	var segmented []segmentedValue
	maxSegments := 0
	for i, entry := range dataset {
		str, ok := entry[attribute].(string)
		if !ok {
			continue
		}
		segs := strings.Split(str, ".")
		segmented = append(segmented, segmentedValue{idx: i, value: str, segments: segs})
		if len(segs) > maxSegments {
			maxSegments = len(segs)
		}
	}

	if len(segmented) == 0 {
		return
	}

	threshold := (len(segmented) + 1) / 2

	// Longest run of leading segments shared by at least half the values.
	var commonSegments []string
	for segIdx := 0; segIdx < maxSegments; segIdx++ {
		segmentCounts := make(map[string]int)
		for _, sv := range segmented {
			if segIdx < len(sv.segments) {
				segmentCounts[sv.segments[segIdx]]++
			}
		}

		var bestSegment string
		var bestCount int
		for seg, count := range segmentCounts {
			if count > bestCount {
				bestSegment = seg
				bestCount = count
			}
		}

		if bestCount < threshold {
			break
		}
		commonSegments = append(commonSegments, bestSegment)
	}

	if len(commonSegments) < 2 {
		return
	}

	prefix := strings.Join(commonSegments, ".") + "."
	log.Debugf("chopping %q from %s", prefix, attribute)
	for _, sv := range segmented {
		if strings.HasPrefix(sv.value, prefix) {
			dataset[sv.idx][attribute] = fmt.Sprintf("..%s", sv.value[len(prefix):])
		}
	}
}
