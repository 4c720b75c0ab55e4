// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package attrs

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
)

var lengthRe = regexp.MustCompile(`-?\d+`)

// Attr is one column of query output: where to find the value in each record,
// what to call it, and how to transform it.
type Attr struct {
	// Key is the dotted path to drill into each record.
	Key string `yaml:"key"`
	// Include is false for attrs that exist only for filtering and sorting.
	Include bool `yaml:"include"`
	// OutputKey names the value in output and is the column title for text.
	OutputKey string `yaml:"outputKey"`
	// TransformSpec is applied to string values before output.
	TransformSpec string `yaml:"transformSpec"`
}

// Transform applies the attr's TransformSpec to value. Only strings are
// transformed; anything else passes through untouched.
//
//	t/T  convert an RFC3339 timestamp to the zone in NMCTL_TZ or TZ
//	l/L  lower case, u/U upper case (the last one given wins)
//	N    truncate to N characters; -N keeps both ends around ".."
func (a *Attr) Transform(value interface{}) interface{} {
	result, ok := value.(string)
	if !ok {
		return value
	}

	if strings.ContainsAny(a.TransformSpec, "tT") {
		tz := os.Getenv("NMCTL_TZ")
		if tz == "" {
			tz = os.Getenv("TZ")
		}

		// Only convert when a zone has been named explicitly.
		if tz != "" {
			if loc, err := time.LoadLocation(tz); err == nil {
				if t, err := time.Parse(time.RFC3339, result); err == nil {
					result = t.In(loc).Format("2006-01-02T15:04:05MST")
				} else {
					log.Debugf("not a timestamp: %s", result)
				}
			}
		}
	}

	// A global case transform is prepended to the attr's own spec, so the last
	// one wins and the attr can override it: --attrs '*::U,name::l'.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")

	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	if match := lengthRe.FindAllString(a.TransformSpec, -1); len(match) != 0 {
		// Take the last (overriding) match.
		l, _ := strconv.Atoi(match[len(match)-1])
		abs := int(math.Abs(float64(l)))
		if abs > 0 && len(result) > abs {
			if l < 0 {
				keep := abs/2 - 1
				if keep < 1 {
					keep = 1
				}
				result = result[:keep] + ".." + result[len(result)-keep:]
			} else {
				result = result[:l]
			}
		}
	}

	return result
}

type AttrList []Attr

// String renders the list in the --attrs flag format.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Set parses a comma-separated --attrs value and merges it into the list.
//
// Each spec is key[:outputKey[:transform]]. A leading ! keeps the attr for
// filtering and sorting but hides it from output. A leading . is accepted and
// ignored. The output key defaults to the last segment of the key.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

specloop:
	for _, spec := range strings.Split(value, ",") {
		if strings.TrimSpace(spec) == "" {
			continue
		}

		attr := Attr{
			Include: true,
		}

		fields := strings.Split(spec, ":")
		if len(fields) > transformIdx+1 {
			return fmt.Errorf("invalid attr spec %q: too many fields", spec)
		}

		attr.Key = strings.TrimSpace(fields[keyIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		attr.Key = strings.TrimPrefix(attr.Key, ".")

		if attr.Key == "*" {
			attr.Include = false
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid attr spec %q: empty key", spec)
		}

		if len(fields) == 1 || strings.TrimSpace(fields[outputIdx]) == "" {
			segments := strings.Split(attr.Key, ".")
			attr.OutputKey = segments[len(segments)-1]
		} else {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		// Re-specifying an existing attr (a default, or a duplicate) updates it
		// in place rather than adding a second column.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec prepends the transform of the "*" attr, if any, to
// every attr in the list.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""
	for i := range *a {
		if (*a)[i].Key == "*" {
			spec = (*a)[i].TransformSpec
			break
		}
	}

	if spec == "" {
		return nil
	}

	for i := range *a {
		if (*a)[i].Key == "*" {
			continue
		}
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}

	return nil
}

// Visible returns the attrs that appear in output, in order.
func (a AttrList) Visible() AttrList {
	out := make(AttrList, 0, len(a))
	for _, attr := range a {
		if attr.Include {
			out = append(out, attr)
		}
	}
	return out
}

func (a *AttrList) Type() string {
	return "list"
}
