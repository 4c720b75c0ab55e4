// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/nmctl/internal/attrs"
	"github.com/staranto/nmctl/internal/driller"
)

// filterRegex splits a filter expression into key, operator and target.
// Operators are one of = ^ ~ < > @ or /, optionally prefixed with '!'.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter represents a single parsed --filter expression including the key,
// operand, optional negation and target value.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Invalid specs are logged and skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Default delimiter is ",", allow an override.
	delim := ","
	if d, ok := os.LookupEnv("NMCTL_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil || parts[1] == "" {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		negate := strings.HasPrefix(parts[2], "!")
		filters = append(filters, Filter{
			Key:     parts[1],
			Negate:  negate,
			Operand: strings.TrimPrefix(parts[2], "!"),
			Target:  parts[3],
		})
	}

	return filters
}

// FilterDataset returns the records of candidates that pass every filter,
// projected onto attrs and keyed by each attr's OutputKey. Values are not
// transformed here.
func FilterDataset(candidates gjson.Result, attrs attrs.AttrList, spec string) []map[string]interface{} {
	//nolint:prealloc
	var filteredResults []map[string]interface{}

	filters := BuildFilters(spec)

	for _, candidate := range candidates.Array() {
		if !applyFilters(candidate, attrs, filters) {
			continue
		}

		result := make(map[string]interface{})
		for _, attr := range attrs {
			if attr.Key == "*" {
				continue
			}
			result[attr.OutputKey] = driller.Driller(candidate.Raw, attr.Key).Value()
		}
		filteredResults = append(filteredResults, result)
	}

	return filteredResults
}

// resolveKey maps a filter key to a record path. Filters may name an attr by
// its output key or address any path in the record directly.
func resolveKey(key string, attrs attrs.AttrList) string {
	for _, attr := range attrs {
		if attr.OutputKey == key {
			return attr.Key
		}
	}
	return key
}

// applyFilters returns true if the candidate row matches all of the provided
// filters.
func applyFilters(candidate gjson.Result, attrs attrs.AttrList, filters []Filter) bool {
	for _, filter := range filters {
		key := resolveKey(filter.Key, attrs)

		// A missing or null value never matches, negated or not.
		value := driller.Driller(candidate.Raw, key).Value()
		if value == nil {
			return false
		}

		result := true
		if v, ok := value.(string); ok {
			result = checkStringOperand(v, filter)
		} else if v, ok := value.(bool); ok {
			result = checkStringOperand(strconv.FormatBool(v), filter)
		} else if num, ok := toFloat64(value); ok {
			result = checkNumericOperand(num, filter)
		} else if filter.Operand == "@" {
			result = checkContainsOperand(value, filter)
		} else {
			log.Errorf("unsupported operand %q for %s", filter.Operand, key)
			result = false
		}

		if !result {
			return false
		}
	}

	return true
}

// checkContainsOperand evaluates a membership style filter (operand '@')
// against slice or map values.
func checkContainsOperand(value interface{}, filter Filter) bool {
	switch val := value.(type) {
	case []any:
		for _, item := range val {
			if fmt.Sprint(item) == filter.Target {
				return !filter.Negate
			}
		}
		return filter.Negate
	case map[string]any:
		_, found := val[filter.Target]
		return found == !filter.Negate
	default:
		log.Error(fmt.Sprintf("unsupported type for contains filtering: %T", value))
		return false
	}
}

// checkNumericOperand compares numerically. Supported operands: =, >, <.
func checkNumericOperand(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Target), 64)
	if err != nil {
		log.Error("invalid numeric target: " + filter.Target)
		return false
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) == !filter.Negate
	case ">":
		return (value > tgt) == !filter.Negate
	case "<":
		return (value < tgt) == !filter.Negate
	default:
		log.Error("unsupported numeric operand: " + filter.Operand)
		return false
	}
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Target == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Target) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Target) == !filter.Negate
	case ">":
		return value > filter.Target == !filter.Negate
	case "<":
		return value < filter.Target == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Target) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Target, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Target)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}

// toFloat64 normalizes numeric types to float64.
func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
