// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/nmctl/internal/attrs"
	"github.com/staranto/nmctl/internal/output"
)

// GlobalFlagsValidator checks the flags every document command shares before
// any fetching happens.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if spec := c.String("attrs"); spec != "" {
		var al attrs.AttrList
		if err := al.Set(spec); err != nil {
			return fmt.Errorf("--attrs: %w", err)
		}
	}
	for _, name := range []string{"attrs", "filter", "sort"} {
		if err := JammedFlagValidator(c.String(name)); err != nil {
			return fmt.Errorf("--%s %w", name, err)
		}
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(output.Formats, s) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}
