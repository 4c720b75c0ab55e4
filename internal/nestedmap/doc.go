// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package nestedmap walks decoded JSON and YAML documents one key at a time
// and reports the first key that could not be resolved.
package nestedmap
