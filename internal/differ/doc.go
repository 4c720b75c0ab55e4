// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package differ compares two decoded documents and renders the difference.
package differ
