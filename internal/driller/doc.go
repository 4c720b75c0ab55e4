// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package driller resolves dotted attribute paths inside JSON records, with
// index syntax and single-element array collapsing.
package driller
