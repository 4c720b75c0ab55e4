// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package fetch retrieves JSON (and YAML) documents from HTTP endpoints, S3
// and the local filesystem behind a single injectable interface.
package fetch
