// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package document binds a source URL to a JSONFetcher and loads the payload
// at most once per Document, so every path lookup on it shares one fetch.
package document
