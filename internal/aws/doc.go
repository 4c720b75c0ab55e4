// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package aws loads AWS configuration and reads objects from S3 for s3://
// document sources.
package aws
