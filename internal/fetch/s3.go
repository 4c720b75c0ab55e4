// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"

	"github.com/staranto/nmctl/internal/aws"
)

// S3Fetcher reads s3://bucket/key documents.
type S3Fetcher struct {
	Client aws.ObjectGetter
}

func (f *S3Fetcher) FetchJSON(ctx context.Context, url string) (any, error) {
	data, err := aws.ReadObject(ctx, f.Client, url)
	if err != nil {
		return nil, err
	}
	return DecodeByName(url, data)
}
