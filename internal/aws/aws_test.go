// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	bucket, key string
	body        string
	err         error
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	f.bucket, f.key = *in.Bucket, *in.Key
	if f.err != nil {
		return nil, f.err
	}
	return &s3v2.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		raw     string
		bucket  string
		key     string
		wantErr bool
	}{
		{raw: "s3://bucket/org.json", bucket: "bucket", key: "org.json"},
		{raw: "s3://bucket/a/b/c.yaml", bucket: "bucket", key: "a/b/c.yaml"},
		{raw: "s3://bucket", wantErr: true},
		{raw: "s3:///key", wantErr: true},
		{raw: "https://bucket/key", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			bucket, key, err := ParseS3URL(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidS3URL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestReadObject(t *testing.T) {
	f := &fakeGetter{body: `{"a":1}`}
	body, err := ReadObject(context.Background(), f, "s3://docs/org/example.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(body))
	assert.Equal(t, "docs", f.bucket)
	assert.Equal(t, "org/example.json", f.key)

	f = &fakeGetter{err: errors.New("access denied")}
	_, err = ReadObject(context.Background(), f, "s3://docs/x.json")
	assert.ErrorContains(t, err, "access denied")
}
