// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrInvalidS3URL = errors.New("invalid s3 url")

// options holds optional overrides for AWS config loading.
type options struct {
	profile string
	region  string
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the shell environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// WithProfile sets the shared config profile. Defaults to AWS_PROFILE/env chain.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override. Defaults to env/profile/metadata chain.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// LoadAWSConfig loads AWS SDK v2 config, inheriting the shell's AWS setup
// unless overridden.
func LoadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}

	return config.LoadDefaultConfig(ctx, loadOpts...)
}

// ObjectGetter is the slice of the S3 API needed to read documents. The SDK
// client satisfies it; tests supply fakes.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// NewS3 constructs a v2 S3 client, loading config from the environment.
func NewS3(ctx context.Context, opts ...Option) (*s3v2.Client, error) {
	cfg, err := LoadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return s3v2.NewFromConfig(cfg), nil
}

// ParseS3URL splits s3://bucket/key into its bucket and key.
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %w", ErrInvalidS3URL, raw, err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidS3URL, raw)
	}
	return bucket, key, nil
}

// ReadObject downloads the object named by an s3:// URL.
func ReadObject(ctx context.Context, client ObjectGetter, raw string) ([]byte, error) {
	bucket, key, err := ParseS3URL(raw)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", bucket, key, err)
	}
	return body, nil
}
