// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store keeps the cache blob as a single object in an S3 bucket. It is
// the backend to use when several machines should share one cache, e.g. a
// team pounding the same Insight schema. There is no locking; last writer
// wins, same as the file backend.
type S3Store struct {
	Ctx    context.Context
	Client *s3v2.Client
	Bucket string
	Key    string
}

// NewS3Store builds an S3Store using the ambient AWS configuration chain
// (AWS_PROFILE, shared config, env, IMDS). region overrides the chain when
// non-empty.
func NewS3Store(ctx context.Context, bucket, key, region string) (*S3Store, error) {
	var loadOpts []func(*config.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Store{
		Ctx:    ctx,
		Client: s3v2.NewFromConfig(cfg),
		Bucket: bucket,
		Key:    key,
	}, nil
}

// Load fetches the blob object. A missing object is an empty cache, not an
// error.
func (s *S3Store) Load() ([]byte, bool, error) {
	result, err := s.Client.GetObject(s.Ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(s.Key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get S3 cache object: %w", err)
	}
	defer result.Body.Close()

	blob, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read S3 cache object body: %w", err)
	}
	return blob, true, nil
}

// Save overwrites the blob object.
func (s *S3Store) Save(blob []byte) error {
	_, err := s.Client.PutObject(s.Ctx, &s3v2.PutObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(s.Key),
		Body:   bytes.NewReader(blob),
	})
	if err != nil {
		return fmt.Errorf("failed to write S3 cache object: %w", err)
	}
	return nil
}
