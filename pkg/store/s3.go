// Copyright 2025 zhengshuai.xiao@outlook.com
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/zhengshuai-xiao/ufhash/internal"
	"github.com/zhengshuai-xiao/ufhash/internal/compression"
	"github.com/zhengshuai-xiao/ufhash/pkg/ufh"
)

// DefaultS3Region is used with a custom endpoint when no region is given.
const DefaultS3Region = "us-east-1"

// s3API is the part of the S3 client the store uses.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps every digest in a single object. Appending rewrites the
// whole object.
type S3Store struct {
	client     s3API
	bucket     string
	key        string
	compressor compression.Compressor
	opts       []ufh.Option
}

// NewS3Store builds a client from the default AWS configuration, the
// endpoint and region query parameters and the credentials in the URL, if any.
func NewS3Store(ctx context.Context, u *url.URL, compressor compression.Compressor, opts ...ufh.Option) (*S3Store, error) {
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 url %s needs a bucket and a key", internal.RemovePassword(u.String()))
	}

	query := u.Query()
	endpoint := query.Get("endpoint")
	region := query.Get("region")
	if region == "" && endpoint != "" {
		region = DefaultS3Region
	}

	var loadOpts []func(*config.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}
	if u.User != nil {
		secret, _ := u.User.Password()
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(u.User.Username(), secret, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Debugf("using s3 object %s/%s (endpoint %q, region %q)", bucket, key, endpoint, cfg.Region)
	return newS3StoreWithClient(client, bucket, key, compressor, opts...), nil
}

func newS3StoreWithClient(client s3API, bucket, key string, compressor compression.Compressor, opts ...ufh.Option) *S3Store {
	return &S3Store{client: client, bucket: bucket, key: key, compressor: compressor, opts: opts}
}

func (s *S3Store) Save(ctx context.Context, entries []ufh.NamedDigest, appending bool) error {
	var buf bytes.Buffer
	if appending {
		existing, err := s.read(ctx)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		buf.Write(existing)
		if len(existing) > 0 && existing[len(existing)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	if buf.Len() == 0 {
		fmt.Fprintf(&buf, "%s ufhash %s\n", CommentMark, internal.Version())
	}
	if err := EncodeLines(&buf, entries); err != nil {
		return err
	}

	payload, err := compression.Encode(s.compressor, buf.Bytes())
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
		ContentType:   aws.String("application/octet-stream"),
	})
	if err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", s.bucket, s.key, err)
	}

	logger.Debugf("saved %d entries to s3 %s/%s (%s)", len(entries), s.bucket, s.key, internal.FormatBytes(uint64(len(payload))))
	return nil
}

func (s *S3Store) Load(ctx context.Context) ([]ufh.NamedDigest, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := DecodeLines(bytes.NewReader(data), s.opts...)
	if err != nil {
		return nil, fmt.Errorf("s3 %s/%s: %w", s.bucket, s.key, err)
	}
	return entries, nil
}

func (s *S3Store) Close() error {
	return nil
}

func (s *S3Store) read(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("s3 %s/%s: %w", s.bucket, s.key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	data, err = compression.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("s3 %s/%s: %w", s.bucket, s.key, err)
	}
	return data, nil
}
