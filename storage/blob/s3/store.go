// Package s3 implements core.BlobStore on an S3-compatible backend (AWS S3
// or MinIO). Single bucket; blob names map to object keys directly.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"

	"github.com/assignkun/assignkun/core"
)

type Store struct {
	client *s3.Client
	bucket string
}

var _ core.BlobStore = (*Store)(nil) // interface compliance check

// NewStore connects to the bucket named by conf.Blob.Container. Credentials
// come from the default AWS chain; conf.Blob.Endpoint enables MinIO-style
// custom endpoints.
func NewStore(ctx context.Context, conf *core.Config) (*Store, error) {
	if conf.Blob.Container == "" {
		return nil, errors.New("blob container required")
	}
	region := conf.Blob.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "loading AWS config")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if conf.Blob.PathStyle {
			o.UsePathStyle = true
		}
		if conf.Blob.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Blob.Endpoint)
		}
	})
	return &Store{client: client, bucket: conf.Blob.Container}, nil
}

func (s *Store) Put(ctx context.Context, key string, content []byte, opts core.BlobPutOptions) (core.BlobObject, error) {
	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   bytes.NewReader(content),
	}
	if opts.ContentType != "" {
		input.ContentType = &opts.ContentType
	}
	if len(opts.Metadata) > 0 {
		input.Metadata = opts.Metadata
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return core.BlobObject{}, errors.Wrapf(err, "putting blob %s", key)
	}
	return s.Head(ctx, key)
}

func (s *Store) Get(ctx context.Context, key string) (core.BlobObject, []byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return core.BlobObject{}, nil, errors.Wrap(core.ErrBlobNotFound, key)
		}
		return core.BlobObject{}, nil, errors.Wrapf(err, "getting blob %s", key)
	}
	defer func() { _ = out.Body.Close() }()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return core.BlobObject{}, nil, errors.Wrapf(err, "reading blob %s", key)
	}
	return s.object(key, out.ContentLength, out.ContentType, out.Metadata, out.LastModified), content, nil
}

func (s *Store) Head(ctx context.Context, key string) (core.BlobObject, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return core.BlobObject{}, errors.Wrap(core.ErrBlobNotFound, key)
		}
		return core.BlobObject{}, errors.Wrapf(err, "heading blob %s", key)
	}
	return s.object(key, out.ContentLength, out.ContentType, out.Metadata, out.LastModified), nil
}

// SetMetadata merges updates into the object's metadata. S3 metadata is
// immutable in place, so this copies the object onto itself with the merged
// map and MetadataDirective REPLACE.
func (s *Store) SetMetadata(ctx context.Context, key string, updates map[string]string) error {
	obj, err := s.Head(ctx, key)
	if err != nil {
		return err
	}

	merged := make(map[string]string, len(obj.Metadata)+len(updates))
	for k, v := range obj.Metadata {
		merged[k] = v
	}
	for k, v := range updates {
		merged[k] = v
	}

	source := fmt.Sprintf("%s/%s", s.bucket, key)
	input := &s3.CopyObjectInput{
		Bucket:            &s.bucket,
		Key:               &key,
		CopySource:        &source,
		Metadata:          merged,
		MetadataDirective: types.MetadataDirectiveReplace,
	}
	if obj.ContentType != "" {
		input.ContentType = &obj.ContentType
	}
	if _, err = s.client.CopyObject(ctx, input); err != nil {
		return errors.Wrapf(err, "updating metadata of blob %s", key)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key}); err != nil {
		return errors.Wrapf(err, "deleting blob %s", key)
	}
	return nil
}

func (s *Store) object(key string, size *int64, contentType *string, md map[string]string, lastModified *time.Time) core.BlobObject {
	obj := core.BlobObject{
		Name:      key,
		Container: s.bucket,
		URL:       fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, strings.TrimPrefix(key, "/")),
		Metadata:  md,
	}
	if size != nil {
		obj.Size = *size
	}
	if contentType != nil {
		obj.ContentType = *contentType
	}
	if lastModified != nil {
		obj.LastModified = *lastModified
	}
	return obj
}
