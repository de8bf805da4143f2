package persist

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3API is the part of the S3 client used by S3Store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps each value in an object of a bucket, below an optional prefix.
type S3Store struct {
	api    S3API
	bucket string
	prefix string
}

func NewS3Store(api S3API, bucket, prefix string) *S3Store {
	return &S3Store{
		api:    api,
		bucket: bucket,
		prefix: prefix,
	}
}

func (s *S3Store) Load(ctx context.Context, key string) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.object(key)),
	})
	if isNoSuchKey(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func (s *S3Store) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.object(key)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})

	return err
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.object(key)),
	})

	return err
}

func (s *S3Store) Close() error {
	return nil
}

func (s *S3Store) object(key string) string {
	if s.prefix == "" {
		return hashKey(key)
	}

	return path.Join(s.prefix, hashKey(key))
}

func isNoSuchKey(err error) bool {
	if err == nil {
		return false
	}

	var noSuchKey *types.NoSuchKey

	if errors.As(err, &noSuchKey) {
		return true
	}

	var apiErr smithy.APIError

	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}

	return false
}
