package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/ikkim/clientbook-backend/pkg/logger"
)

// ObjectAPI is the subset of the S3 client the archive uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Storage keeps copies of backup workbooks under one bucket prefix.
type S3Storage struct {
	client ObjectAPI
	bucket string
	prefix string
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey, prefix string) *S3Storage {
	var cfg aws.Config
	var err error

	// If credentials are provided, use them. Otherwise, use default credential chain
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		cfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(region),
		)
		if err != nil {
			cfg = aws.Config{
				Region: region,
			}
		}
	}

	return NewS3StorageWithClient(s3.NewFromConfig(cfg), bucket, prefix)
}

func NewS3StorageWithClient(client ObjectAPI, bucket, prefix string) *S3Storage {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Storage{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Upload stores data under the prefix and returns the object key. A short
// random suffix keeps two backups taken in the same minute apart.
func (s *S3Storage) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	ext := path.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	key := fmt.Sprintf("%s%s_%s%s", s.prefix, base, uuid.New().String()[:8], ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	logger.Info("Backup uploaded to S3", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
		"bytes":  len(data),
	})
	return key, nil
}

type object struct {
	key      string
	modified time.Time
}

// Prune deletes all but the keep most recently modified objects under the
// prefix and returns how many were removed.
func (s *S3Storage) Prune(ctx context.Context, keep int) (int, error) {
	var objects []object
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to list %s: %w", s.prefix, err)
		}
		for _, obj := range out.Contents {
			objects = append(objects, object{key: aws.ToString(obj.Key), modified: aws.ToTime(obj.LastModified)})
		}
		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}

	if keep < 0 {
		keep = 0
	}
	if len(objects) <= keep {
		return 0, nil
	}

	sort.Slice(objects, func(i, j int) bool {
		if objects[i].modified.Equal(objects[j].modified) {
			return objects[i].key > objects[j].key
		}
		return objects[i].modified.After(objects[j].modified)
	})

	removed := 0
	for _, obj := range objects[keep:] {
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(obj.key),
		}); err != nil {
			return removed, fmt.Errorf("failed to delete %s: %w", obj.key, err)
		}
		removed++
	}

	logger.Info("Old S3 backups pruned", map[string]interface{}{
		"bucket":  s.bucket,
		"removed": removed,
		"kept":    keep,
	})
	return removed, nil
}
