package storage

import (
	"context"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObject struct {
	data     []byte
	modified time.Time
}

// fakeBucket pages its listing two keys at a time.
type fakeBucket struct {
	objects map[string]fakeObject
	clock   time.Time
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{
		objects: map[string]fakeObject{},
		clock:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (b *fakeBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	b.clock = b.clock.Add(time.Hour)
	b.objects[aws.ToString(in.Key)] = fakeObject{data: data, modified: b.clock}
	return &s3.PutObjectOutput{}, nil
}

func (b *fakeBucket) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(b.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (b *fakeBucket) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var keys []string
	for key := range b.objects {
		if strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		for i, key := range keys {
			if key == *in.ContinuationToken {
				start = i
			}
		}
	}
	end := start + 2
	if end > len(keys) {
		end = len(keys)
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, key := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(key),
			LastModified: aws.Time(b.objects[key].modified),
		})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(keys[end])
	}
	return out, nil
}

func TestS3Storage_UploadAndPrune(t *testing.T) {
	bucket := newFakeBucket()
	bucket.objects["other/keep.txt"] = fakeObject{modified: bucket.clock}
	archive := NewS3StorageWithClient(bucket, "backups", "backups")

	var keys []string
	for _, name := range []string{
		"Client_Data_Backup_2025-01-01_0000.xlsx",
		"Client_Data_Backup_2025-01-01_1200.xlsx",
		"Client_Data_Backup_2025-01-02_0000.xlsx",
		"Client_Data_Backup_2025-01-02_1200.xlsx",
		"Client_Data_Backup_2025-01-03_0000.xlsx",
	} {
		key, err := archive.Upload(context.Background(), name, "application/octet-stream", []byte(name))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(key, "backups/Client_Data_Backup_"), key)
		assert.True(t, strings.HasSuffix(key, ".xlsx"), key)
		keys = append(keys, key)
	}

	removed, err := archive.Prune(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	assert.Len(t, bucket.objects, 3)
	assert.Contains(t, bucket.objects, keys[3])
	assert.Contains(t, bucket.objects, keys[4])
	assert.Contains(t, bucket.objects, "other/keep.txt")

	removed, err = archive.Prune(context.Background(), 5)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
