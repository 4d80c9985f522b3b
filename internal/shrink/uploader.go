package shrink

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/acm19/imageshrink/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Uploader defines the interface for copying shrunken files to remote storage
type Uploader interface {
	// Upload copies each file to bucket under prefix, keyed by base name.
	// Objects that already exist with identical content are skipped.
	Upload(ctx context.Context, files []string, bucket, prefix string) error
}

// s3API is the subset of the S3 client used by the uploader
type s3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Uploader implements the Uploader interface
type s3Uploader struct {
	client s3API
}

// NewS3Uploader creates an Uploader using the default AWS credential chain
func NewS3Uploader(ctx context.Context) (Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &s3Uploader{client: s3.NewFromConfig(cfg)}, nil
}

func (u *s3Uploader) Upload(ctx context.Context, files []string, bucket, prefix string) error {
	if len(files) == 0 {
		logger.Info("No files to upload")
		return nil
	}

	logger.Info("Uploading shrunken files", "count", len(files), "bucket", bucket, "prefix", prefix)
	failed := 0
	for _, file := range files {
		key := objectKey(prefix, file)
		if err := u.uploadFile(ctx, file, bucket, key); err != nil {
			logger.Error("Failed to upload file", "file", file, "key", key, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("upload failed for %d of %d files", failed, len(files))
	}
	logger.Info("Upload completed", "files_uploaded", len(files))
	return nil
}

func (u *s3Uploader) uploadFile(ctx context.Context, file, bucket, key string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	sum := md5.Sum(data)
	localHash := hex.EncodeToString(sum[:])

	head, err := u.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		remoteHash := strings.Trim(aws.ToString(head.ETag), `"`)
		if remoteHash == localHash {
			logger.Info("Object already exists with matching hash, skipping", "key", key, "hash", localHash)
			return nil
		}
		return fmt.Errorf("hash mismatch for '%s': object exists with different content (local: %s, remote: %s)", key, localHash, remoteHash)
	} else if !isNotFoundError(err) {
		return fmt.Errorf("failed to check object existence: %w", err)
	}

	logger.Debug("Uploading file", "file", file, "bucket", bucket, "key", key)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(http.DetectContentType(data)),
	})
	return err
}

func objectKey(prefix, file string) string {
	return path.Join(prefix, filepath.Base(file))
}

// isNotFoundError checks if the error is a NotFound error
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}

	return strings.Contains(err.Error(), "StatusCode: 404")
}
