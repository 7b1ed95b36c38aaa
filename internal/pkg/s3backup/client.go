package s3backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gofiber/fiber/v2/log"
)

var ErrDisabled = errors.New("S3 backup is disabled")

// Client mirrors uploaded media into a bucket
type Client struct {
	s3Client *s3.Client
	config   *Config
}

// UploadResult contains the result of a successful upload
type UploadResult struct {
	BucketName  string
	ObjectKey   string
	Size        int64
	ContentType string
}

// Setup loads the config and connects. It returns nil when backups are off
// or misconfigured so callers can treat the backup as optional.
func Setup(ctx context.Context) *Client {
	cfg, err := LoadConfig()
	if err != nil {
		log.Errorf("[S3Backup] %v", err)
		return nil
	}
	if !cfg.Enabled {
		return nil
	}
	client, err := NewClient(ctx, cfg)
	if err != nil {
		log.Errorf("[S3Backup] %v", err)
		return nil
	}
	return client
}

// NewClient creates a new S3 backup client
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// MinIO and B2 only speak path-style
			o.UsePathStyle = true
		}
	})

	client := &Client{s3Client: s3Client, config: cfg}
	if err := client.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to S3: %w", err)
	}

	log.Infof("[S3Backup] Successfully initialized S3 client for bucket: %s", cfg.BucketName)
	return client, nil
}

func (c *Client) ensureBucket(ctx context.Context) error {
	bucket := c.config.BucketName
	_, err := c.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return nil
	}
	if GetAppEnv() == "prod" {
		return fmt.Errorf("bucket %s not accessible: %w", bucket, err)
	}

	log.Warnf("[S3Backup] Bucket %s not found, attempting to create it", bucket)
	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if c.config.EndpointURL == "" && c.config.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(c.config.Region),
		}
	}
	if _, err := c.s3Client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return nil
}

// Backup uploads the file at localPath under the key derived from relPath
func (c *Client) Backup(ctx context.Context, localPath, relPath string) (*UploadResult, error) {
	return c.UploadFile(ctx, localPath, c.config.ObjectKey(relPath))
}

// UploadFile uploads a file to S3
func (c *Client) UploadFile(ctx context.Context, localPath, objectKey string) (*UploadResult, error) {
	bucket := c.config.BucketName

	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", localPath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info for %s: %w", localPath, err)
	}

	contentType := getContentType(filepath.Ext(localPath))
	_, err = c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(objectKey),
		Body:          file,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(info.Size()),
		Metadata: map[string]string{
			"upload-source": "househub-backup",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	log.Infof("[S3Backup] Uploaded %s -> s3://%s/%s (%d bytes)", localPath, bucket, objectKey, info.Size())
	return &UploadResult{
		BucketName:  bucket,
		ObjectKey:   objectKey,
		Size:        info.Size(),
		ContentType: contentType,
	}, nil
}

// DeleteFile deletes a file from S3
func (c *Client) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	return nil
}

// ObjectExists checks if an object exists in S3
func (c *Client) ObjectExists(ctx context.Context, objectKey string) (bool, error) {
	_, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

func getContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
