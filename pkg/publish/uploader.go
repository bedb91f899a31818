package publish

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/df07/go-rtiow/pkg/core"
)

// Uploader puts encoded renders into an S3 bucket
type Uploader struct {
	client s3iface.S3API
	config Config
	logger core.Logger
}

// NewUploader opens an S3 session for cfg. Without static keys the SDK's
// default credential chain is used.
func NewUploader(cfg Config, logger core.Logger) (*Uploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.Endpoint != ""),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return NewUploaderWithClient(s3.New(sess), cfg, logger), nil
}

// NewUploaderWithClient uses an existing S3 client
func NewUploaderWithClient(client s3iface.S3API, cfg Config, logger core.Logger) *Uploader {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Uploader{client: client, config: cfg, logger: logger}
}

// Upload stores data under the prefixed key and returns the full key
func (u *Uploader) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.config.Timeout)
	defer cancel()

	key := u.config.Key(name)
	size := int64(len(data))
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	u.logger.Printf("Uploaded %s to s3://%s (%d bytes)\n", key, u.config.Bucket, size)
	return key, nil
}

type nopLogger struct{}

func (nopLogger) Printf(format string, args ...interface{}) {}
