package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/spboyer/aspire-beast-social3/internal/config"
	"github.com/spboyer/aspire-beast-social3/internal/ports"
)

const (
	keyPrefix          = "documents"
	defaultContentType = "application/octet-stream"
)

// ObjectPutter is the subset of the S3 client used by the archive.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive stores uploaded documents in an S3-compatible bucket (AWS, R2, MinIO).
type S3Archive struct {
	client ObjectPutter
	bucket string
	logger *slog.Logger
}

var _ ports.DocumentArchive = (*S3Archive)(nil)

// NewS3Client builds an S3 client with static credentials. A non-empty endpoint
// switches to path-style addressing for S3-compatible servers.
func NewS3Client(ctx context.Context, cfg config.ArchiveConfig) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewS3Archive wires the client and target bucket.
func NewS3Archive(client ObjectPutter, bucket string, log *slog.Logger) *S3Archive {
	return &S3Archive{client: client, bucket: bucket, logger: log}
}

// Put uploads data under a fresh key and returns that key.
func (a *S3Archive) Put(ctx context.Context, filename string, data []byte) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	key := path.Join(keyPrefix, id, safeName(filename))

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(filename, data)),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	if a.logger != nil {
		a.logger.Debug("document archived", "bucket", a.bucket, "key", key, "bytes", len(data))
	}
	return key, nil
}

func safeName(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}

func contentType(filename string, data []byte) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		return byExt
	}
	return defaultContentType
}
