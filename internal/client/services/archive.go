package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ArchiveConfig points the report archive at an S3 compatible bucket.
type ArchiveConfig struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	LinkTTL      time.Duration
}

// ReportArchive keeps a copy of every exported workbook in object storage
// and hands out presigned download links.
type ReportArchive struct {
	cfg ArchiveConfig
}

// NewReportArchive returns nil when no bucket is configured.
func NewReportArchive(cfg ArchiveConfig) *ReportArchive {
	if cfg.Bucket == "" {
		return nil
	}
	if cfg.LinkTTL <= 0 {
		cfg.LinkTTL = 24 * time.Hour
	}
	return &ReportArchive{cfg: cfg}
}

func reportStorageKey(name string) string {
	d := time.Now()
	return fmt.Sprintf("reports/%d/%02d/%02d/%v-%s", d.Year(), d.Month(), d.Day(), uuid.New(), name)
}

func (a *ReportArchive) client(ctx context.Context) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(a.cfg.Region)}
	if a.cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(a.cfg.AccessKey, a.cfg.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if a.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(a.cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Store uploads data under a fresh key and returns the key and a presigned
// GET link.
func (a *ReportArchive) Store(ctx context.Context, name string, data []byte) (string, string, error) {
	if a == nil {
		return "", "", errors.New("report archive is not configured")
	}

	c, err := a.client(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := a.cfg.Bucket
	key := reportStorageKey(name)
	contentType := xlsxContentType

	if err := putObject(c, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	}); err != nil {
		return "", "", fmt.Errorf("upload %s: %w", key, err)
	}

	req, err := presignGetObject(newS3PresignClient(c), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(a.cfg.LinkTTL))
	if err != nil {
		return key, "", fmt.Errorf("presign %s: %w", key, err)
	}
	return key, req.URL, nil
}
