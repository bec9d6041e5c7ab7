// Package storage publishes generated images to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"go.uber.org/zap"
	"heroimage/config"
	"heroimage/shared/log"
	"path"
)

const cacheControl = "max-age=604800,immutable"

type S3Publisher struct {
	s3     s3iface.S3API
	bucket string
	prefix string
	logger *zap.Logger
}

func NewS3Publisher(cfg config.S3, logger *zap.Logger) (*S3Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	awsSession, err := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Endpoint:         aws.String(cfg.Endpoint),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}

	return newS3Publisher(s3.New(awsSession), cfg.Bucket, cfg.Prefix, logger), nil
}

func newS3Publisher(client s3iface.S3API, bucket, prefix string, logger *zap.Logger) *S3Publisher {
	return &S3Publisher{s3: client, bucket: bucket, prefix: prefix, logger: logger}
}

// Publish uploads body under prefix/key and returns its s3:// location.
func (p *S3Publisher) Publish(ctx context.Context, key, contentType string, body []byte) (string, error) {
	logger := log.LoggerWithTrace(ctx, p.logger)
	objectKey := path.Join(p.prefix, key)

	_, err := p.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(objectKey),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheControl),
	})
	if err != nil {
		logger.Error("Error uploading image", zap.String("key", objectKey), zap.Error(err))
		return "", fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}

	location := fmt.Sprintf("s3://%s/%s", p.bucket, objectKey)
	logger.Info("Image uploaded", zap.String("location", location))
	return location, nil
}
