package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type S3Uploader struct { // implements Uploader
	client *s3.Client

	bucket        string
	publicBaseURL string
}

func NewS3Uploader(accessKeyID, accessKeySecret, baseEndpoint, bucket, publicBaseURL string) *S3Uploader {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		storageLogger.Fatal().Err(err).Msg("Error initializing S3 client")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(baseEndpoint)
	})

	return &S3Uploader{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// Store uploads the image under a fresh uuid key and returns its public
// URL. The caller has already run ValidateImage; Store itself performs a
// single attempt with no retry.
func (u *S3Uploader) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	key := "uploads/" + uuid.New().String() + extensionFor(contentType)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading image: %w", err)
	}

	storageLogger.Info().Str("key", key).Int("size", len(data)).Msg("Image uploaded")

	return u.publicBaseURL + "/" + key, nil
}

func extensionFor(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
