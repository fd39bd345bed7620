package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/donadmin/internal/common"
	sc "github.com/dmitrijs2005/donadmin/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}
)

// PresignExpiry bounds how long an upload URL stays usable.
const PresignExpiry = 15 * time.Minute

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadTarget is a presigned PUT URL and the public URL of the object it
// will create.
type UploadTarget struct {
	SignedURL string `json:"signedUrl"`
	URL       string `json:"url"`
	Key       string `json:"key"`
}

// PhotoService hands out upload URLs for ad photos and removes them.
type PhotoService struct {
	config *sc.Config
}

func NewPhotoService(cfg *sc.Config) *PhotoService {
	return &PhotoService{config: cfg}
}

// StorageKey is a random single-segment object key for contentType.
func StorageKey(now time.Time, contentType string) string {
	return fmt.Sprintf("ads-%s-%s%s", now.Format("20060102"), uuid.NewString(), extensions[contentType])
}

// PublicURL is where the object stored under key can be read.
func (s *PhotoService) PublicURL(key string) string {
	base := s.config.PhotoBaseURL
	if base == "" {
		base = strings.TrimRight(s.config.S3BaseEndpoint, "/") + "/" + s.config.S3Bucket
	}
	return strings.TrimRight(base, "/") + "/" + key
}

func (s *PhotoService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// SignedTarget presigns a PUT of an image with the given content type.
func (s *PhotoService) SignedTarget(ctx context.Context, contentType string) (*UploadTarget, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: content type %q is not an image", common.ErrorValidation, contentType)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := StorageKey(time.Now(), contentType)

	req, err := presignPutObject(newS3PresignClient(client), ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return nil, err
	}

	return &UploadTarget{SignedURL: req.URL, URL: s.PublicURL(key), Key: key}, nil
}

// Delete removes the object stored under key.
func (s *PhotoService) Delete(ctx context.Context, key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: bad photo key %q", common.ErrorValidation, key)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	bucket := s.config.S3Bucket
	if _, err := deleteObject(client, ctx, &s3.DeleteObjectInput{Bucket: &bucket, Key: &key}); err != nil {
		return fmt.Errorf("error deleting photo: %w", err)
	}
	return nil
}
