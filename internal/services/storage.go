package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/greengenius/greengenius/internal/utils"
)

var ErrStorageDisabled = errors.New("image storage is not configured")

type ObjectStorage interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
}

// S3Storage stores objects in a single bucket.
type S3Storage struct {
	client *s3.Client
	bucket string
}

func NewS3Storage(ctx context.Context, bucket, region string) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{}

	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)

	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for S3: %w", err)
	}

	return &S3Storage{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

func (s *S3Storage) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})

	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

// ImageStore lays out plant and community images in object storage.
type ImageStore struct {
	storage ObjectStorage
	baseURL string
	now     func() time.Time
}

// NewImageStore returns a store that rejects uploads when storage is nil.
func NewImageStore(storage ObjectStorage, publicBaseURL string) *ImageStore {
	return &ImageStore{
		storage: storage,
		baseURL: strings.TrimSuffix(publicBaseURL, "/"),
		now:     time.Now,
	}
}

func (s *ImageStore) Enabled() bool {
	return s != nil && s.storage != nil
}

func (s *ImageStore) UploadPlantImage(ctx context.Context, userID uint, potID, image string) (string, error) {
	key := fmt.Sprintf("users/%d/plants/%s_%d.jpg", userID, sanitizeKeyPart(potID), s.now().UnixMilli())
	return s.upload(ctx, key, image)
}

func (s *ImageStore) UploadCommunityImage(ctx context.Context, communityName, image string) (string, error) {
	key := fmt.Sprintf("communities/%s_%d.jpg", sanitizeKeyPart(communityName), s.now().UnixMilli())
	return s.upload(ctx, key, image)
}

func (s *ImageStore) upload(ctx context.Context, key, image string) (string, error) {
	if !s.Enabled() {
		return "", ErrStorageDisabled
	}

	data, contentType, err := utils.DecodeBase64Image(image)

	if err != nil {
		return "", err
	}

	if err := s.storage.PutObject(ctx, key, data, contentType); err != nil {
		return "", err
	}

	return s.baseURL + "/" + key, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeKeyPart(s string) string {
	s = unsafeKeyChars.ReplaceAllString(strings.TrimSpace(s), "_")

	if s == "" {
		return "image"
	}

	return s
}
