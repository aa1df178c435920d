package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
)

// Avatars are normalized to a square JPEG before upload so the profile and
// admin pages never deal with oversized originals.
const avatarSize = 256

// AvatarStore uploads processed profile pictures to object storage.
type AvatarStore struct {
	s3Client *s3.Client
	config   *Config
}

// NewAvatarStore creates an avatar store from the given configuration.
func NewAvatarStore(cfg *Config) (*AvatarStore, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("avatar uploads are disabled")
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
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
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	return &AvatarStore{s3Client: s3Client, config: cfg}, nil
}

// UploadAvatar decodes the uploaded image, resizes it to a centered square
// JPEG and uploads it under the user's avatar key. It returns the public URL
// of the stored object.
func (a *AvatarStore) UploadAvatar(ctx context.Context, userID uint, r io.Reader) (string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode avatar image: %w", err)
	}

	thumb := imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to encode avatar image: %w", err)
	}

	objectKey := a.config.AvatarObjectKey(userID)
	_, err = a.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.config.GetBucketName()),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	log.Infof("[Storage] Uploaded avatar for user %d as %s", userID, objectKey)
	return a.config.PublicURL(objectKey), nil
}

// DeleteAvatar removes the user's stored avatar. A missing object is not an
// error.
func (a *AvatarStore) DeleteAvatar(ctx context.Context, userID uint) error {
	objectKey := a.config.AvatarObjectKey(userID)
	_, err := a.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.config.GetBucketName()),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete avatar: %w", err)
	}
	return nil
}
