package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ellavondegurechaff/foodgram/internal/domain/errs"
	"github.com/ellavondegurechaff/foodgram/internal/domain/recipes"
)

// ObjectAPI is the part of the S3 client the image store uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// SpacesService stores recipe images in a DigitalOcean Spaces bucket.
type SpacesService struct {
	client    ObjectAPI
	bucket    string
	region    string
	ImageRoot string
}

var _ recipes.ImageStore = &SpacesService{}

func NewSpacesService(ctx context.Context, spacesKey, spacesSecret, region, bucket, imageRoot string) (*SpacesService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load Spaces config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.digitaloceanspaces.com", region))
	})
	return NewSpacesServiceWithClient(client, region, bucket, imageRoot), nil
}

func NewSpacesServiceWithClient(client ObjectAPI, region, bucket, imageRoot string) *SpacesService {
	return &SpacesService{
		client:    client,
		bucket:    bucket,
		region:    region,
		ImageRoot: strings.Trim(imageRoot, "/"),
	}
}

// Save uploads a data URI image and returns its public URL. Remote URLs are
// returned unchanged.
func (s *SpacesService) Save(ctx context.Context, image string) (string, error) {
	if isRemoteURL(image) {
		return image, nil
	}
	img, err := ParseDataURI(image)
	if err != nil {
		return "", err
	}

	key := objectName(s.ImageRoot, img)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(img.Data),
		ContentType:  aws.String(img.ContentType),
		CacheControl: aws.String("public, max-age=31536000"),
		ACL:          types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image %s: %w", key, err)
	}

	slog.Debug("Image uploaded", slog.String("key", key), slog.Int("bytes", len(img.Data)))
	return s.publicURL(key), nil
}

// Remove deletes an image this store uploaded. Foreign URLs are ignored.
func (s *SpacesService) Remove(ctx context.Context, ref string) error {
	if !s.Owns(ref) {
		return nil
	}
	key := strings.TrimPrefix(ref, s.publicURL(""))
	if key == "" {
		return nil
	}
	if !strings.HasPrefix(key, s.ImageRoot+"/") {
		return errs.Forbidden("remove objects outside " + s.ImageRoot)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", key, err)
	}
	return nil
}

// Owns reports whether ref is a URL into this store's bucket.
func (s *SpacesService) Owns(ref string) bool {
	return strings.HasPrefix(ref, s.publicURL(""))
}

func (s *SpacesService) publicURL(key string) string {
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, key)
}

func (s *SpacesService) GetBucket() string {
	return s.bucket
}

func (s *SpacesService) GetRegion() string {
	return s.region
}
