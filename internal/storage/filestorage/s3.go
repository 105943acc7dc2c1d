package filestorage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"site_cms/internal/domain/models"
	"site_cms/internal/storage"
)

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	// PublicURL overrides the URL prefix of stored objects, e.g. a CDN.
	PublicURL string
}

// S3FileStorage stores files in an S3 bucket or a MinIO server.
type S3FileStorage struct {
	client  s3iface.S3API
	bucket  string
	baseURL string
}

func NewS3FileStorage(cfg S3Config) (*S3FileStorage, error) {
	awsConfig := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}

	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
		awsConfig.DisableSSL = aws.Bool(!cfg.UseSSL)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	client := s3.New(sess)

	if _, err := client.HeadBucket(&s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		if _, err := client.CreateBucket(&s3.CreateBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
			return nil, fmt.Errorf("failed to ensure bucket %s: %w", cfg.Bucket, err)
		}
	}

	return NewS3FileStorageWithClient(client, cfg), nil
}

// NewS3FileStorageWithClient wraps an existing client.
func NewS3FileStorageWithClient(client s3iface.S3API, cfg S3Config) *S3FileStorage {
	return &S3FileStorage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: publicURL(cfg),
	}
}

func publicURL(cfg S3Config) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}

	if cfg.Endpoint != "" && !strings.Contains(cfg.Endpoint, "amazonaws.com") {
		protocol := "http"
		if cfg.UseSSL {
			protocol = "https"
		}
		endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
		return fmt.Sprintf("%s://%s/%s", protocol, strings.TrimRight(endpoint, "/"), cfg.Bucket)
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
}

func (s *S3FileStorage) Save(ctx context.Context, name, contentType string, r io.Reader) (models.Image, error) {
	if err := checkName(name); err != nil {
		return models.Image{}, err
	}

	body, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return models.Image{}, fmt.Errorf("failed to read file: %w", err)
		}
		body = bytes.NewReader(data)
	}

	size, err := body.Seek(0, io.SeekEnd)
	if err != nil {
		return models.Image{}, fmt.Errorf("failed to size file: %w", err)
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return models.Image{}, fmt.Errorf("failed to rewind file: %w", err)
	}

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(name),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return models.Image{
		Name:        name,
		URL:         s.URL(name),
		Size:        size,
		ContentType: contentType,
	}, nil
}

func (s *S3FileStorage) List(ctx context.Context) ([]models.Image, error) {
	var images []models.Image

	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			key := aws.StringValue(obj.Key)
			if strings.Contains(key, "/") {
				continue
			}
			images = append(images, models.Image{
				Name:      key,
				URL:       s.URL(key),
				Size:      aws.Int64Value(obj.Size),
				CreatedAt: aws.TimeValue(obj.LastModified).UTC(),
			})
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list S3 objects: %w", err)
	}

	sortNewestFirst(images)
	return images, nil
}

func (s *S3FileStorage) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		var aerr awserr.RequestFailure
		if errors.As(err, &aerr) && aerr.StatusCode() == 404 {
			return storage.ErrFileNotFound
		}
		return fmt.Errorf("failed to stat S3 object: %w", err)
	}

	_, err = s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (s *S3FileStorage) URL(name string) string {
	return s.baseURL + "/" + name
}
