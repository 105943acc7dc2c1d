package filestorage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site_cms/internal/storage"
)

type fakeS3 struct {
	s3iface.S3API
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.StringValue(in.Key)] = data
	f.types[aws.StringValue(in.Key)] = aws.StringValue(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2PagesWithContext(_ aws.Context, _ *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, _ ...request.Option) error {
	out := &s3.ListObjectsV2Output{}
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for key, data := range f.objects {
		out.Contents = append(out.Contents, &s3.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(data))),
			LastModified: aws.Time(ts),
		})
	}
	fn(out, true)
	return nil
}

func (f *fakeS3) HeadObjectWithContext(_ aws.Context, in *s3.HeadObjectInput, _ ...request.Option) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.StringValue(in.Key)]; !ok {
		return nil, awserr.NewRequestFailure(awserr.New("NotFound", "not found", nil), 404, "req")
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{"aws", S3Config{Bucket: "site", Region: "eu-west-1"}, "https://site.s3.eu-west-1.amazonaws.com"},
		{"aws default region", S3Config{Bucket: "site"}, "https://site.s3.us-east-1.amazonaws.com"},
		{"minio", S3Config{Bucket: "site", Endpoint: "http://localhost:9000"}, "http://localhost:9000/site"},
		{"minio ssl", S3Config{Bucket: "site", Endpoint: "minio.local", UseSSL: true}, "https://minio.local/site"},
		{"public override", S3Config{Bucket: "site", PublicURL: "https://cdn.example.com/"}, "https://cdn.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicURL(tt.cfg))
		})
	}
}

func TestS3FileStorage(t *testing.T) {
	fake := newFakeS3()
	fs := NewS3FileStorageWithClient(fake, S3Config{Bucket: "site", Endpoint: "http://localhost:9000"})
	ctx := context.Background()

	img, err := fs.Save(ctx, "hero.png", "image/png", io.NopCloser(strings.NewReader("png-bytes")))
	require.NoError(t, err)
	assert.Equal(t, int64(9), img.Size)
	assert.Equal(t, "http://localhost:9000/site/hero.png", img.URL)
	assert.Equal(t, "image/png", fake.types["hero.png"])

	images, err := fs.List(ctx)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "hero.png", images[0].Name)

	require.NoError(t, fs.Delete(ctx, "hero.png"))
	assert.ErrorIs(t, fs.Delete(ctx, "hero.png"), storage.ErrFileNotFound)
	assert.ErrorIs(t, fs.Delete(ctx, "a/b.png"), storage.ErrInvalidFileName)
}
