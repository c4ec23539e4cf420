package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, params)
	f.bodies = append(f.bodies, string(data))
	return &s3.PutObjectOutput{}, nil
}

func TestReviewImageKey(t *testing.T) {
	assert.Equal(t, "review-images/12-0.jpg", ReviewImageKey(12, 0, "photo.JPG"))
	assert.Equal(t, "review-images/12-3.png", ReviewImageKey(12, 3, "dir/shot.png"))
	assert.Equal(t, "review-images/7-1", ReviewImageKey(7, 1, "noext"))
}

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		wantErr     bool
		unsupported bool
	}{
		{name: "jpeg", contentType: "image/jpeg", size: 1024},
		{name: "webp at limit", contentType: "image/webp", size: MaxImageSize},
		{name: "too large", contentType: "image/png", size: MaxImageSize + 1, wantErr: true},
		{name: "pdf", contentType: "application/pdf", size: 10, wantErr: true, unsupported: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImage(tt.contentType, tt.size)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.unsupported, errors.Is(err, ErrUnsupportedContentType))
		})
	}
}

func TestS3Storage_Put(t *testing.T) {
	client := &fakeS3{}
	s := newS3Storage(client, "ap-northeast-2", "reviews", "")

	url, err := s.Put(context.Background(), "review-images/1-0.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://s3.ap-northeast-2.amazonaws.com/reviews/review-images/1-0.jpg", url)

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "reviews", aws.ToString(in.Bucket))
	assert.Equal(t, "review-images/1-0.jpg", aws.ToString(in.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(in.ContentType))
	assert.Equal(t, types.ObjectCannedACLPublicRead, in.ACL)
	assert.Equal(t, "jpeg-bytes", client.bodies[0])
}

func TestS3Storage_BaseURL(t *testing.T) {
	s := newS3Storage(&fakeS3{}, "ap-northeast-2", "reviews", "https://cdn.example.com")
	assert.Equal(t, "https://cdn.example.com/review-images/2-1.png", s.URL("review-images/2-1.png"))
}

func TestS3Storage_PutError(t *testing.T) {
	boom := errors.New("access denied")
	s := newS3Storage(&fakeS3{err: boom}, "ap-northeast-2", "reviews", "")

	_, err := s.Put(context.Background(), "review-images/1-0.jpg", "image/jpeg", strings.NewReader("x"))
	assert.ErrorIs(t, err, boom)
}

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage("http://localhost:8080/images")

	url, err := s.Put(context.Background(), "a.jpg", "image/jpeg", strings.NewReader("a"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/images/a.jpg", url)

	data, ok := s.Object("a.jpg")
	require.True(t, ok)
	assert.Equal(t, "a", string(data))

	s.FailAfter = 1
	_, err = s.Put(context.Background(), "b.jpg", "image/jpeg", strings.NewReader("b"))
	assert.Error(t, err)
	assert.Equal(t, 1, s.Len())
}

var _ ObjectStorage = (*S3Storage)(nil)
var _ ObjectStorage = (*MemoryStorage)(nil)
