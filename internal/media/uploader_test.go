package media

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/newsportal/internal/contentapi"
	"github.com/bilgisen/newsportal/internal/i18n"
	"github.com/bilgisen/newsportal/internal/models"
)

type fakeBucket struct {
	key         string
	contentType string
	body        string
	err         error
}

func (f *fakeBucket) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.key = aws.ToString(in.Key)
	f.contentType = aws.ToString(in.ContentType)
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	return &s3.PutObjectOutput{}, nil
}

func newRegistrar(t *testing.T, got *models.MediaRegistration) *contentapi.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/media", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]string{"id": "m1", "url": got.URL}})
	}))
	t.Cleanup(srv.Close)
	return contentapi.New(contentapi.Config{BaseURL: srv.URL})
}

func TestBucketUploaderStoresAndRegisters(t *testing.T) {
	var reg models.MediaRegistration
	api := newRegistrar(t, &reg)
	bucket := &fakeBucket{}

	uploader := newBucketUploader(bucket, BucketConfig{Bucket: "newsapi", MaxSize: 1 << 10})
	uploader.now = func() time.Time { return time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC) }

	media, err := uploader.Upload(context.Background(), api, models.MediaUpload{
		Filename: "Padma Bridge.JPG",
		Body:     strings.NewReader("jpeg-bytes"),
		Alt:      i18n.EnBn("Padma bridge", ""),
		Folder:   "news",
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", media.ID)

	assert.Regexp(t, `^uploads/2025/03/[0-9a-f]{12}-padma-bridge\.jpg$`, bucket.key)
	assert.Equal(t, "image/jpeg", bucket.contentType)
	assert.Equal(t, "jpeg-bytes", bucket.body)

	assert.Equal(t, bucket.key, reg.URL)
	assert.Equal(t, "news", reg.Folder)
	assert.Equal(t, int64(len("jpeg-bytes")), reg.Size)
	assert.Equal(t, "Padma bridge", reg.Alt.Get("en"))
}

func TestBucketUploaderPublicURL(t *testing.T) {
	var reg models.MediaRegistration
	api := newRegistrar(t, &reg)

	uploader := newBucketUploader(&fakeBucket{}, BucketConfig{Bucket: "newsapi", PublicURL: "https://media.example.com/"})
	_, err := uploader.Upload(context.Background(), api, models.MediaUpload{Filename: "a.png", Body: strings.NewReader("x")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reg.URL, "https://media.example.com/uploads/"))
}

func TestBucketUploaderRejectsLargeFiles(t *testing.T) {
	bucket := &fakeBucket{}
	uploader := newBucketUploader(bucket, BucketConfig{Bucket: "newsapi", MaxSize: 4})

	_, err := uploader.Upload(context.Background(), nil, models.MediaUpload{Filename: "a.png", Body: strings.NewReader("too large")})
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Empty(t, bucket.key)
}

func TestBucketUploaderPutFailure(t *testing.T) {
	bucket := &fakeBucket{err: errors.New("access denied")}
	uploader := newBucketUploader(bucket, BucketConfig{Bucket: "newsapi"})

	_, err := uploader.Upload(context.Background(), nil, models.MediaUpload{Filename: "a.png", Body: strings.NewReader("x")})
	assert.ErrorContains(t, err, "access denied")
}
