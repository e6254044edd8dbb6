package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bilgisen/newsportal/internal/contentapi"
	"github.com/bilgisen/newsportal/internal/logger"
	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/utils"
)

// ErrTooLarge is returned for files above the configured limit.
var ErrTooLarge = errors.New("file exceeds the upload limit")

// Uploader stores a media file and records it in the library. api is the
// request-scoped content API client of the uploading user.
type Uploader interface {
	Upload(ctx context.Context, api *contentapi.Client, u models.MediaUpload) (*models.Media, error)
}

// APIUploader hands the file to the content API's multipart endpoint.
type APIUploader struct{}

func (APIUploader) Upload(ctx context.Context, api *contentapi.Client, u models.MediaUpload) (*models.Media, error) {
	return api.UploadMedia(ctx, u)
}

// BucketConfig describes an S3 compatible bucket such as Cloudflare R2.
type BucketConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	// PublicURL is the origin objects are served from. Empty means the
	// object key is registered as a relative path and resolved against the
	// upload origin.
	PublicURL string
	MaxSize   int64
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// BucketUploader writes files straight to the bucket and registers the
// stored object with POST /media.
type BucketUploader struct {
	client objectPutter
	cfg    BucketConfig
	now    func() time.Time
}

// NewBucketUploader builds an S3 client for cfg.
func NewBucketUploader(ctx context.Context, cfg BucketConfig) (*BucketUploader, error) {
	if cfg.Region == "" {
		cfg.Region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load bucket config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return newBucketUploader(client, cfg), nil
}

func newBucketUploader(client objectPutter, cfg BucketConfig) *BucketUploader {
	return &BucketUploader{client: client, cfg: cfg, now: time.Now}
}

func (b *BucketUploader) Upload(ctx context.Context, api *contentapi.Client, u models.MediaUpload) (*models.Media, error) {
	if u.Body == nil {
		return nil, errors.New("upload has no file")
	}

	body, err := b.read(u.Body)
	if err != nil {
		return nil, err
	}

	contentType := u.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(path.Ext(u.Filename)))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := b.objectKey(u.Filename)
	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	logger.Get().Info().
		Str("bucket", b.cfg.Bucket).
		Str("key", key).
		Int("bytes", len(body)).
		Msg("Media object stored")

	reg := models.MediaRegistration{
		URL:      b.publicURL(key),
		Filename: u.Filename,
		Type:     contentType,
		Size:     int64(len(body)),
		Alt:      u.Alt,
		Folder:   u.Folder,
		Tags:     u.Tags,
	}
	media, err := contentapi.Decode[models.Media](api.Post(ctx, "/media", reg))
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", key, err)
	}
	return &media, nil
}

func (b *BucketUploader) read(r io.Reader) ([]byte, error) {
	if b.cfg.MaxSize <= 0 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, b.cfg.MaxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > b.cfg.MaxSize {
		return nil, ErrTooLarge
	}
	return body, nil
}

var unsafeName = regexp.MustCompile(`[^a-z0-9._-]+`)

// objectKey files uploads by month and prefixes a short hash so equal
// filenames never collide.
func (b *BucketUploader) objectKey(filename string) string {
	now := b.now().UTC()
	name := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(path.Base(filename)), "-"), "-.")
	if name == "" {
		name = "file"
	}
	sum := utils.ShortHash(12, filename, strconv.FormatInt(now.UnixNano(), 10))
	return fmt.Sprintf("uploads/%04d/%02d/%s-%s", now.Year(), int(now.Month()), sum, name)
}

func (b *BucketUploader) publicURL(key string) string {
	if b.cfg.PublicURL == "" {
		return key
	}
	return strings.TrimRight(b.cfg.PublicURL, "/") + "/" + key
}
