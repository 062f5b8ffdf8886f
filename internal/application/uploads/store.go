package uploads

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"ecomcore-backend/internal/pkg/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ObjectStore is the subset of object storage the API needs.
type ObjectStore interface {
	Upload(ctx context.Context, body io.Reader, fileName, contentType, folder string) (url, key string, err error)
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys []string) error
	Head(ctx context.Context, key string) (*ObjectInfo, error)
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ObjectInfo is the metadata returned by Head. Head fails with ErrFileNotFound for a
// missing key.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	ETag         string    `json:"etag"`
	LastModified time.Time `json:"last_modified"`
}

// S3Store talks to S3 or an S3-compatible endpoint.
type S3Store struct {
	cfg      Config
	client   *s3.Client
	uploader *manager.Uploader
	presign  *s3.PresignClient
	now      func() time.Time
}

// NewS3Store builds a client with static credentials from cfg.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Bucket == "" {
		return nil, errors.New("uploads: AWS credentials not configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, errors.Wrap(err, "uploads: load aws config")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	log.Info().Str("bucket", cfg.Bucket).Str("region", cfg.Region).Str("endpoint", cfg.Endpoint).Msg("S3 file storage initialized")
	return &S3Store{
		cfg:      cfg,
		client:   client,
		uploader: manager.NewUploader(client),
		presign:  s3.NewPresignClient(client),
		now:      time.Now,
	}, nil
}

// ObjectKey is <folder>/<unix millis>-<base name>.
func ObjectKey(folder, fileName string, at time.Time) string {
	if folder == "" {
		folder = "products"
	}
	return fmt.Sprintf("%s/%d-%s", folder, at.UnixMilli(), path.Base(fileName))
}

// Upload stores body publicly readable and served inline.
func (s *S3Store) Upload(ctx context.Context, body io.Reader, fileName, contentType, folder string) (string, string, error) {
	key := ObjectKey(folder, fileName, s.now())
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.cfg.Bucket),
		Key:                aws.String(key),
		Body:               body,
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String("inline"),
		CacheControl:       aws.String(s.cfg.CacheControl),
		ACL:                types.ObjectCannedACLPublicRead,
	})
	metrics.RecordStorage("upload", err)
	if err != nil {
		return "", "", errors.Wrap(err, "file upload failed")
	}
	return s.cfg.PublicBase() + "/" + key, key, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	metrics.RecordStorage("delete", err)
	return errors.Wrap(err, "file deletion failed")
}

// DeleteMany removes keys in one request. An empty list is a no-op.
func (s *S3Store) DeleteMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, k := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(k)})
	}
	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.cfg.Bucket),
		Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err == nil && len(out.Errors) > 0 {
		first := out.Errors[0]
		err = fmt.Errorf("%d objects not deleted, first %s: %s", len(out.Errors), aws.ToString(first.Key), aws.ToString(first.Message))
	}
	metrics.RecordStorage("delete_many", err)
	return errors.Wrap(err, "batch file deletion failed")
}

func (s *S3Store) Head(ctx context.Context, key string) (*ObjectInfo, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	metrics.RecordStorage("head", err)
	if err != nil {
		var notFound *types.NotFound
		var resp *awshttp.ResponseError
		if errors.As(err, &notFound) || (errors.As(err, &resp) && resp.HTTPStatusCode() == http.StatusNotFound) {
			return nil, errors.Wrap(ErrFileNotFound, key)
		}
		return nil, errors.Wrap(err, "failed to get file metadata")
	}
	return &ObjectInfo{
		Key:          key,
		Size:         aws.ToInt64(out.ContentLength),
		ContentType:  aws.ToString(out.ContentType),
		ETag:         aws.ToString(out.ETag),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

// SignedURL presigns a GET. ttl <= 0 uses the configured default.
func (s *S3Store) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.cfg.SignedURLTTL
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	metrics.RecordStorage("presign", err)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate signed URL")
	}
	return req.URL, nil
}
