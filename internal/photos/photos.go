package photos

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/DanilaRazvan/TravelPlaner/internal/models"
)

const uploadExpiry = 5 * time.Minute

type Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// Endpoint points at an S3-compatible service instead of AWS.
	Endpoint string
	// PublicBaseURL is where uploaded objects are served from. Defaults to the bucket URL.
	PublicBaseURL string
}

// Uploader hands out presigned PUT URLs so clients upload city, accommodation and landmark
// photos straight to the bucket and then store the returned public URL.
type Uploader struct {
	presign *s3.PresignClient
	bucket  string
	baseURL string
}

func NewUploader(ctx context.Context, cfg Config) (*Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Uploader{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		baseURL: PublicBaseURL(cfg),
	}, nil
}

// PublicBaseURL is the prefix under which an uploaded object can be read back.
func PublicBaseURL(cfg Config) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// ObjectKey places uploads under a per-kind prefix with a random name that keeps the
// original extension.
func ObjectKey(kind, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s/%s%s", kind, uuid.New().String(), ext)
}

func (u *Uploader) UploadURL(ctx context.Context, kind string, req models.UploadURLRequest) (*models.UploadURLResponse, error) {
	key := ObjectKey(kind, req.Filename)

	request, err := u.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(req.ContentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &models.UploadURLResponse{
		UploadURL: request.URL,
		PhotoURL:  u.baseURL + "/" + key,
		ExpiresIn: int(uploadExpiry.Seconds()),
	}, nil
}
