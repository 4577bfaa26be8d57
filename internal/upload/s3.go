package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the subset of the S3 client used here; *s3.Client satisfies it.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures the production upload client. Endpoint may point at
// any S3-compatible backend (MinIO in the default deployment).
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Client delivers artifacts with PutObject, one object per artifact,
// keyed by file name.
type S3Client struct {
	bucket string
	api    s3API
}

func NewS3Client(ctx context.Context, opts S3Options) (*S3Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Client{bucket: opts.Bucket, api: client}, nil
}

func (c *S3Client) Upload(ctx context.Context, data []byte, fileName, mimeType string) error {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// classify maps transport and API errors onto the retry taxonomy.
func classify(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(ClassTimeout, err)
	}

	var respErr interface{ HTTPStatusCode() int }
	if errors.As(err, &respErr) {
		switch code := respErr.HTTPStatusCode(); {
		case code == 401 || code == 403:
			return NewError(ClassAuth, err)
		case code >= 500:
			return NewError(ClassServer, err)
		default:
			return NewError(ClassUnknown, err)
		}
	}

	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return NewError(ClassTimeout, err)
		}
		return NewError(ClassNetwork, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return NewError(ClassNetwork, err)
	}

	return NewError(ClassUnknown, err)
}
