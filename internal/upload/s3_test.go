package upload

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	err    error
	bucket string
	key    string
	mime   string
	body   []byte
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	f.mime = aws.ToString(in.ContentType)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func httpResponseError(status int) error {
	return &smithyhttp.ResponseError{
		Response: &smithyhttp.Response{Response: &http.Response{StatusCode: status}},
		Err:      errors.New("api error"),
	}
}

func TestS3Client_UploadSuccess(t *testing.T) {
	fake := &fakeS3{}
	c := &S3Client{bucket: "intake", api: fake}

	err := c.Upload(context.Background(), []byte("pdf bytes"), "KSK-20260830-0001.pdf", "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "intake", fake.bucket)
	assert.Equal(t, "KSK-20260830-0001.pdf", fake.key)
	assert.Equal(t, "application/pdf", fake.mime)
	assert.Equal(t, []byte("pdf bytes"), fake.body)
}

func TestS3Client_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"forbidden", httpResponseError(403), ClassAuth},
		{"unauthorized", httpResponseError(401), ClassAuth},
		{"server failure", httpResponseError(503), ClassServer},
		{"client error left unknown", httpResponseError(404), ClassUnknown},
		{"deadline", context.DeadlineExceeded, ClassTimeout},
		{"connection refused", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, ClassNetwork},
		{"opaque", errors.New("weird"), ClassUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := &S3Client{bucket: "intake", api: &fakeS3{err: tc.err}}
			err := c.Upload(context.Background(), []byte("x"), "f", "application/pdf")
			require.Error(t, err)
			assert.Equal(t, tc.want, ClassOf(err))
		})
	}
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(ClassAuth))
	assert.True(t, Retryable(ClassNetwork))
	assert.True(t, Retryable(ClassServer))
	assert.True(t, Retryable(ClassTimeout))
	assert.True(t, Retryable(ClassUnknown))
}

func TestClassOf_Fallbacks(t *testing.T) {
	assert.Equal(t, ClassTimeout, ClassOf(context.DeadlineExceeded))
	assert.Equal(t, ClassNetwork, ClassOf(&net.OpError{Op: "read", Err: errors.New("reset")}))
	assert.Equal(t, ClassServer, ClassOf(NewError(ClassServer, errors.New("500"))))
	assert.Equal(t, ClassUnknown, ClassOf(errors.New("x")))
}
