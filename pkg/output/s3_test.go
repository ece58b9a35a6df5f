package output

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// mockS3Client records PutObject calls
type mockS3Client struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (m *mockS3Client) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	m.input = input
	if input.Body != nil {
		m.body, _ = io.ReadAll(input.Body)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Publisher_Publish(t *testing.T) {
	client := &mockS3Client{}
	publisher := NewS3PublisherWithClient(client, S3Config{Bucket: "renders", Prefix: "flat/"})

	key, err := publisher.Publish(context.Background(), "sphere.png", checkerImage())
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	if key != "flat/sphere.png" {
		t.Errorf("Expected key flat/sphere.png, got %q", key)
	}
	if aws.StringValue(client.input.Bucket) != "renders" {
		t.Errorf("Expected bucket renders, got %q", aws.StringValue(client.input.Bucket))
	}
	if aws.StringValue(client.input.ContentType) != "image/png" {
		t.Errorf("Expected image/png content type, got %q", aws.StringValue(client.input.ContentType))
	}
	if int64(len(client.body)) != aws.Int64Value(client.input.ContentLength) {
		t.Errorf("Content length %d does not match body size %d", aws.Int64Value(client.input.ContentLength), len(client.body))
	}
	if len(client.body) < 8 || string(client.body[1:4]) != "PNG" {
		t.Error("Expected PNG body")
	}
}

func TestS3Publisher_UploadError(t *testing.T) {
	uploadErr := errors.New("access denied")
	publisher := NewS3PublisherWithClient(&mockS3Client{err: uploadErr}, S3Config{Bucket: "renders"})

	if _, err := publisher.Publish(context.Background(), "x.png", checkerImage()); !errors.Is(err, uploadErr) {
		t.Errorf("Expected wrapped upload error, got %v", err)
	}
}

func TestNewS3Publisher_RequiresBucket(t *testing.T) {
	if _, err := NewS3Publisher(S3Config{Region: "us-east-1"}); !errors.Is(err, ErrNoBucket) {
		t.Errorf("Expected ErrNoBucket, got %v", err)
	}
}
