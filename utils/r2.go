// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"rise-platform/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// putObjectAPI is the slice of the S3 client R2Client uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Client uploads objects to a Cloudflare R2 bucket through its S3 API.
type R2Client struct {
	api        putObjectAPI
	bucket     string
	cdnBaseURL string
}

func r2Endpoint(accountID string) string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
}

// NewR2Client builds a client from static credentials. Public URLs use
// CDNBaseURL when set and the bucket endpoint otherwise.
func NewR2Client(ctx context.Context, cfg config.R2Config) (*R2Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(r2Endpoint(cfg.AccountID))
	})
	return newR2Client(client, cfg), nil
}

func newR2Client(api putObjectAPI, cfg config.R2Config) *R2Client {
	base := cfg.CDNBaseURL
	if base == "" {
		base = r2Endpoint(cfg.AccountID)
	}
	return &R2Client{
		api:        api,
		bucket:     cfg.Bucket,
		cdnBaseURL: strings.TrimRight(base, "/"),
	}
}

// Put uploads body under key and returns its public URL.
func (r *R2Client) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	// Buffered so the SDK can sign the payload.
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, body); err != nil {
		return "", fmt.Errorf("failed to read upload body: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(buf.Bytes()),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := r.api.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}

	return r.cdnBaseURL + "/" + key, nil
}
