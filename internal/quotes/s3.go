package quotes

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	kerrors "github.com/vango-dev/kite/internal/errors"
)

// GetObjectAPI is the part of the S3 client S3Source needs.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options locates the quote object.
type S3Options struct {
	Bucket string
	Key    string

	// Region defaults to us-east-1.
	Region string

	// Endpoint overrides the S3 endpoint (MinIO, LocalStack).
	Endpoint string

	// PathStyle addresses the bucket in the path instead of the host name.
	PathStyle bool

	// CacheTTL is how long a fetched list is reused. Default: 1 minute.
	CacheTTL time.Duration
}

// S3Source reads quotes from a JSON object in S3.
type S3Source struct {
	client GetObjectAPI
	bucket string
	key    string
	ttl    time.Duration

	mu      sync.Mutex
	fetched time.Time
	quotes  []Quote
}

// NewS3Source creates an S3Source with its own client. Credentials come from
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN when set;
// otherwise requests are anonymous, which works for public buckets.
func NewS3Source(opts S3Options) *S3Source {
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}
	o := s3.Options{
		Region:       region,
		UsePathStyle: opts.PathStyle,
		Credentials:  environmentCredentials(),
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	}
	return NewS3SourceWithClient(s3.New(o), opts)
}

// NewS3SourceWithClient creates an S3Source using client.
func NewS3SourceWithClient(client GetObjectAPI, opts S3Options) *S3Source {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &S3Source{
		client: client,
		bucket: opts.Bucket,
		key:    opts.Key,
		ttl:    ttl,
	}
}

// Quotes implements Source.
func (s *S3Source) Quotes(ctx context.Context) ([]Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quotes != nil && time.Since(s.fetched) < s.ttl {
		return s.quotes, nil
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if s.quotes != nil {
			// Keep serving the stale list.
			return s.quotes, nil
		}
		return nil, kerrors.New("K150").
			WithDetailf("s3://%s/%s", s.bucket, s.key).
			Wrap(err)
	}
	defer out.Body.Close()

	quotes, err := Decode(out.Body)
	if err != nil {
		return nil, fmt.Errorf("quotes: s3://%s/%s: %w", s.bucket, s.key, err)
	}
	s.quotes = quotes
	s.fetched = time.Now()
	return quotes, nil
}

// Name implements Source.
func (s *S3Source) Name() string { return "s3://" + s.bucket + "/" + s.key }

func environmentCredentials() aws.CredentialsProvider {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	token := os.Getenv("AWS_SESSION_TOKEN")
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    token,
			Source:          "Environment",
		}, nil
	})
}
