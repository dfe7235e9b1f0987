package s3

import (
	"fmt"
	"io"
	"path"

	"yamdb/pkg/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type Client struct {
	s3Client *s3.S3
	bucket   string
}

func NewClient(cfg *config.Config) (*Client, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)
	}

	// Support MinIO for local development
	if cfg.AWSEndpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.AWSEndpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
		if cfg.S3UseSSL == "false" {
			awsConfig.DisableSSL = aws.Bool(true)
		}
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &Client{
		s3Client: s3.New(sess),
		bucket:   cfg.S3BucketName,
	}, nil
}

// Open streams the object at prefix/name. The caller closes the reader.
func (c *Client) Open(prefix, name string) (io.ReadCloser, error) {
	key := path.Join(prefix, name)
	out, err := c.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", c.bucket, key, err)
	}
	return out.Body, nil
}

// Exists reports whether prefix/name is present in the bucket.
func (c *Client) Exists(prefix, name string) (bool, error) {
	key := path.Join(prefix, name)
	out, err := c.s3Client.ListObjectsV2(&s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucket),
		Prefix:  aws.String(key),
		MaxKeys: aws.Int64(1),
	})
	if err != nil {
		return false, fmt.Errorf("failed to list s3://%s/%s: %w", c.bucket, key, err)
	}
	for _, obj := range out.Contents {
		if aws.StringValue(obj.Key) == key {
			return true, nil
		}
	}
	return false, nil
}
