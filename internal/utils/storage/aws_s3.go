package storage

import (
	"Health-Tracker-Backend/internal/utils"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const rawOutputPrefix = "estimator-raw"

var ErrBucketNotSet = errors.New("AWS_S3_BUCKET not set")

type (
	putObjectAPI interface {
		PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	}

	// AwsS3 stores plain-text diagnostics, mainly raw estimator replies
	// that could not be turned into macros.
	AwsS3 struct {
		client putObjectAPI
		bucket string
		prefix string
	}
)

// NewAwsS3 builds a client from AWS_S3_* config. Static keys are used when
// both are set, otherwise the default credential chain applies.
func NewAwsS3(ctx context.Context) (*AwsS3, error) {
	bucket := utils.GetConfig("AWS_S3_BUCKET")
	if bucket == "" {
		return nil, ErrBucketNotSet
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(utils.GetConfigOr("AWS_S3_REGION", "ap-southeast-1")),
	}
	accessKey := utils.GetConfig("AWS_ACCESS_KEY")
	secretKey := utils.GetConfig("AWS_SECRET_KEY")
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for S3: %w", err)
	}

	return newAwsS3(s3.NewFromConfig(cfg), bucket), nil
}

func newAwsS3(client putObjectAPI, bucket string) *AwsS3 {
	return &AwsS3{client: client, bucket: bucket, prefix: rawOutputPrefix}
}

func (a *AwsS3) Archive(ctx context.Context, key string, raw string) error {
	objectKey := path.Join(a.prefix, strings.TrimLeft(key, "/"))
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        strings.NewReader(raw),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}
