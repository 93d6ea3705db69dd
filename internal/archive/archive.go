// Package archive keeps the original résumé files in S3-compatible object
// storage (AWS S3, Cloudflare R2, MinIO).
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
)

// Options configures the archive
type Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
	UsePathStyle    bool
}

// ObjectAPI is the subset of the S3 client used by the archive
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Object is an archived file
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// Archive stores résumé files. A nil *Archive is a disabled archive: Put is
// a no-op returning an empty key and Get reports not found.
type Archive struct {
	client ObjectAPI
	bucket string
	prefix string
	logger *recruiterErrors.Logger
}

// New builds an S3 client from static credentials when given, otherwise from
// the default AWS credential chain.
func New(ctx context.Context, opts Options, logger *recruiterErrors.Logger) (*Archive, error) {
	if opts.Bucket == "" {
		return nil, recruiterErrors.NewConfigError(recruiterErrors.ErrCodeInvalidConfig, "archive bucket is required", nil)
	}

	region := opts.Region
	if region == "" {
		region = "auto"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, recruiterErrors.NewConfigError(recruiterErrors.ErrCodeInvalidConfig, "failed to load object storage config", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return NewWithClient(client, opts.Bucket, opts.Prefix, logger), nil
}

// NewWithClient wraps an existing object client
func NewWithClient(client ObjectAPI, bucket, prefix string, logger *recruiterErrors.Logger) *Archive {
	return &Archive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}
}

// Enabled reports whether files are actually archived
func (a *Archive) Enabled() bool {
	return a != nil
}

// Key returns the object key for a candidate's résumé
func (a *Archive) Key(positionID, candidateID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "resume"
	}
	key := path.Join(positionID, candidateID, name)
	if a != nil && a.prefix != "" {
		key = path.Join(a.prefix, key)
	}
	return key
}

// Put uploads the file and returns its key
func (a *Archive) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if a == nil {
		return "", nil
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", recruiterErrors.NewNetworkError(recruiterErrors.ErrCodePersistFailed,
			fmt.Sprintf("failed to archive %s", key), err)
	}

	if a.logger != nil {
		a.logger.Debug("Archived resume", "key", key, "bytes", len(data))
	}
	return key, nil
}

// Get downloads an archived file
func (a *Archive) Get(ctx context.Context, key string) (*Object, error) {
	if a == nil || key == "" {
		return nil, recruiterErrors.NewNotFoundError(recruiterErrors.ErrCodeFileNotFound, "no archived resume", nil)
	}

	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, recruiterErrors.NewNetworkError(recruiterErrors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to get object %s", key), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, recruiterErrors.NewIOError(recruiterErrors.ErrCodeFileNotReadable, "failed to read object body", err)
	}

	return &Object{
		Key:         key,
		ContentType: aws.ToString(out.ContentType),
		Data:        data,
	}, nil
}
