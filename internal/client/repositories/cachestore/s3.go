package cachestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/dmitrijs2005/ghbrowse/internal/client/models"
	"github.com/google/uuid"
)

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// DefaultS3Key is the object key used when S3Options.Key is empty.
const DefaultS3Key = "ghbrowse/users-cache.json"

// S3Options configures an S3-compatible backend (AWS or MinIO).
type S3Options struct {
	Bucket       string
	Key          string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// s3Object is the stored JSON document.
type s3Object struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Users     []models.LocalUser `json:"users"`
}

// S3Store keeps the collection as one JSON object. PUT replaces an object
// atomically, so Insert needs no transaction.
type S3Store struct {
	api    S3API
	bucket string
	key    string
}

func NewS3Store(api S3API, bucket, key string) *S3Store {
	return &S3Store{api: api, bucket: bucket, key: key}
}

var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) S3API {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// NewS3Client builds an S3 client from opts. Static credentials are used when
// an access key is given; otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, opts S3Options) (S3API, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (s *S3Store) Retrieve(ctx context.Context) (*models.CachedUsers, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("s3 store: get %s/%s: %w: %w", s.bucket, s.key, ErrStorageUnavailable, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 store: read %s/%s: %w: %w", s.bucket, s.key, ErrStorageUnavailable, err)
	}

	var obj s3Object
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("s3 store: decode %s/%s: %w: %w", s.bucket, s.key, ErrCorrupt, err)
	}
	if obj.Timestamp.IsZero() {
		return nil, fmt.Errorf("s3 store: %s/%s has no timestamp: %w", s.bucket, s.key, ErrCorrupt)
	}
	if obj.Users == nil {
		obj.Users = []models.LocalUser{}
	}
	return &models.CachedUsers{Users: obj.Users, Timestamp: obj.Timestamp}, nil
}

func (s *S3Store) Insert(ctx context.Context, users []models.LocalUser, timestamp time.Time) error {
	body, err := json.Marshal(s3Object{ID: uuid.NewString(), Timestamp: timestamp, Users: users})
	if err != nil {
		return fmt.Errorf("s3 store: encode: %w", err)
	}

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 store: put %s/%s: %w: %w", s.bucket, s.key, ErrStorageUnavailable, err)
	}
	return nil
}

func (s *S3Store) DeleteCachedUsers(ctx context.Context) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("s3 store: delete %s/%s: %w: %w", s.bucket, s.key, ErrStorageUnavailable, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
