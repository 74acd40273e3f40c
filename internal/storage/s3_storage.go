package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// s3Settings 描述一个 S3 协议端点，AWS S3 与 Cloudflare R2 共用。
type s3Settings struct {
	Backend         string
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	ForcePathStyle  bool
}

func s3SettingsFromConfig(cfg config.Config) (s3Settings, error) {
	settings := s3Settings{
		Backend:         TypeS3,
		Bucket:          strings.TrimSpace(cfg.StorageS3Bucket),
		Prefix:          trimPrefix(cfg.StorageS3Prefix),
		Region:          strings.TrimSpace(cfg.StorageS3Region),
		Endpoint:        normalizeEndpoint(cfg.StorageS3Endpoint),
		AccessKeyID:     strings.TrimSpace(cfg.StorageS3AccessKeyID),
		SecretAccessKey: strings.TrimSpace(cfg.StorageS3SecretAccessKey),
		SessionToken:    strings.TrimSpace(cfg.StorageS3SessionToken),
		ForcePathStyle:  cfg.StorageS3ForcePathStyle,
	}
	if settings.Region == "" {
		return s3Settings{}, errors.New("storage: missing S3 region")
	}
	return settings, settings.validate()
}

func (s s3Settings) validate() error {
	name := strings.ToUpper(s.Backend)
	if s.Bucket == "" {
		return fmt.Errorf("storage: missing %s bucket", name)
	}
	if s.AccessKeyID == "" || s.SecretAccessKey == "" {
		return fmt.Errorf("storage: missing %s credentials", name)
	}
	return nil
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ""
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	return strings.TrimRight(endpoint, "/")
}

// NewS3Storage 创建 AWS S3（或兼容服务）上的媒体存储。
func NewS3Storage(cfg config.Config) (Storage, error) {
	settings, err := s3SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return newRemoteS3(settings), nil
}

func newRemoteS3(settings s3Settings) *remoteS3Storage {
	awsCfg := aws.Config{
		Region: settings.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, settings.SessionToken),
		),
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = settings.ForcePathStyle
		if settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(settings.Endpoint)
		}
	})
	return &remoteS3Storage{
		client:   client,
		settings: settings,
	}
}

type remoteS3Storage struct {
	client   *s3.Client
	settings s3Settings
}

func (s *remoteS3Storage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty payload")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	plan := planObject(s.settings.Prefix, data, opts)
	if opts.SkipIfExists {
		_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.settings.Bucket),
			Key:    aws.String(plan.Key),
		})
		if err == nil {
			return plan.Key, nil
		}
		if !isS3NotFound(err) {
			return "", fmt.Errorf("%s head object: %w", s.settings.Backend, err)
		}
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.settings.Bucket),
		Key:           aws.String(plan.Key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(plan.ContentType),
		CacheControl:  aws.String(plan.CacheControl),
	})
	if err != nil {
		return "", fmt.Errorf("%s put object: %w", s.settings.Backend, err)
	}
	return plan.Key, nil
}

// Delete removes the object. S3 reports success for missing keys already.
func (s *remoteS3Storage) Delete(ctx context.Context, key string) error {
	cleaned, err := remoteKey(s.settings.Prefix, key)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.settings.Bucket),
		Key:    aws.String(cleaned),
	})
	if err != nil && !isS3NotFound(err) {
		return fmt.Errorf("%s delete object: %w", s.settings.Backend, err)
	}
	return nil
}

var _ Storage = (*remoteS3Storage)(nil)

func isS3NotFound(err error) bool {
	if err == nil {
		return false
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch strings.ToLower(apiErr.ErrorCode()) {
		case "notfound", "nosuchkey", "404":
			return true
		}
	}
	return false
}
