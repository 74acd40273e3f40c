package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type ossStorage struct {
	bucket *oss.Bucket
	prefix string
}

// NewOSSStorage 创建阿里云 OSS 上的媒体存储。
func NewOSSStorage(cfg config.Config) (Storage, error) {
	endpoint := strings.TrimSpace(cfg.StorageOSSEndpoint)
	if endpoint == "" {
		return nil, errors.New("storage: missing OSS endpoint")
	}
	bucketName := strings.TrimSpace(cfg.StorageOSSBucket)
	if bucketName == "" {
		return nil, errors.New("storage: missing OSS bucket")
	}
	accessKey := strings.TrimSpace(cfg.StorageOSSAccessKeyID)
	secretKey := strings.TrimSpace(cfg.StorageOSSAccessKeySecret)
	if accessKey == "" || secretKey == "" {
		return nil, errors.New("storage: missing OSS credentials")
	}

	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("storage: create OSS client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("storage: open OSS bucket: %w", err)
	}

	return &ossStorage{
		bucket: bucket,
		prefix: trimPrefix(cfg.StorageOSSPrefix),
	}, nil
}

func (s *ossStorage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty payload")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	plan := planObject(s.prefix, data, opts)
	if opts.SkipIfExists {
		exists, err := s.bucket.IsObjectExist(plan.Key, oss.WithContext(ctx))
		if err != nil {
			return "", fmt.Errorf("oss check object: %w", err)
		}
		if exists {
			return plan.Key, nil
		}
	}

	err := s.bucket.PutObject(plan.Key, bytes.NewReader(data),
		oss.WithContext(ctx),
		oss.ContentType(plan.ContentType),
		oss.CacheControl(plan.CacheControl),
	)
	if err != nil {
		return "", fmt.Errorf("oss put object: %w", err)
	}
	return plan.Key, nil
}

func (s *ossStorage) Delete(ctx context.Context, key string) error {
	cleaned, err := remoteKey(s.prefix, key)
	if err != nil {
		return err
	}
	if err := s.bucket.DeleteObject(cleaned, oss.WithContext(ctx)); err != nil {
		return fmt.Errorf("oss delete object: %w", err)
	}
	return nil
}

var _ Storage = (*ossStorage)(nil)
