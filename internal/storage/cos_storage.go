package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"foodgram/internal/config"

	"github.com/tencentyun/cos-go-sdk-v5"
)

type cosStorage struct {
	client *cos.Client
	prefix string
}

// NewCOSStorage 创建腾讯云 COS 上的媒体存储，BucketURL 形如 https://<bucket>.cos.<region>.myqcloud.com。
func NewCOSStorage(cfg config.Config) (Storage, error) {
	baseURL := strings.TrimSpace(cfg.StorageCOSBucketURL)
	if baseURL == "" {
		return nil, errors.New("storage: missing COS bucket URL")
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("storage: parse COS bucket URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("storage: COS bucket URL must be absolute: %s", baseURL)
	}

	secretID := strings.TrimSpace(cfg.StorageCOSSecretID)
	secretKey := strings.TrimSpace(cfg.StorageCOSSecretKey)
	if secretID == "" || secretKey == "" {
		return nil, errors.New("storage: missing COS credentials")
	}

	transport := &cos.AuthorizationTransport{
		SecretID:  secretID,
		SecretKey: secretKey,
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: parsedURL}, &http.Client{Transport: transport})

	return &cosStorage{
		client: client,
		prefix: trimPrefix(cfg.StorageCOSPrefix),
	}, nil
}

func (s *cosStorage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty payload")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	plan := planObject(s.prefix, data, opts)
	if opts.SkipIfExists {
		resp, err := s.client.Object.Head(ctx, plan.Key, nil)
		closeCOSBody(resp)
		if err == nil {
			return plan.Key, nil
		}
		if !cos.IsNotFoundError(err) {
			return "", fmt.Errorf("cos head object: %w", err)
		}
	}

	resp, err := s.client.Object.Put(ctx, plan.Key, bytes.NewReader(data), &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType:  plan.ContentType,
			CacheControl: plan.CacheControl,
		},
	})
	closeCOSBody(resp)
	if err != nil {
		return "", fmt.Errorf("cos put object: %w", err)
	}
	return plan.Key, nil
}

func (s *cosStorage) Delete(ctx context.Context, key string) error {
	cleaned, err := remoteKey(s.prefix, key)
	if err != nil {
		return err
	}
	resp, err := s.client.Object.Delete(ctx, cleaned)
	closeCOSBody(resp)
	if err != nil && !cos.IsNotFoundError(err) {
		return fmt.Errorf("cos delete object: %w", err)
	}
	return nil
}

func closeCOSBody(resp *cos.Response) {
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
}

var _ Storage = (*cosStorage)(nil)
