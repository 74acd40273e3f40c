package storage

import (
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/config"
)

// r2Region 是 R2 对 SigV4 要求的固定区域。
const r2Region = "auto"

func r2SettingsFromConfig(cfg config.Config) (s3Settings, error) {
	endpoint := normalizeEndpoint(cfg.StorageR2Endpoint)
	if endpoint == "" {
		accountID := strings.TrimSpace(cfg.StorageR2AccountID)
		if accountID == "" {
			return s3Settings{}, errors.New("storage: missing R2 endpoint or account id")
		}
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}
	region := strings.TrimSpace(cfg.StorageR2Region)
	if region == "" {
		region = r2Region
	}
	settings := s3Settings{
		Backend:         TypeR2,
		Bucket:          strings.TrimSpace(cfg.StorageR2Bucket),
		Prefix:          trimPrefix(cfg.StorageR2Prefix),
		Region:          region,
		Endpoint:        endpoint,
		AccessKeyID:     strings.TrimSpace(cfg.StorageR2AccessKeyID),
		SecretAccessKey: strings.TrimSpace(cfg.StorageR2SecretAccessKey),
		ForcePathStyle:  true,
	}
	return settings, settings.validate()
}

// NewR2Storage 创建 Cloudflare R2 上的媒体存储，走 S3 协议。
func NewR2Storage(cfg config.Config) (Storage, error) {
	settings, err := r2SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return newRemoteS3(settings), nil
}
