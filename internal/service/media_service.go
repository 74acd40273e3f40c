package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"foodgram/internal/apperror"
	"foodgram/internal/entity/converter"
	"foodgram/internal/storage"
	"foodgram/internal/utils"
)

// MediaService 负责食谱图片与头像的存取
type MediaService struct {
	storage storage.Storage
	urls    storage.URLBuilder
}

// NewMediaService 创建媒体服务实例
func NewMediaService(store storage.Storage, urls storage.URLBuilder) *MediaService {
	return &MediaService{storage: store, urls: urls}
}

// SaveImage decodes a base64 or data URL image and stores it under category
// with a random name. Undecodable payloads are reported as a validation
// failure on field.
func (s *MediaService) SaveImage(ctx context.Context, category, field, payload string) (string, error) {
	data, ext, err := utils.DecodeImagePayload(payload)
	if err != nil {
		msg := "must be a base64 encoded png, jpeg, gif or webp image"
		if errors.Is(err, utils.ErrImageTooLarge) {
			msg = "image is too large"
		}
		return "", apperror.Validation(field, msg)
	}
	if s == nil || s.storage == nil {
		return "", errors.New("media storage is not configured")
	}
	key, err := s.storage.Save(ctx, data, storage.SaveOptions{
		Category:  category,
		Extension: ext,
		BaseName:  uuid.NewString(),
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// Remove deletes a stored object. Failures are logged, not returned.
func (s *MediaService) Remove(ctx context.Context, key string) {
	if s == nil || s.storage == nil || key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("failed to delete stored media")
	}
}

// URLFunc exposes the public URL builder to converters.
func (s *MediaService) URLFunc() converter.URLFunc {
	if s == nil {
		return nil
	}
	return s.urls.URL
}
