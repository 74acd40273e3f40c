package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/config"
)

const (
	// TypeLocal 表示本地文件系统存储。
	TypeLocal = "local"
	// TypeS3 表示 Amazon S3 或兼容的存储后端。
	TypeS3 = "s3"
	// TypeOSS 表示阿里云 OSS 存储。
	TypeOSS = "oss"
	// TypeCOS 表示腾讯云 COS 存储。
	TypeCOS = "cos"
	// TypeR2 表示 Cloudflare R2 存储。
	TypeR2 = "r2"
)

// Categories used by the media service.
const (
	CategoryRecipes = "recipes"
	CategoryAvatars = "avatars"
)

// ErrInvalidKey is returned when a key escapes the storage root or is empty.
var ErrInvalidKey = errors.New("storage: invalid object key")

// SaveOptions 控制存储后端如何持久化文件。
//
// Category 决定顶层目录，Extension 为不含前导点的扩展名。
// BaseName 为空时使用内容哈希，SkipIfExists 让相同内容只写一次。
type SaveOptions struct {
	Category     string
	Extension    string
	BaseName     string
	SkipIfExists bool
}

// Storage persists media blobs (recipe images, avatars) and returns a
// backend-relative key that is stored on the owning row.
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// LocalBaseDirProvider 由暴露可通过 HTTP 直接提供服务的本地目录的存储驱动实现。
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStorage 根据配置实例化存储后端。
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

// URLBuilder turns stored keys into public URLs.
type URLBuilder struct {
	base string
}

// NewURLBuilder 创建 URL 构造器，base 可以是相对路径（/media）或 CDN 域名。
func NewURLBuilder(base string) URLBuilder {
	return URLBuilder{base: strings.TrimRight(strings.TrimSpace(base), "/")}
}

// URL returns the public URL for key, or "" when key is empty.
// Keys that are already absolute URLs are returned unchanged.
func (b URLBuilder) URL(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	return b.base + "/" + strings.TrimLeft(key, "/")
}
