package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"mime"
	"net/http"
	"path"
	"strings"
)

func sanitizePathSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	builder := strings.Builder{}
	builder.Grow(len(value))
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			builder.WriteByte(ch)
		case ch >= 'A' && ch <= 'Z':
			builder.WriteByte(ch + 32)
		case ch == '-', ch == '_':
			builder.WriteByte(ch)
		}
	}
	return builder.String()
}

func normalizeExtension(ext string) string {
	trimmed := strings.TrimSpace(ext)
	trimmed = strings.TrimPrefix(trimmed, ".")
	if trimmed == "" {
		return "bin"
	}
	return sanitizePathSegment(trimmed)
}

// ContentKey returns the hex sha256 of data, used as a content-addressed base name.
func ContentKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// buildObjectPath lays objects out as <category>/<aa>/<base>.<ext>, sharded by
// the first two characters of the base name.
func buildObjectPath(category, baseName, ext string, data []byte) string {
	category = sanitizePathSegment(category)
	if category == "" {
		category = "misc"
	}
	base := sanitizeFileBase(baseName)
	if base == "" {
		base = ContentKey(data)
	}
	shard := base
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return path.Join(category, shard, base+"."+normalizeExtension(ext))
}

// cleanKey validates a stored key before it is handed to a backend.
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean("/" + key)
	if cleaned == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return strings.TrimPrefix(cleaned, "/"), nil
}

func detectContentType(ext string) string {
	normalized := normalizeExtension(ext)
	typeName := mime.TypeByExtension("." + normalized)
	if typeName == "" {
		return "application/octet-stream"
	}
	return typeName
}

// mediaCacheControl 用于远端对象：已写入的键不会被不同内容覆盖。
const mediaCacheControl = "public, max-age=31536000, immutable"

// objectPlan 是远端后端写入一个对象所需的键与元数据。
type objectPlan struct {
	Key          string
	ContentType  string
	CacheControl string
}

func planObject(prefix string, data []byte, opts SaveOptions) objectPlan {
	key := buildObjectPath(opts.Category, opts.BaseName, opts.Extension, data)
	if p := trimPrefix(prefix); p != "" {
		key = joinPrefix(p, key)
	}
	return objectPlan{
		Key:          key,
		ContentType:  sniffContentType(data, opts.Extension),
		CacheControl: mediaCacheControl,
	}
}

// sniffContentType 优先信任图片字节本身，识别失败时按扩展名推断。
func sniffContentType(data []byte, ext string) string {
	if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	return detectContentType(ext)
}

// remoteKey validates key and requires it to live under the backend prefix.
func remoteKey(prefix, key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if p := trimPrefix(prefix); p != "" && !strings.HasPrefix(cleaned, p+"/") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func joinPrefix(prefix, key string) string {
	cleanPrefix := trimPrefix(prefix)
	if cleanPrefix == "" {
		return strings.TrimLeft(key, "/")
	}
	return path.Join(cleanPrefix, strings.TrimLeft(key, "/"))
}

func trimPrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

func sanitizeFileBase(value string) string {
	replaced := strings.ReplaceAll(strings.TrimSpace(value), " ", "-")
	sanitized := sanitizePathSegment(replaced)
	return strings.Trim(sanitized, "-_")
}
