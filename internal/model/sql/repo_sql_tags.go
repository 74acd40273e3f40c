package sql

import (
	"context"
	"fmt"
	"strings"

	"foodgram/internal/entity/db"
)

// ListTags returns all tags ordered by name.
func (r *GormRepository) ListTags(ctx context.Context) ([]db.Tag, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	var tags []db.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetTag loads a tag by id.
func (r *GormRepository) GetTag(ctx context.Context, id uint) (*db.Tag, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	var tag db.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translateError(err, "tag")
	}
	return &tag, nil
}

// CreateTag inserts a new tag. A duplicate slug is a conflict.
func (r *GormRepository) CreateTag(ctx context.Context, tag *db.Tag) error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	if tag == nil {
		return fmt.Errorf("tag is nil")
	}
	tag.Slug = strings.TrimSpace(tag.Slug)
	return translateError(r.db.WithContext(ctx).Create(tag).Error, "tag")
}

// FindTagsByIDs returns the tags that exist among ids.
func (r *GormRepository) FindTagsByIDs(ctx context.Context, ids []uint) ([]db.Tag, error) {
	if r == nil || r.db == nil {
		return nil, errNotInitialised
	}
	if len(ids) == 0 {
		return []db.Tag{}, nil
	}
	var tags []db.Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
