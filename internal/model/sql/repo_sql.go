package sql

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"foodgram/internal/apperror"
	"foodgram/internal/entity/db"
)

var errNotInitialised = errors.New("repository not initialised")

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates or updates every table the repository uses.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&db.User{},
		&db.Tag{},
		&db.Ingredient{},
		&db.Recipe{},
		&db.RecipeIngredient{},
		&db.RecipeTag{},
		&db.Favorite{},
		&db.ShoppingCartEntry{},
		&db.Subscription{},
	)
}

// translateError maps gorm and driver errors onto apperror kinds.
// what names the entity in the resulting message.
func translateError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.Wrap(apperror.KindNotFound, what+" not found", err)
	}
	if isUniqueViolation(err) {
		return apperror.Wrap(apperror.KindConflict, what+" already exists", err)
	}
	return err
}

// isUniqueViolation catches duplicates from dialects without an error translator.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "Duplicate entry")
}

func notFound(what string, id uint) error {
	return apperror.NotFound(fmt.Sprintf("%s %d not found", what, id))
}
