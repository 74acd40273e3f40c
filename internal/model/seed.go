package model

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"foodgram/internal/apperror"
	"foodgram/internal/entity/db"
)

var defaultTags = []db.Tag{
	{Name: "Завтрак", Slug: "breakfast"},
	{Name: "Обед", Slug: "lunch"},
	{Name: "Ужин", Slug: "dinner"},
}

// SeedDefaultTags ensures the stock tags exist. Existing slugs are left untouched.
func SeedDefaultTags(ctx context.Context, repo Repository) error {
	if repo == nil {
		return nil
	}
	existing, err := repo.ListTags(ctx)
	if err != nil {
		return err
	}
	present := make(map[string]struct{}, len(existing))
	for _, tag := range existing {
		present[tag.Slug] = struct{}{}
	}

	for _, seed := range defaultTags {
		if _, ok := present[seed.Slug]; ok {
			continue
		}
		tag := seed
		if err := repo.CreateTag(ctx, &tag); err != nil && !errors.Is(err, apperror.ErrConflict) {
			return fmt.Errorf("seed tag %s: %w", seed.Slug, err)
		}
		logrus.WithField("slug", seed.Slug).Info("seeded default tag")
	}
	return nil
}

// ParseIngredientsCSV reads "name,measurement_unit" rows. A leading header row
// is skipped and an empty unit is stored as NULL.
func ParseIngredientsCSV(r io.Reader) ([]db.Ingredient, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var items []db.Ingredient
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		name := strings.TrimSpace(record[0])
		var unit string
		if len(record) > 1 {
			unit = strings.TrimSpace(record[1])
		}
		if line == 1 && strings.EqualFold(name, "name") && strings.EqualFold(unit, "measurement_unit") {
			continue
		}

		item := db.Ingredient{Name: name}
		if unit != "" {
			u := unit
			item.MeasurementUnit = &u
		}
		items = append(items, item)
	}
	return items, nil
}

// ImportIngredients parses r and inserts the ingredients that are missing.
// It returns the number of parsed rows and the number created.
func ImportIngredients(ctx context.Context, repo Repository, r io.Reader) (int, int, error) {
	items, err := ParseIngredientsCSV(r)
	if err != nil {
		return 0, 0, err
	}
	created, err := repo.UpsertIngredients(ctx, items)
	if err != nil {
		return len(items), 0, err
	}
	return len(items), created, nil
}
