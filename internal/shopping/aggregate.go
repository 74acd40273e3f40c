// Package shopping folds the ingredients of every recipe in a user's cart
// into one shopping list.
package shopping

import (
	"context"
	"sort"

	"foodgram/internal/entity/db"
)

// LineItem is one aggregated entry of a shopping list.
type LineItem struct {
	Name            string  `json:"name"`
	Amount          int64   `json:"amount"`
	MeasurementUnit *string `json:"measurement_unit"`
}

// Unit returns the measurement unit or "" when it is null.
func (l LineItem) Unit() string {
	if l.MeasurementUnit == nil {
		return ""
	}
	return *l.MeasurementUnit
}

type groupKey struct {
	name    string
	unit    string
	hasUnit bool
}

// Aggregate groups rows by (name, unit) and sums amounts in a single pass.
// A null unit is its own group and never merges with a named unit.
// The result is sorted by name, then null unit first, then unit.
func Aggregate(rows []db.CartIngredientRow) []LineItem {
	index := make(map[groupKey]int, len(rows))
	items := make([]LineItem, 0, len(rows))

	for _, row := range rows {
		key := groupKey{name: row.Name}
		if row.MeasurementUnit != nil {
			key.unit = *row.MeasurementUnit
			key.hasUnit = true
		}
		if i, ok := index[key]; ok {
			items[i].Amount += row.Amount
			continue
		}
		item := LineItem{Name: row.Name, Amount: row.Amount}
		if key.hasUnit {
			unit := key.unit
			item.MeasurementUnit = &unit
		}
		index[key] = len(items)
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if (a.MeasurementUnit == nil) != (b.MeasurementUnit == nil) {
			return a.MeasurementUnit == nil
		}
		return a.Unit() < b.Unit()
	})
	return items
}

// RowSource yields the joined cart rows of a user.
type RowSource interface {
	ListCartIngredientRows(ctx context.Context, userID uint) ([]db.CartIngredientRow, error)
}

// Service builds shopping lists from a RowSource.
type Service struct {
	source RowSource
}

// NewService 创建购物清单服务，source 通常是 SQL 仓储。
func NewService(source RowSource) *Service {
	return &Service{source: source}
}

// Build loads the user's cart rows with one query and aggregates them.
// An empty cart yields an empty list.
func (s *Service) Build(ctx context.Context, userID uint) ([]LineItem, error) {
	rows, err := s.source.ListCartIngredientRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Aggregate(rows), nil
}
