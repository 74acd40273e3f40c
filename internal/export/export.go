// Package export renders an aggregated shopping list into a downloadable document.
// It is a pure renderer and never touches the store.
package export

import (
	"strconv"
	"strings"

	"foodgram/internal/apperror"
	"foodgram/internal/shopping"
)

// Format selects a renderer.
type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
)

// Header is the first line of every rendered list.
const Header = "Список ингредиентов:"

const baseFilename = "shopping_cart"

// Document is a rendered shopping list ready to be served as an attachment.
type Document struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ParseFormat maps a query value to a Format. Empty selects plain text.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "txt", "text":
		return FormatText, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", apperror.Validation("format", "unsupported export format: "+value)
	}
}

// Render draws items in the given order. Ordinals are 1-based.
func Render(items []shopping.LineItem, format Format) (*Document, error) {
	switch format {
	case FormatText, "":
		return &Document{
			Data:        []byte(renderText(items)),
			Filename:    baseFilename + ".txt",
			ContentType: "text/plain; charset=utf-8",
		}, nil
	case FormatPDF:
		data, err := renderPDF(items)
		if err != nil {
			return nil, err
		}
		return &Document{
			Data:        data,
			Filename:    baseFilename + ".pdf",
			ContentType: "application/pdf",
		}, nil
	default:
		return nil, apperror.Validation("format", "unsupported export format: "+string(format))
	}
}

func renderText(items []shopping.LineItem) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for i, item := range items {
		b.WriteString(formatLine(i+1, item))
		b.WriteByte('\n')
	}
	return b.String()
}

// formatLine returns "<n>. <name>: <amount> <unit>". A null unit is dropped and
// an empty unit is printed as "" so the two groups stay distinguishable.
func formatLine(ordinal int, item shopping.LineItem) string {
	line := strconv.Itoa(ordinal) + ". " + item.Name + ": " + strconv.FormatInt(item.Amount, 10)
	switch {
	case item.MeasurementUnit == nil:
	case *item.MeasurementUnit == "":
		line += ` ""`
	default:
		line += " " + *item.MeasurementUnit
	}
	return line
}
