package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/apperror"
	"foodgram/internal/shopping"
)

func unit(s string) *string { return &s }

func TestRenderTextFidelity(t *testing.T) {
	items := []shopping.LineItem{
		{Name: "Egg", Amount: 2, MeasurementUnit: unit("pcs")},
		{Name: "Flour", Amount: 300, MeasurementUnit: unit("g")},
	}

	doc, err := Render(items, FormatText)
	require.NoError(t, err)

	assert.Equal(t, "Список ингредиентов:\n1. Egg: 2 pcs\n2. Flour: 300 g\n", string(doc.Data))
	assert.Equal(t, "shopping_cart.txt", doc.Filename)
	assert.Equal(t, "text/plain; charset=utf-8", doc.ContentType)
}

func TestRenderTextKeepsInputOrder(t *testing.T) {
	items := []shopping.LineItem{
		{Name: "Zucchini", Amount: 1, MeasurementUnit: unit("pcs")},
		{Name: "Apple", Amount: 3},
	}

	doc, err := Render(items, FormatText)
	require.NoError(t, err)
	assert.Equal(t, "Список ингредиентов:\n1. Zucchini: 1 pcs\n2. Apple: 3\n", string(doc.Data))
}

func TestRenderTextSeparatesNullAndEmptyUnit(t *testing.T) {
	items := []shopping.LineItem{
		{Name: "Salt", Amount: 1},
		{Name: "Salt", Amount: 2, MeasurementUnit: unit("")},
		{Name: "Salt", Amount: 3, MeasurementUnit: unit("g")},
	}

	doc, err := Render(items, FormatText)
	require.NoError(t, err)
	assert.Equal(t, "Список ингредиентов:\n1. Salt: 1\n2. Salt: 2 \"\"\n3. Salt: 3 g\n", string(doc.Data))
}

func TestRenderTextEmpty(t *testing.T) {
	doc, err := Render([]shopping.LineItem{}, FormatText)
	require.NoError(t, err)
	assert.Equal(t, Header+"\n", string(doc.Data))
}

func TestRenderPDF(t *testing.T) {
	items := []shopping.LineItem{
		{Name: "Мука", Amount: 300, MeasurementUnit: unit("г")},
		{Name: "Egg", Amount: 2, MeasurementUnit: unit("pcs")},
	}

	doc, err := Render(items, FormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))
	assert.Equal(t, "shopping_cart.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
}

func TestBuildPDFPaginates(t *testing.T) {
	items := make([]shopping.LineItem, 0, 120)
	for i := 0; i < 120; i++ {
		items = append(items, shopping.LineItem{Name: fmt.Sprintf("item-%03d", i), Amount: 1})
	}

	pdf := buildPDF(items)
	require.NoError(t, pdf.Error())
	assert.Greater(t, pdf.PageCount(), 1)

	single := buildPDF(items[:3])
	assert.Equal(t, 1, single.PageCount())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "txt", want: FormatText},
		{in: "TEXT", want: FormatText},
		{in: " pdf ", want: FormatPDF},
		{in: "docx", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperror.ErrValidation)
				var appErr *apperror.Error
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, "format", appErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(nil, Format("xml"))
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
