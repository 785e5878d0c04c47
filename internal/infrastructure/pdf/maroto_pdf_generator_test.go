package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/ports"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":           "0,00",
		"45.5":        "45,50",
		"1000":        "1 000,00",
		"25000":       "25 000,00",
		"1234567.891": "1 234 567,89",
		"-1234.5":     "-1 234,50",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateInvoicePDF(t *testing.T) {
	inv := &entity.Invoice{
		ID: "abc", Number: "F-20240301-abc", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status: entity.InvoicePartial, TotalAmount: decimal.NewFromInt(291), RemainingBalance: decimal.NewFromInt(91),
		Notes: "Garantía 3 meses",
	}
	line := &entity.InvoiceLine{ID: "l1", InvoiceID: "abc", PricedLine: entity.PricedLine{
		Quantity: 3, StandardPrice: decimal.NewFromInt(100), DiscountPercent: decimal.NewFromInt(3),
		FinalUnitPrice: decimal.NewFromInt(97), LineTotal: decimal.NewFromInt(291),
	}}
	gen := NewMarotoPDFGenerator(ShopInfo{Name: "Taller Central", ICE: "001234567000089"})

	out, err := gen.GenerateInvoicePDF(context.Background(), ports.InvoiceDocument{
		Invoice: inv, PayerName: "Ana Pérez", PayerInfo: "ana@example.com",
		Lines: []ports.InvoiceDocumentLine{{Line: line, ItemName: "Pastillas de freno"}},
	})
	require.NoError(t, err)
	require.Greater(t, len(out), 4)
	assert.Equal(t, "%PDF", string(out[:4]))
}
