package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func TestPriceLine_ConDescuento(t *testing.T) {
	line, err := PriceLine(entity.ProductRef("p1"), dec("100"), 3, ptr(dec("10")))
	require.NoError(t, err)

	assert.True(t, dec("90.00").Equal(line.FinalUnitPrice))
	assert.True(t, dec("270.00").Equal(line.LineTotal))
	assert.True(t, dec("100").Equal(line.StandardPrice))
	assert.Equal(t, 3, line.Quantity)
}

func TestPriceLine_DescuentoAusenteONoPositivo(t *testing.T) {
	for _, d := range []*decimal.Decimal{nil, ptr(decimal.Zero), ptr(dec("-5"))} {
		line, err := PriceLine(entity.ServiceRef("s1"), dec("45.50"), 2, d)
		require.NoError(t, err)
		assert.True(t, line.DiscountPercent.IsZero())
		assert.True(t, dec("45.50").Equal(line.FinalUnitPrice))
		assert.True(t, dec("91.00").Equal(line.LineTotal))
	}
}

func TestPriceLine_RedondeoHalfUp(t *testing.T) {
	// 19.99 × (1 − 0.125) = 17.49125 → 17.49 ; 17.49 × 3 = 52.47
	line, err := PriceLine(entity.ProductRef("p1"), dec("19.99"), 3, ptr(dec("12.5")))
	require.NoError(t, err)
	assert.Equal(t, "17.49", line.FinalUnitPrice.StringFixed(2))
	assert.Equal(t, "52.47", line.LineTotal.StringFixed(2))

	// 10.01 × (1 − 0.5) = 5.005 → 5.01
	line, err = PriceLine(entity.ProductRef("p1"), dec("10.01"), 1, ptr(dec("50")))
	require.NoError(t, err)
	assert.Equal(t, "5.01", line.FinalUnitPrice.StringFixed(2))
}

func TestPriceLine_TasaDeDescuentoAEscala4(t *testing.T) {
	// 33.33333% → 0.3333 ; 300 × 0.6667 = 200.01
	line, err := PriceLine(entity.ProductRef("p1"), dec("300"), 1, ptr(dec("33.33333")))
	require.NoError(t, err)
	assert.Equal(t, "200.01", line.FinalUnitPrice.StringFixed(2))
}

func TestPriceLine_EntradasInvalidas(t *testing.T) {
	_, err := PriceLine(entity.ProductRef("p1"), dec("10"), 0, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = PriceLine(entity.ProductRef("p1"), dec("10"), 1, ptr(dec("100.01")))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = PriceLine(entity.ProductRef("p1"), dec("-1"), 1, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestResolve(t *testing.T) {
	end := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	entry := &entity.PriceHistoryEntry{Price: dec("100"), EndDate: &end}

	assert.True(t, dec("100").Equal(Resolve(entry, dec("80"))))
	assert.True(t, dec("80").Equal(Resolve(nil, dec("80"))))
	assert.True(t, Resolve(nil, decimal.Decimal{}).IsZero())
}

func TestSummarize(t *testing.T) {
	p1, _ := PriceLine(entity.ProductRef("p1"), dec("100"), 3, ptr(dec("10"))) // 270
	p2, _ := PriceLine(entity.ProductRef("p2"), dec("12.50"), 2, nil)          // 25
	s1, _ := PriceLine(entity.ServiceRef("s1"), dec("60"), 1, nil)             // 60

	got := Summarize([]entity.PricedLine{p1, p2, s1})

	assert.Equal(t, "60.00", got.ServicesSubtotal.StringFixed(2))
	assert.Equal(t, "325.00", got.ProductsBeforeDiscount.StringFixed(2))
	assert.Equal(t, "295.00", got.ProductsAfterDiscount.StringFixed(2))
	assert.Equal(t, "30.00", got.ProductsDiscountTotal.StringFixed(2))
	assert.Equal(t, "355.00", got.GrandTotal.StringFixed(2))
	assert.True(t, got.GrandTotal.Equal(Sum([]entity.PricedLine{p1, p2, s1})))
}

func TestSum_Vacio(t *testing.T) {
	assert.True(t, Sum(nil).IsZero())
	assert.True(t, Summarize(nil).GrandTotal.IsZero())
}
