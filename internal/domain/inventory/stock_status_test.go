package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStockStatus(t *testing.T) {
	tests := []struct {
		name     string
		stock    int
		minStock int
		want     StockStatus
	}{
		{"zero stock is out", 0, 5, StockStatusOut},
		{"zero stock with zero minimum is out", 0, 0, StockStatusOut},
		{"stock equal to minimum is low", 5, 5, StockStatusLow},
		{"stock below minimum is low", 1, 5, StockStatusLow},
		{"stock above minimum is ok", 6, 5, StockStatusOK},
		{"positive stock with zero minimum is ok", 1, 0, StockStatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStockStatus(tt.stock, tt.minStock))
		})
	}
}

func TestDeriveStockStatus_Exhaustive(t *testing.T) {
	for stock := 0; stock <= 20; stock++ {
		for minStock := 0; minStock <= 20; minStock++ {
			got := DeriveStockStatus(stock, minStock)
			assert.Equal(t, stock == 0, got == StockStatusOut, "stock=%d min=%d", stock, minStock)
			assert.Equal(t, stock > 0 && stock <= minStock, got == StockStatusLow, "stock=%d min=%d", stock, minStock)
		}
	}
}

func TestParseStockStatus(t *testing.T) {
	s, err := ParseStockStatus("low")
	require.NoError(t, err)
	assert.Equal(t, StockStatusLow, s)

	_, err = ParseStockStatus("LOW")
	assert.Error(t, err)
}

func TestValidateLevels(t *testing.T) {
	assert.NoError(t, ValidateLevels(0, 0))
	assert.Error(t, ValidateLevels(-1, 0))
	assert.Error(t, ValidateLevels(1, -1))
}

func TestStatusChangeEvent(t *testing.T) {
	item := &Item{VariantID: uuid.New(), SKU: "TEE-M", Stock: 2, MinStock: 3}

	event := StatusChangeEvent(item, StockStatusOK, "checkout")
	require.NotNil(t, event)
	assert.Equal(t, StockStatusOK, event.PreviousStatus)
	assert.Equal(t, StockStatusLow, event.Status)
	assert.Equal(t, EventTypeStockLevelChanged, event.EventType())
	assert.Equal(t, item.VariantID, event.AggregateID())

	assert.Nil(t, StatusChangeEvent(item, StockStatusLow, "checkout"))
}

func TestSummary_NeedsAttention(t *testing.T) {
	s := Summary{TotalVariants: 10, OK: 6, Low: 3, Out: 1}
	assert.Equal(t, int64(4), s.NeedsAttention())
}
