package inventory

import "github.com/shopfront/backend/internal/domain/shared"

// StockStatus is the derived health of a variant's stock level
type StockStatus string

const (
	StockStatusOK  StockStatus = "ok"
	StockStatusLow StockStatus = "low"
	StockStatusOut StockStatus = "out"
)

// DeriveStockStatus maps a stock level to its status:
// out when nothing is left, low when at or below the minimum, ok otherwise.
func DeriveStockStatus(stock, minStock int) StockStatus {
	switch {
	case stock <= 0:
		return StockStatusOut
	case stock <= minStock:
		return StockStatusLow
	default:
		return StockStatusOK
	}
}

// IsValid reports whether s is a known status
func (s StockStatus) IsValid() bool {
	switch s {
	case StockStatusOK, StockStatusLow, StockStatusOut:
		return true
	}
	return false
}

// NeedsAttention reports whether the status should alert an operator
func (s StockStatus) NeedsAttention() bool {
	return s == StockStatusLow || s == StockStatusOut
}

// ParseStockStatus parses a status filter value
func ParseStockStatus(s string) (StockStatus, error) {
	status := StockStatus(s)
	if !status.IsValid() {
		return "", shared.NewDomainError("INVALID_STOCK_STATUS", "Stock status must be one of ok, low, out")
	}
	return status, nil
}

// ValidateLevels checks a stock/min-stock pair
func ValidateLevels(stock, minStock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	if minStock < 0 {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}
	return nil
}
