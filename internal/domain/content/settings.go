package content

import (
	"strings"
	"time"

	"github.com/shopfront/backend/internal/domain/pricing"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SettingsKey is the primary key of the single settings row
const SettingsKey = "default"

// StoreSettings holds store-wide configuration editable from the admin console
type StoreSettings struct {
	Key                   string          `gorm:"type:varchar(20);primaryKey"`
	StoreName             string          `gorm:"type:varchar(100);not null"`
	ContactEmail          string          `gorm:"type:varchar(254)"`
	Currency              string          `gorm:"type:varchar(3);not null"`
	FreeShippingThreshold decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FlatShippingFee       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	UpdatedAt             time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StoreSettings) TableName() string {
	return "store_settings"
}

// NewStoreSettings creates the settings row from configured defaults
func NewStoreSettings(storeName, contactEmail, currency string, freeShippingThreshold, flatShippingFee decimal.Decimal) (*StoreSettings, error) {
	s := &StoreSettings{Key: SettingsKey}
	if err := s.Update(storeName, contactEmail, currency, freeShippingThreshold, flatShippingFee); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces all editable settings
func (s *StoreSettings) Update(storeName, contactEmail, currency string, freeShippingThreshold, flatShippingFee decimal.Decimal) error {
	storeName = strings.TrimSpace(storeName)
	if storeName == "" || len(storeName) > 100 {
		return shared.NewDomainError("INVALID_STORE_NAME", "Store name must be 1 to 100 characters")
	}
	contactEmail = valueobject.NormalizeEmail(contactEmail)
	if contactEmail != "" {
		if err := valueobject.ValidateEmail(contactEmail); err != nil {
			return err
		}
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}
	if freeShippingThreshold.IsNegative() {
		return shared.NewDomainError("INVALID_SHIPPING", "Free shipping threshold cannot be negative")
	}
	if flatShippingFee.IsNegative() {
		return shared.NewDomainError("INVALID_SHIPPING", "Shipping fee cannot be negative")
	}

	s.StoreName = storeName
	s.ContactEmail = contactEmail
	s.Currency = currency
	s.FreeShippingThreshold = freeShippingThreshold
	s.FlatShippingFee = flatShippingFee
	s.UpdatedAt = time.Now()
	return nil
}

// ShippingPolicy returns the checkout shipping rule
func (s *StoreSettings) ShippingPolicy() pricing.ShippingPolicy {
	return pricing.ShippingPolicy{
		FreeShippingThreshold: s.FreeShippingThreshold,
		FlatFee:               s.FlatShippingFee,
	}
}
