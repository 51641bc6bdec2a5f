package content

import (
	"context"
	"errors"

	"github.com/shopfront/backend/internal/domain/content"
	"github.com/shopfront/backend/internal/domain/pricing"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SettingsDefaults are used until the settings row has been saved once
type SettingsDefaults struct {
	StoreName             string
	ContactEmail          string
	Currency              string
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

// SettingsService reads and updates the store settings
type SettingsService struct {
	repo     content.SettingsRepository
	defaults SettingsDefaults
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo content.SettingsRepository, defaults SettingsDefaults) *SettingsService {
	return &SettingsService{repo: repo, defaults: defaults}
}

// Get returns the admin view of the settings
func (s *SettingsService) Get(ctx context.Context) (*SettingsResponse, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	response := ToSettingsResponse(settings)
	return &response, nil
}

// GetPublic returns the shopper view of the settings
func (s *SettingsService) GetPublic(ctx context.Context) (*PublicSettingsResponse, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	response := ToPublicSettingsResponse(settings)
	return &response, nil
}

// Update replaces the settings
func (s *SettingsService) Update(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := settings.Update(req.StoreName, req.ContactEmail, req.Currency, req.FreeShippingThreshold, req.FlatShippingFee); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}
	response := ToSettingsResponse(settings)
	return &response, nil
}

// ShippingPolicy returns the shipping rule used at checkout
func (s *SettingsService) ShippingPolicy(ctx context.Context) (pricing.ShippingPolicy, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return pricing.ShippingPolicy{}, err
	}
	return settings.ShippingPolicy(), nil
}

func (s *SettingsService) load(ctx context.Context) (*content.StoreSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return content.NewStoreSettings(
		s.defaults.StoreName,
		s.defaults.ContactEmail,
		s.defaults.Currency,
		s.defaults.FreeShippingThreshold,
		s.defaults.FlatShippingFee,
	)
}
