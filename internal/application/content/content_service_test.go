package content

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/application/catalog"
	"github.com/shopfront/backend/internal/domain/content"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var defaults = SettingsDefaults{
	StoreName:             "Shopfront",
	ContactEmail:          "hello@shopfront.test",
	Currency:              "usd",
	FreeShippingThreshold: decimal.NewFromInt(75),
	FlatShippingFee:       decimal.RequireFromString("6.95"),
}

func TestSettingsService_DefaultsBeforeFirstSave(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockSettingsRepository)
	repo.On("Get", ctx).Return(nil, shared.ErrNotFound)
	svc := NewSettingsService(repo, defaults)

	settings, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Shopfront", settings.StoreName)
	assert.Equal(t, "USD", settings.Currency)

	policy, err := svc.ShippingPolicy(ctx)
	require.NoError(t, err)
	assert.True(t, policy.FreeShippingThreshold.Equal(decimal.NewFromInt(75)))
	assert.True(t, policy.FlatFee.Equal(decimal.RequireFromString("6.95")))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSettingsService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("saves valid settings", func(t *testing.T) {
		repo := new(testutil.MockSettingsRepository)
		repo.On("Get", ctx).Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.MatchedBy(func(s *content.StoreSettings) bool {
			return s.Key == content.SettingsKey && s.StoreName == "Corner Shop"
		})).Return(nil)
		svc := NewSettingsService(repo, defaults)

		resp, err := svc.Update(ctx, UpdateSettingsRequest{
			StoreName:             "Corner Shop",
			Currency:              "eur",
			FreeShippingThreshold: decimal.NewFromInt(50),
			FlatShippingFee:       decimal.NewFromInt(4),
		})
		require.NoError(t, err)
		assert.Equal(t, "EUR", resp.Currency)
		repo.AssertExpectations(t)
	})

	t.Run("rejects negative fee", func(t *testing.T) {
		repo := new(testutil.MockSettingsRepository)
		existing, err := content.NewStoreSettings("Shop", "", "USD", decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		repo.On("Get", ctx).Return(existing, nil)
		svc := NewSettingsService(repo, defaults)

		_, err = svc.Update(ctx, UpdateSettingsRequest{StoreName: "Shop", Currency: "USD", FlatShippingFee: decimal.NewFromInt(-1)})
		assert.Error(t, err)
		assert.Equal(t, "Shop", existing.StoreName)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(testutil.MockSettingsRepository)
		repo.On("Get", ctx).Return(nil, errors.New("connection refused"))
		svc := NewSettingsService(repo, defaults)

		_, err := svc.ShippingPolicy(ctx)
		assert.EqualError(t, err, "connection refused")
	})
}

// listerFunc adapts a function to ProductLister
type listerFunc func(ctx context.Context, filter catalog.StorefrontFilter) ([]catalog.StorefrontProduct, int64, error)

func (f listerFunc) ListProducts(ctx context.Context, filter catalog.StorefrontFilter) ([]catalog.StorefrontProduct, int64, error) {
	return f(ctx, filter)
}

func TestHomepageService_GetHomepage(t *testing.T) {
	ctx := context.Background()
	settingsRepo := new(testutil.MockSettingsRepository)
	settingsRepo.On("Get", ctx).Return(nil, shared.ErrNotFound)
	banners := new(testutil.MockBannerRepository)
	sections := new(testutil.MockSectionRepository)

	banner, err := content.NewHeroBanner(content.BannerInput{Title: "Summer sale", Active: true})
	require.NoError(t, err)
	featured, err := content.NewHomepageSection(content.SectionInput{Title: "Featured", Kind: content.SectionFeaturedProducts, Active: true})
	require.NoError(t, err)
	arrivals, err := content.NewHomepageSection(content.SectionInput{Title: "New in", Kind: content.SectionNewArrivals, ProductLimit: 4, Active: true})
	require.NoError(t, err)
	shirts, err := content.NewHomepageSection(content.SectionInput{Title: "Shirts", Kind: content.SectionCategory, Category: "Shirts", Active: true})
	require.NoError(t, err)
	broken, err := content.NewHomepageSection(content.SectionInput{Title: "Hats", Kind: content.SectionCategory, Category: "Hats", Active: true})
	require.NoError(t, err)

	banners.On("List", ctx, true).Return([]content.HeroBanner{*banner}, nil)
	sections.On("List", ctx, true).Return([]content.HomepageSection{*featured, *arrivals, *shirts, *broken}, nil)

	var seen []catalog.StorefrontFilter
	lister := listerFunc(func(_ context.Context, filter catalog.StorefrontFilter) ([]catalog.StorefrontProduct, int64, error) {
		seen = append(seen, filter)
		switch filter.Category {
		case "Hats":
			return nil, 0, errors.New("timeout")
		case "Shirts":
			return []catalog.StorefrontProduct{}, 0, nil
		}
		return []catalog.StorefrontProduct{{ID: uuid.New(), Name: "Linen Shirt"}}, 1, nil
	})

	svc := NewHomepageService(banners, sections, lister, NewSettingsService(settingsRepo, defaults))
	page, err := svc.GetHomepage(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Shopfront", page.StoreName)
	require.Len(t, page.Banners, 1)
	assert.Equal(t, "Summer sale", page.Banners[0].Title)

	// empty and failing sections are left out
	require.Len(t, page.Sections, 2)
	assert.Equal(t, "Featured", page.Sections[0].Title)
	assert.Equal(t, "New in", page.Sections[1].Title)

	require.Len(t, seen, 4)
	require.NotNil(t, seen[0].Featured)
	assert.True(t, *seen[0].Featured)
	assert.Equal(t, content.DefaultProductLimit, seen[0].PageSize)
	assert.Equal(t, "newest", seen[1].Sort)
	assert.Equal(t, 4, seen[1].PageSize)
	assert.Equal(t, "Shirts", seen[2].Category)
}

func TestHomepageService_Banners(t *testing.T) {
	ctx := context.Background()
	banners := new(testutil.MockBannerRepository)
	svc := NewHomepageService(banners, new(testutil.MockSectionRepository), nil, nil)

	banners.On("Save", ctx, mock.AnythingOfType("*content.HeroBanner")).Return(nil)
	created, err := svc.CreateBanner(ctx, BannerRequest{Title: "Hello", SortOrder: 2})
	require.NoError(t, err)
	assert.True(t, created.Active, "banners default to active")

	existing, err := content.NewHeroBanner(content.BannerInput{Title: "Old", Active: true})
	require.NoError(t, err)
	banners.On("FindByID", ctx, existing.ID).Return(existing, nil)
	inactive := false
	updated, err := svc.UpdateBanner(ctx, existing.ID, BannerRequest{Title: "New", Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.False(t, updated.Active)

	missing := uuid.New()
	banners.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteBanner(ctx, missing), shared.ErrNotFound)
}

func TestHomepageService_Sections(t *testing.T) {
	ctx := context.Background()
	sections := new(testutil.MockSectionRepository)
	svc := NewHomepageService(new(testutil.MockBannerRepository), sections, nil, nil)

	_, err := svc.CreateSection(ctx, SectionRequest{Title: "By category", Kind: "CATEGORY"})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)

	sections.On("Save", ctx, mock.Anything).Return(nil)
	created, err := svc.CreateSection(ctx, SectionRequest{Title: "Featured", Kind: "FEATURED_PRODUCTS", Category: "ignored"})
	require.NoError(t, err)
	assert.Empty(t, created.Category)
	assert.Equal(t, content.DefaultProductLimit, created.ProductLimit)

	existing, err := content.NewHomepageSection(content.SectionInput{Title: "Old", Kind: content.SectionNewArrivals, Active: true})
	require.NoError(t, err)
	sections.On("FindByID", ctx, existing.ID).Return(existing, nil)
	sections.On("Delete", ctx, existing.ID).Return(nil)
	require.NoError(t, svc.DeleteSection(ctx, existing.ID))
	sections.AssertCalled(t, "Delete", ctx, existing.ID)
}
