package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/content"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSettingsRepository(newTestDB(t))

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	settings, err := content.NewStoreSettings("Corner Shop", "hello@corner.example", "USD", dec("75"), dec("4.95"))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, settings))

	require.NoError(t, settings.Update("Corner Shop", "hello@corner.example", "EUR", dec("100"), dec("6")))
	require.NoError(t, repo.Save(ctx, settings))

	loaded, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, content.SettingsKey, loaded.Key)
	assert.Equal(t, "EUR", loaded.Currency)
	assert.True(t, loaded.FreeShippingThreshold.Equal(dec("100")))
	assert.True(t, loaded.FlatShippingFee.Equal(dec("6")))
}

func TestGormBannerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormBannerRepository(newTestDB(t))

	second, err := content.NewHeroBanner(content.BannerInput{Title: "Summer sale", SortOrder: 2, Active: true})
	require.NoError(t, err)
	first, err := content.NewHeroBanner(content.BannerInput{Title: "New season", SortOrder: 1, Active: true})
	require.NoError(t, err)
	hidden, err := content.NewHeroBanner(content.BannerInput{Title: "Draft", SortOrder: 0, Active: false})
	require.NoError(t, err)
	for _, b := range []*content.HeroBanner{second, first, hidden} {
		require.NoError(t, repo.Save(ctx, b))
	}

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, hidden.ID, all[0].ID)

	visible, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, first.ID, visible[0].ID)
	assert.Equal(t, second.ID, visible[1].ID)

	found, err := repo.FindByID(ctx, hidden.ID)
	require.NoError(t, err)
	assert.False(t, found.Active)

	require.NoError(t, repo.Delete(ctx, hidden.ID))
	_, err = repo.FindByID(ctx, hidden.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
}

func TestGormSectionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSectionRepository(newTestDB(t))

	featured, err := content.NewHomepageSection(content.SectionInput{
		Title: "Staff picks", Kind: content.SectionFeaturedProducts, SortOrder: 1, Active: true,
	})
	require.NoError(t, err)
	category, err := content.NewHomepageSection(content.SectionInput{
		Title: "Shoes", Kind: content.SectionCategory, Category: "shoes", ProductLimit: 4, SortOrder: 2, Active: false,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, featured))
	require.NoError(t, repo.Save(ctx, category))

	visible, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, content.DefaultProductLimit, visible[0].ProductLimit)

	found, err := repo.FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "shoes", found.Category)
	assert.Equal(t, 4, found.ProductLimit)

	require.NoError(t, repo.Delete(ctx, featured.ID))
	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
