package content

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/application/catalog"
	"github.com/shopfront/backend/internal/domain/content"
	"go.uber.org/zap"
)

// ProductLister lists storefront products. Implemented by
// catalog.StorefrontService.
type ProductLister interface {
	ListProducts(ctx context.Context, filter catalog.StorefrontFilter) ([]catalog.StorefrontProduct, int64, error)
}

// sectionSorts maps section kinds to storefront sort keys
var sectionSorts = map[content.SectionKind]string{
	content.SectionFeaturedProducts: "featured",
	content.SectionNewArrivals:      "newest",
	content.SectionCategory:         "featured",
}

// HomepageService manages banners and sections and assembles the homepage
type HomepageService struct {
	bannerRepo  content.BannerRepository
	sectionRepo content.SectionRepository
	products    ProductLister
	settings    *SettingsService
	logger      *zap.Logger
}

// NewHomepageService creates a new HomepageService
func NewHomepageService(
	bannerRepo content.BannerRepository,
	sectionRepo content.SectionRepository,
	products ProductLister,
	settings *SettingsService,
) *HomepageService {
	return &HomepageService{
		bannerRepo:  bannerRepo,
		sectionRepo: sectionRepo,
		products:    products,
		settings:    settings,
		logger:      zap.NewNop(),
	}
}

// WithLogger sets the logger
func (s *HomepageService) WithLogger(logger *zap.Logger) *HomepageService {
	s.logger = logger
	return s
}

// GetHomepage returns active banners and active sections resolved to
// their products, each ordered by sort order. A section whose products
// cannot be loaded is dropped rather than failing the page.
func (s *HomepageService) GetHomepage(ctx context.Context) (*HomepageResponse, error) {
	settings, err := s.settings.GetPublic(ctx)
	if err != nil {
		return nil, err
	}
	banners, err := s.bannerRepo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	sections, err := s.sectionRepo.List(ctx, true)
	if err != nil {
		return nil, err
	}

	response := &HomepageResponse{
		StoreName: settings.StoreName,
		Banners:   ToBannerResponses(banners),
		Sections:  make([]HomepageSectionResponse, 0, len(sections)),
	}
	for i := range sections {
		section := &sections[i]
		products, err := s.resolve(ctx, section)
		if err != nil {
			s.logger.Warn("failed to resolve homepage section",
				zap.String("section_id", section.ID.String()),
				zap.String("kind", string(section.Kind)),
				zap.Error(err))
			continue
		}
		if len(products) == 0 {
			continue
		}
		response.Sections = append(response.Sections, HomepageSectionResponse{
			ID:       section.ID,
			Title:    section.Title,
			Kind:     string(section.Kind),
			Category: section.Category,
			Products: products,
		})
	}
	return response, nil
}

func (s *HomepageService) resolve(ctx context.Context, section *content.HomepageSection) ([]catalog.StorefrontProduct, error) {
	filter := catalog.StorefrontFilter{
		Page:     1,
		PageSize: section.ProductLimit,
		Sort:     sectionSorts[section.Kind],
	}
	switch section.Kind {
	case content.SectionFeaturedProducts:
		featured := true
		filter.Featured = &featured
	case content.SectionCategory:
		filter.Category = section.Category
	}
	products, _, err := s.products.ListProducts(ctx, filter)
	return products, err
}

// ListBanners returns all banners
func (s *HomepageService) ListBanners(ctx context.Context) ([]BannerResponse, error) {
	banners, err := s.bannerRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	return ToBannerResponses(banners), nil
}

// CreateBanner creates a banner
func (s *HomepageService) CreateBanner(ctx context.Context, req BannerRequest) (*BannerResponse, error) {
	banner, err := content.NewHeroBanner(req.input())
	if err != nil {
		return nil, err
	}
	if err := s.bannerRepo.Save(ctx, banner); err != nil {
		return nil, err
	}
	response := ToBannerResponse(banner)
	return &response, nil
}

// UpdateBanner replaces a banner
func (s *HomepageService) UpdateBanner(ctx context.Context, id uuid.UUID, req BannerRequest) (*BannerResponse, error) {
	banner, err := s.bannerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := banner.Update(req.input()); err != nil {
		return nil, err
	}
	if err := s.bannerRepo.Save(ctx, banner); err != nil {
		return nil, err
	}
	response := ToBannerResponse(banner)
	return &response, nil
}

// DeleteBanner removes a banner
func (s *HomepageService) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	if _, err := s.bannerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.bannerRepo.Delete(ctx, id)
}

// ListSections returns all sections
func (s *HomepageService) ListSections(ctx context.Context) ([]SectionResponse, error) {
	sections, err := s.sectionRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	return ToSectionResponses(sections), nil
}

// CreateSection creates a section
func (s *HomepageService) CreateSection(ctx context.Context, req SectionRequest) (*SectionResponse, error) {
	section, err := content.NewHomepageSection(req.input())
	if err != nil {
		return nil, err
	}
	if err := s.sectionRepo.Save(ctx, section); err != nil {
		return nil, err
	}
	response := ToSectionResponse(section)
	return &response, nil
}

// UpdateSection replaces a section
func (s *HomepageService) UpdateSection(ctx context.Context, id uuid.UUID, req SectionRequest) (*SectionResponse, error) {
	section, err := s.sectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := section.Update(req.input()); err != nil {
		return nil, err
	}
	if err := s.sectionRepo.Save(ctx, section); err != nil {
		return nil, err
	}
	response := ToSectionResponse(section)
	return &response, nil
}

// DeleteSection removes a section
func (s *HomepageService) DeleteSection(ctx context.Context, id uuid.UUID) error {
	if _, err := s.sectionRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.sectionRepo.Delete(ctx, id)
}
