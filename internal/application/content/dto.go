package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/application/catalog"
	"github.com/shopfront/backend/internal/domain/content"
	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest replaces the store settings
type UpdateSettingsRequest struct {
	StoreName             string          `json:"store_name" binding:"required,min=1,max=100"`
	ContactEmail          string          `json:"contact_email" binding:"omitempty,email,max=254"`
	Currency              string          `json:"currency" binding:"required,len=3"`
	FreeShippingThreshold decimal.Decimal `json:"free_shipping_threshold" binding:"gte=0"`
	FlatShippingFee       decimal.Decimal `json:"flat_shipping_fee" binding:"gte=0"`
}

// SettingsResponse represents the store settings
type SettingsResponse struct {
	StoreName             string          `json:"store_name"`
	ContactEmail          string          `json:"contact_email"`
	Currency              string          `json:"currency"`
	FreeShippingThreshold decimal.Decimal `json:"free_shipping_threshold"`
	FlatShippingFee       decimal.Decimal `json:"flat_shipping_fee"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// PublicSettingsResponse is the subset of settings shown to shoppers
type PublicSettingsResponse struct {
	StoreName             string          `json:"store_name"`
	ContactEmail          string          `json:"contact_email,omitempty"`
	Currency              string          `json:"currency"`
	FreeShippingThreshold decimal.Decimal `json:"free_shipping_threshold"`
	FlatShippingFee       decimal.Decimal `json:"flat_shipping_fee"`
}

// BannerRequest creates or replaces a hero banner
type BannerRequest struct {
	Title      string `json:"title" binding:"required,min=1,max=150"`
	Subtitle   string `json:"subtitle" binding:"max=300"`
	ImageURL   string `json:"image_url" binding:"omitempty,max=500"`
	LinkURL    string `json:"link_url" binding:"omitempty,max=500"`
	ButtonText string `json:"button_text" binding:"max=50"`
	SortOrder  int    `json:"sort_order"`
	Active     *bool  `json:"active"`
}

// BannerResponse represents a hero banner
type BannerResponse struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle"`
	ImageURL   string    `json:"image_url"`
	LinkURL    string    `json:"link_url"`
	ButtonText string    `json:"button_text"`
	SortOrder  int       `json:"sort_order"`
	Active     bool      `json:"active"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SectionRequest creates or replaces a homepage section
type SectionRequest struct {
	Title        string `json:"title" binding:"required,min=1,max=150"`
	Kind         string `json:"kind" binding:"required,oneof=FEATURED_PRODUCTS NEW_ARRIVALS CATEGORY"`
	Category     string `json:"category" binding:"max=100"`
	ProductLimit int    `json:"product_limit" binding:"omitempty,min=1,max=24"`
	SortOrder    int    `json:"sort_order"`
	Active       *bool  `json:"active"`
}

// SectionResponse represents a homepage section definition
type SectionResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Kind         string    `json:"kind"`
	Category     string    `json:"category,omitempty"`
	ProductLimit int       `json:"product_limit"`
	SortOrder    int       `json:"sort_order"`
	Active       bool      `json:"active"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HomepageSectionResponse is a section resolved to its products
type HomepageSectionResponse struct {
	ID       uuid.UUID                   `json:"id"`
	Title    string                      `json:"title"`
	Kind     string                      `json:"kind"`
	Category string                      `json:"category,omitempty"`
	Products []catalog.StorefrontProduct `json:"products"`
}

// HomepageResponse is everything the storefront homepage renders
type HomepageResponse struct {
	StoreName string                    `json:"store_name"`
	Banners   []BannerResponse          `json:"banners"`
	Sections  []HomepageSectionResponse `json:"sections"`
}

func (r BannerRequest) input() content.BannerInput {
	return content.BannerInput{
		Title:      r.Title,
		Subtitle:   r.Subtitle,
		ImageURL:   r.ImageURL,
		LinkURL:    r.LinkURL,
		ButtonText: r.ButtonText,
		SortOrder:  r.SortOrder,
		Active:     r.Active == nil || *r.Active,
	}
}

func (r SectionRequest) input() content.SectionInput {
	return content.SectionInput{
		Title:        r.Title,
		Kind:         content.SectionKind(r.Kind),
		Category:     r.Category,
		ProductLimit: r.ProductLimit,
		SortOrder:    r.SortOrder,
		Active:       r.Active == nil || *r.Active,
	}
}

// ToSettingsResponse converts store settings to a response
func ToSettingsResponse(s *content.StoreSettings) SettingsResponse {
	return SettingsResponse{
		StoreName:             s.StoreName,
		ContactEmail:          s.ContactEmail,
		Currency:              s.Currency,
		FreeShippingThreshold: s.FreeShippingThreshold,
		FlatShippingFee:       s.FlatShippingFee,
		UpdatedAt:             s.UpdatedAt,
	}
}

// ToPublicSettingsResponse converts store settings to the shopper view
func ToPublicSettingsResponse(s *content.StoreSettings) PublicSettingsResponse {
	return PublicSettingsResponse{
		StoreName:             s.StoreName,
		ContactEmail:          s.ContactEmail,
		Currency:              s.Currency,
		FreeShippingThreshold: s.FreeShippingThreshold,
		FlatShippingFee:       s.FlatShippingFee,
	}
}

// ToBannerResponse converts a banner to a response
func ToBannerResponse(b *content.HeroBanner) BannerResponse {
	return BannerResponse{
		ID:         b.ID,
		Title:      b.Title,
		Subtitle:   b.Subtitle,
		ImageURL:   b.ImageURL,
		LinkURL:    b.LinkURL,
		ButtonText: b.ButtonText,
		SortOrder:  b.SortOrder,
		Active:     b.Active,
		UpdatedAt:  b.UpdatedAt,
	}
}

// ToBannerResponses converts banners to responses
func ToBannerResponses(banners []content.HeroBanner) []BannerResponse {
	responses := make([]BannerResponse, len(banners))
	for i := range banners {
		responses[i] = ToBannerResponse(&banners[i])
	}
	return responses
}

// ToSectionResponse converts a section to a response
func ToSectionResponse(s *content.HomepageSection) SectionResponse {
	return SectionResponse{
		ID:           s.ID,
		Title:        s.Title,
		Kind:         string(s.Kind),
		Category:     s.Category,
		ProductLimit: s.ProductLimit,
		SortOrder:    s.SortOrder,
		Active:       s.Active,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ToSectionResponses converts sections to responses
func ToSectionResponses(sections []content.HomepageSection) []SectionResponse {
	responses := make([]SectionResponse, len(sections))
	for i := range sections {
		responses[i] = ToSectionResponse(&sections[i])
	}
	return responses
}
